package bandcamp

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/handiism/bandcamp-art/internal/bandcamp/dto"
)

// ErrNoReleasesFound is returned when no album or track URLs can be found on a page.
//
// This typically occurs when:
//   - The URL is not a valid Bandcamp artist/music page
//   - The artist has no published albums or tracks
//   - The HTML structure has changed unexpectedly
var ErrNoReleasesFound = errors.New("no releases found on page")

// ParseDiscographyPage extracts all album and track URLs from a Bandcamp music page.
//
// The returned URLs are absolute, resolved against pageURL, and in page order.
//
// The method handles three cases:
//  1. Normal music pages: every li.music-grid-item links to a release
//  2. Long discographies: releases beyond the rendered grid are listed in
//     the data-client-items JSON of ol#music-grid
//  3. Single-album artists: Bandcamp serves the album page itself at /music,
//     recognizable by its #discography block
//
// Duplicate URLs are filtered out.
//
// Returns ErrNoReleasesFound if no album or track URLs can be found.
//
// Example:
//
//	urls, err := parser.ParseDiscographyPage(musicPageHTML, "https://label.bandcamp.com/music")
//	if errors.Is(err, ErrNoReleasesFound) {
//	    fmt.Println("Label has no published music")
//	    return
//	}
func (p *Parser) ParseDiscographyPage(htmlContent, pageURL string) ([]string, error) {
	doc, base, err := newDocument(htmlContent, pageURL)
	if err != nil {
		return nil, err
	}

	var refs []string
	doc.Find("li.music-grid-item").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Find("a").First().Attr("href"); ok {
			refs = append(refs, href)
		}
	})
	refs = append(refs, clientItemURLs(doc)...)

	if len(refs) == 0 && isSingleAlbumArtist(doc) {
		albumURL, err := getSingleAlbumURL(doc, base)
		if err != nil {
			return nil, err
		}
		return []string{albumURL}, nil
	}

	urls := uniqueResolved(base, refs)
	if len(urls) == 0 {
		return nil, ErrNoReleasesFound
	}
	return urls, nil
}

func clientItemURLs(doc *goquery.Document) []string {
	data, ok := doc.Find("ol#music-grid").First().Attr("data-client-items")
	if !ok || data == "" {
		return nil
	}

	var items []dto.JSONClientItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil
	}

	urls := make([]string, 0, len(items))
	for _, item := range items {
		if item.PageURL != "" {
			urls = append(urls, item.PageURL)
		}
	}
	return urls
}

// isSingleAlbumArtist checks if the page is an album page rather than a music listing.
//
// When an artist has only one album, Bandcamp often serves the album page
// at /music. The "discography" block is only present on album pages.
func isSingleAlbumArtist(doc *goquery.Document) bool {
	return doc.Find("#discography").Length() > 0
}

// getSingleAlbumURL extracts the album URL from a single-album artist's page.
//
// Returns ErrNoReleasesFound if no album URL is found and an error if
// several distinct album URLs are found.
func getSingleAlbumURL(doc *goquery.Document, base *url.URL) (string, error) {
	var refs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.Contains(href, "/album/") {
			refs = append(refs, href)
		}
	})

	urls := uniqueResolved(base, refs)
	switch len(urls) {
	case 0:
		return "", ErrNoReleasesFound
	case 1:
		return urls[0], nil
	}
	return "", errors.New("found multiple album URLs, expected exactly one")
}

// uniqueResolved resolves refs against base, dropping invalid and duplicate
// URLs while keeping the first occurrence's position.
func uniqueResolved(base *url.URL, refs []string) []string {
	seen := make(map[string]struct{}, len(refs))
	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		resolved, err := resolveURL(base, ref)
		if err != nil {
			continue
		}
		if _, ok := seen[resolved]; ok {
			continue
		}
		seen[resolved] = struct{}{}
		urls = append(urls, resolved)
	}
	return urls
}
