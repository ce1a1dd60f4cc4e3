package bandcamp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/handiism/bandcamp-art/internal/bandcamp/dto"
	"github.com/handiism/bandcamp-art/internal/model"
)

// ErrMissingMetadata is returned when a release page lacks a title or artwork.
var ErrMissingMetadata = errors.New("missing release metadata")

// artworkSizeSuffix matches the size variant Bandcamp appends to image URLs,
// e.g. "_10.jpg" in https://f4.bcbits.com/img/a0123456789_10.jpg.
var artworkSizeSuffix = regexp.MustCompile(`_\d+\.(?i:jpe?g|png|gif)$`)

// ReleasePage holds the metadata extracted from an album or track page.
type ReleasePage struct {
	// URL is the page URL.
	URL string

	// Title is the album title on album pages and the track title on track pages.
	Title string

	// FromAlbum is the album a track page belongs to. Empty for album pages
	// and standalone tracks.
	FromAlbum string

	// ImageURL is the full size artwork URL.
	ImageURL string

	// Tracks lists the track pages of an album. Empty for track pages.
	Tracks []TrackRow
}

// TrackRow is one entry of an album's track list.
type TrackRow struct {
	// Number is the track number as displayed, e.g. "3.".
	Number string

	// URL is the absolute track page URL.
	URL string
}

// Names returns the album and track names the page's artwork is filed under.
//
//   - track page on an album: album = FromAlbum, track = Title
//   - standalone track page: album = "singles", track = Title
//   - album page: album = Title, track = ""
func (p *ReleasePage) Names() (album, track string) {
	if !IsTrackURL(p.URL) {
		return p.Title, ""
	}
	if p.FromAlbum != "" {
		return p.FromAlbum, p.Title
	}
	return model.SinglesAlbumName, p.Title
}

// Parser extracts artwork information from Bandcamp HTML pages.
//
// Metadata is read from the visible markup first. When the markup lacks
// artwork or track rows, the Open Graph tags and the data-tralbum JSON
// embedded in the page are used instead.
//
// Example usage:
//
//	parser := NewParser()
//
//	html, _ := client.GetString(ctx, "https://label.bandcamp.com/track/name")
//	page, err := parser.ParseTrackPage(html, "https://label.bandcamp.com/track/name")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	album, track := page.Names()
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseTrackPage extracts the title, album and artwork of a track page.
func (p *Parser) ParseTrackPage(htmlContent, pageURL string) (*ReleasePage, error) {
	doc, base, err := newDocument(htmlContent, pageURL)
	if err != nil {
		return nil, err
	}
	return p.parseRelease(doc, base, pageURL)
}

// ParseAlbumPage extracts the title and artwork of an album page along with
// its track list.
//
// Track rows are the elements with itemprop="tracks" or class
// track_row_view, in document order. Rows without a link to a track page
// (unreleased tracks) are skipped.
//
// Returns ErrMissingMetadata if no title or artwork can be found.
//
// Example:
//
//	page, err := parser.ParseAlbumPage(html, albumURL)
//	if errors.Is(err, ErrMissingMetadata) {
//	    fmt.Println("Not an album page")
//	    return
//	}
func (p *Parser) ParseAlbumPage(htmlContent, pageURL string) (*ReleasePage, error) {
	doc, base, err := newDocument(htmlContent, pageURL)
	if err != nil {
		return nil, err
	}

	page, err := p.parseRelease(doc, base, pageURL)
	if err != nil {
		return nil, err
	}

	page.Tracks = p.parseTrackRows(doc, base)
	if len(page.Tracks) == 0 {
		if tralbum, err := extractTralbum(doc); err == nil {
			page.Tracks = tracksFromTralbum(tralbum, base)
		}
	}

	return page, nil
}

func newDocument(htmlContent, pageURL string) (*goquery.Document, *url.URL, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, base, nil
}

func (p *Parser) parseRelease(doc *goquery.Document, base *url.URL, pageURL string) (*ReleasePage, error) {
	page := &ReleasePage{
		URL:       pageURL,
		Title:     strings.TrimSpace(doc.Find("h2.trackTitle").First().Text()),
		FromAlbum: strings.TrimSpace(doc.Find("span.fromAlbum").First().Text()),
	}

	imageURL, _ := doc.Find("a.popupImage").First().Attr("href")
	if imageURL == "" {
		imageURL, _ = doc.Find("meta[property='og:image']").First().Attr("content")
	}

	if page.Title == "" || imageURL == "" {
		// Fall back to the embedded release data
		if tralbum, err := extractTralbum(doc); err == nil {
			if page.Title == "" {
				page.Title = strings.TrimSpace(tralbum.Title())
			}
			if imageURL == "" {
				imageURL = tralbum.ArtworkURL()
			}
		}
	}

	if page.Title == "" {
		return nil, fmt.Errorf("%w: no title on %s", ErrMissingMetadata, pageURL)
	}
	if imageURL == "" {
		return nil, fmt.Errorf("%w: no artwork on %s", ErrMissingMetadata, pageURL)
	}

	resolved, err := resolveURL(base, imageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid artwork URL %q: %w", imageURL, err)
	}
	page.ImageURL = FullSizeArtworkURL(resolved)

	return page, nil
}

func (p *Parser) parseTrackRows(doc *goquery.Document, base *url.URL) []TrackRow {
	var rows []TrackRow

	// A selector group yields each matching node once, in document order.
	doc.Find("[itemprop=tracks], .track_row_view").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Find(".title a").First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		trackURL, err := resolveURL(base, href)
		if err != nil {
			return
		}

		rows = append(rows, TrackRow{
			Number: strings.TrimSpace(s.Find(".track-number-col").First().Text()),
			URL:    trackURL,
		})
	})

	return rows
}

// FullSizeArtworkURL rewrites a sized artwork URL to the original upload.
//
//	FullSizeArtworkURL("https://f4.bcbits.com/img/a0123456789_10.jpg")
//	// "https://f4.bcbits.com/img/a0123456789_0"
func FullSizeArtworkURL(imageURL string) string {
	return artworkSizeSuffix.ReplaceAllString(imageURL, "_0")
}

// extractTralbum reads the data-tralbum JSON embedded in the page.
//
// Bandcamp embeds release data in the HTML like this:
//
//	<script ... data-tralbum="{...JSON...}">
//
// goquery returns the attribute already HTML-unescaped.
func extractTralbum(doc *goquery.Document) (*dto.JSONTralbum, error) {
	data, ok := doc.Find("[data-tralbum]").First().Attr("data-tralbum")
	if !ok || data == "" {
		return nil, fmt.Errorf("could not find album data in HTML")
	}

	var tralbum dto.JSONTralbum
	if err := json.Unmarshal([]byte(fixJSON(data)), &tralbum); err != nil {
		return nil, fmt.Errorf("failed to parse album JSON: %w", err)
	}
	return &tralbum, nil
}

var urlConcatenation = regexp.MustCompile(`(url: ".+)" \+ "(.+",)`)

// fixJSON fixes malformed JSON from Bandcamp pages.
//
// Some Bandcamp pages have JavaScript-style URL concatenation in the JSON:
//
//	url: "http://example.bandcamp.com" + "/album/name",
//
// This is not valid JSON, so we fix it by removing the concatenation.
func fixJSON(data string) string {
	return urlConcatenation.ReplaceAllString(data, "${1}${2}")
}

func tracksFromTralbum(tralbum *dto.JSONTralbum, base *url.URL) []TrackRow {
	var rows []TrackRow
	for _, track := range tralbum.Tracks {
		if track.TitleLink == "" {
			continue
		}
		trackURL, err := resolveURL(base, track.TitleLink)
		if err != nil {
			continue
		}
		rows = append(rows, TrackRow{Number: track.TrackNumber(), URL: trackURL})
	}
	return rows
}
