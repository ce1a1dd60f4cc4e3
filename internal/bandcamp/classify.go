package bandcamp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnrecognizedURL is returned for URLs that are neither a discography,
// an album nor a track page.
var ErrUnrecognizedURL = errors.New("unrecognized URL")

const bandcampDomainSuffix = ".bandcamp.com"

// PageKind is the type of page a URL points to.
type PageKind int

const (
	// PageUnknown is any page this tool can't handle.
	PageUnknown PageKind = iota

	// PageDiscography lists all releases of a label or artist.
	PageDiscography

	// PageAlbum is a single album with its track list.
	PageAlbum

	// PageTrack is a single track, standalone or part of an album.
	PageTrack
)

// String returns a human readable name for the page kind.
func (k PageKind) String() string {
	switch k {
	case PageDiscography:
		return "discography"
	case PageAlbum:
		return "album"
	case PageTrack:
		return "track"
	default:
		return "unknown"
	}
}

// Page is a classified URL.
type Page struct {
	// Kind is the type of page.
	Kind PageKind

	// URL is the URL to fetch. For discography pages this is always the
	// /music listing, even if a bare domain was given.
	URL string
}

// ClassifyURL determines the page type of a URL from its path.
//
// The rules are:
//   - "", "/" and "/music" are discography pages (fetched at /music)
//   - paths starting with /album are album pages
//   - paths starting with /track are track pages
//
// Any other path returns ErrUnrecognizedURL.
//
// Example:
//
//	page, err := ClassifyURL("https://label.bandcamp.com/album/name")
//	// page.Kind == PageAlbum
func ClassifyURL(raw string) (Page, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Page{}, fmt.Errorf("%w: %s: %v", ErrUnrecognizedURL, raw, err)
	}
	if u.Host == "" {
		return Page{}, fmt.Errorf("%w: %s", ErrUnrecognizedURL, raw)
	}

	switch {
	case u.Path == "" || u.Path == "/" || u.Path == "/music":
		u.Path = "/music"
		u.RawPath = ""
		return Page{Kind: PageDiscography, URL: u.String()}, nil
	case strings.HasPrefix(u.Path, "/album"):
		return Page{Kind: PageAlbum, URL: u.String()}, nil
	case strings.HasPrefix(u.Path, "/track"):
		return Page{Kind: PageTrack, URL: u.String()}, nil
	}

	return Page{Kind: PageUnknown, URL: u.String()}, fmt.Errorf("%w: %s", ErrUnrecognizedURL, raw)
}

// ArtistFromURL returns the discography name of a page.
//
// For Bandcamp subdomains this is the subdomain ("label" for
// label.bandcamp.com); for custom domains it is the full hostname.
func ArtistFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if strings.HasSuffix(host, bandcampDomainSuffix) {
		return strings.TrimSuffix(host, bandcampDomainSuffix)
	}
	return host
}

// IsTrackURL reports whether a release URL points to a standalone track.
func IsTrackURL(u string) bool {
	return strings.Contains(u, "/track/")
}

// resolveURL resolves ref against the page it was found on.
func resolveURL(base *url.URL, ref string) (string, error) {
	refURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(refURL).String(), nil
}
