package dto

import (
	"fmt"
)

const (
	artworkURLStart = "https://f4.bcbits.com/img/a"
	artworkURLEnd   = "_0"
)

// JSONTralbum represents the release data embedded in a page's data-tralbum attribute.
type JSONTralbum struct {
	Current  *JSONCurrent `json:"current"`
	ArtID    *int64       `json:"art_id"`
	Artist   string       `json:"artist"`
	ItemType string       `json:"item_type"`
	AlbumURL string       `json:"album_url"`
	Tracks   []JSONTrack  `json:"trackinfo"`
}

// JSONCurrent contains the metadata of the page's own item.
type JSONCurrent struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// JSONTrack represents one entry of the track list.
type JSONTrack struct {
	Number    *int   `json:"track_num"`
	Title     string `json:"title"`
	TitleLink string `json:"title_link"`
}

// Title returns the title of the page's item, if present.
func (jt *JSONTralbum) Title() string {
	if jt.Current == nil {
		return ""
	}
	return jt.Current.Title
}

// ArtworkURL builds the full size artwork URL from art_id.
// Empty when the release has no artwork.
func (jt *JSONTralbum) ArtworkURL() string {
	if jt.ArtID == nil || *jt.ArtID == 0 {
		return ""
	}
	return fmt.Sprintf("%s%010d%s", artworkURLStart, *jt.ArtID, artworkURLEnd)
}

// TrackNumber returns the track number as text, or an empty string.
func (t *JSONTrack) TrackNumber() string {
	if t.Number == nil {
		return ""
	}
	return fmt.Sprintf("%d", *t.Number)
}
