package model

// CoverTrackName is the track name used to derive the album cover's file name.
const CoverTrackName = "Cover"

// SinglesAlbumName is the album name given to tracks that are not part of an album.
const SinglesAlbumName = "singles"

// Artwork is a single image referenced by an album or track page.
//
// Path is the computed local path the image will be written to, without a
// file extension. The extension is only known once the image content has
// been fetched.
type Artwork struct {
	// PageURL is the album or track page the artwork was found on.
	PageURL string

	// ImageURL is the URL of the full size image.
	ImageURL string

	// Artist is the discography name the page belongs to.
	Artist string

	// Album is the release title.
	Album string

	// Track is the track title. Empty for album covers.
	Track string

	// TrackNumber is the track's position on the album, as shown on the
	// album page. Empty for covers and standalone tracks.
	TrackNumber string

	// Cover is true for the album cover.
	Cover bool

	// Path is the computed local file path without extension.
	Path string
}

// NewCoverArtwork creates the cover artwork of an album with its computed path.
func NewCoverArtwork(artist, album, pageURL, imageURL string, cfg *NamingConfig) *Artwork {
	return &Artwork{
		PageURL:  pageURL,
		ImageURL: imageURL,
		Artist:   artist,
		Album:    album,
		Cover:    true,
		Path:     cfg.ArtworkPath(artist, album, CoverTrackName, ""),
	}
}

// NewTrackArtwork creates the artwork of a track with its computed path.
//
// number may be empty when the track was not reached through an album page.
func NewTrackArtwork(artist, album, track, number, pageURL, imageURL string, cfg *NamingConfig) *Artwork {
	number = FormatTrackNumber(number)
	return &Artwork{
		PageURL:     pageURL,
		ImageURL:    imageURL,
		Artist:      artist,
		Album:       album,
		Track:       track,
		TrackNumber: number,
		Path:        cfg.ArtworkPath(artist, album, track, number),
	}
}

// Release is an album, or a standalone track treated as a one item release.
type Release struct {
	// Artist is the discography name.
	Artist string

	// Title is the album title, or the track title for standalone tracks.
	Title string

	// URL is the page the release was resolved from.
	URL string

	// Cover is the album cover. Nil for standalone tracks.
	Cover *Artwork

	// Tracks holds the artwork of every track page, in album order.
	Tracks []*Artwork
}

// NewRelease creates a release. cover may be nil.
func NewRelease(artist, title, url string, cover *Artwork) *Release {
	return &Release{
		Artist: artist,
		Title:  title,
		URL:    url,
		Cover:  cover,
	}
}

// IsAlbum reports whether the release came from an album page.
func (r *Release) IsAlbum() bool {
	return r.Cover != nil
}

// Artworks returns all artwork of the release, cover first.
func (r *Release) Artworks() []*Artwork {
	arts := make([]*Artwork, 0, len(r.Tracks)+1)
	if r.Cover != nil {
		arts = append(arts, r.Cover)
	}
	return append(arts, r.Tracks...)
}
