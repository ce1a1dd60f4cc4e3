// Package model defines the core data structures used throughout
// the bandcamp-art application.
//
// # Release
//
// Release groups the artwork found for one album, or for one standalone
// track, together with the local paths the images will be written to:
//
//	cover := model.NewCoverArtwork("label", "Album", pageURL, imageURL, naming)
//	release := model.NewRelease("label", "Album", pageURL, cover)
//	for _, art := range release.Artworks() {
//	    fmt.Println(art.Path) // Where the image will be saved, without extension
//	}
//
// # Naming
//
// NamingConfig controls how paths are derived. Two conventions exist: the
// default one keeps names readable and only replaces characters that are
// invalid in file names, the HSMusic one produces lowercase dash-separated
// slugs the way hsmusic-wiki expects them:
//
//	cfg := &model.NamingConfig{OutputDir: "art", HSMusic: true}
//	cfg.ArtworkPath("label", "Some Album", "Track & Field", "3")
//	// art/label/some-album/track-and-field
package model
