// Package bandcamp provides functionality to classify Bandcamp URLs and
// to parse Bandcamp HTML pages for the artwork they reference.
//
// The package handles three kinds of pages:
//
//  1. Discography pages (https://label.bandcamp.com/music), listing releases
//  2. Album pages, with a cover and a list of track pages
//  3. Track pages, with their own artwork
//
// # URL Classification
//
//	page, err := bandcamp.ClassifyURL("https://label.bandcamp.com")
//	// page.Kind == bandcamp.PageDiscography
//	// page.URL  == "https://label.bandcamp.com/music"
//
// # Page Parsing
//
//	parser := bandcamp.NewParser()
//	album, err := parser.ParseAlbumPage(htmlContent, pageURL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(album.Title, album.ImageURL)
//	for _, row := range album.Tracks {
//	    fmt.Println(row.Number, row.URL)
//	}
//
// # Bandcamp Data Format
//
// Besides the visible markup, Bandcamp embeds release data as JSON in a
// `data-tralbum` attribute. The parser falls back to that JSON when the
// markup lacks artwork or track rows.
package bandcamp
