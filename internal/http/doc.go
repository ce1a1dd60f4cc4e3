// Package http provides an HTTP client configured for fetching Bandcamp
// pages and artwork.
//
// The Client in this package handles:
//   - User-Agent headers for Bandcamp compatibility
//   - Timeout handling
//   - Rejecting non-200 responses with a StatusError
//
// # Basic Usage
//
//	client := http.NewClient("", 0) // defaults
//
//	// Fetch HTML page
//	html, err := client.GetString(ctx, "https://label.bandcamp.com/album/name")
//
//	// Fetch an image into memory
//	data, err := client.DownloadBytes(ctx, artworkURL)
package http
