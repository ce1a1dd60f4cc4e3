// Package download provides the orchestration logic for fetching artwork
// from Bandcamp pages and writing it to disk.
//
// # Manager
//
// The Manager coordinates the entire process:
//
//  1. Classify input URLs
//  2. Expand discography pages into releases
//  3. Fetch album and track pages for their artwork
//  4. Download artwork, skipping existing files and re-used images
//  5. Write images with extensions derived from their content
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	err := manager.Initialize(ctx, []string{"https://label.bandcamp.com"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = manager.StartDownloads(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(manager.GetProgress().Saved, "images saved")
//
// # Concurrency
//
// The Manager uses configurable concurrency limits:
//   - MaxConcurrentReleases: How many releases to resolve and download in parallel
//   - MaxConcurrentPages: How many track pages per album to fetch in parallel
//
// Artwork within one release is always processed in album order, cover
// first, so that the same image is only written for its first occurrence.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// The callback is never invoked concurrently.
//
// # Retry Logic
//
// Failed page and image requests are retried with exponential backoff,
// configurable via settings.DownloadMaxRetries and settings.DownloadRetryCooldown.
// Client errors (4xx other than 429) are not retried.
package download
