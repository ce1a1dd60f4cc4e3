// Package ioutils provides file system and image processing utilities.
//
// This package contains:
//   - A Writer that checks for and writes artwork files on an afero.Fs
//   - Image format detection used to pick file extensions
//   - Image resizing and format conversion
//
// # File Operations
//
//	w := ioutils.NewWriter(afero.NewOsFs())
//
//	// Look for artwork saved under any known image extension
//	if existing, ok := w.Exists("/art/label/Album/Cover"); ok {
//	    fmt.Println("already saved as", existing)
//	}
//
//	// Write data, creating parent directories
//	err := w.WriteFile(ctx, "/art/label/Album/Cover.jpg", data)
//
// # Image Processing
//
// The ImageService identifies and manipulates cover art:
//
//	svc := ioutils.NewImageService()
//
//	ext := svc.Extension(data, artworkURL) // "jpg", "png", ...
//
//	// Resize image to fit within 500x500
//	resized, _ := svc.ResizeImage(ctx, imageData, 500, 500)
//
//	// Convert to JPEG
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
