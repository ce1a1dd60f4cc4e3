package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/spf13/afero"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding PNG: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)), nil); err != nil {
		t.Fatalf("encoding JPEG: %v", err)
	}
	return buf.Bytes()
}

func encodeGIF(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding GIF: %v", err)
	}
	return buf.Bytes()
}

func TestWriter_ExistsAndWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs)
	ctx := context.Background()

	if _, ok := w.Exists("/art/label/Album/Cover"); ok {
		t.Fatal("Exists() should be false on an empty file system")
	}

	if err := w.WriteFile(ctx, "/art/label/Album/Cover.png", []byte("data")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	path, ok := w.Exists("/art/label/Album/Cover")
	if !ok {
		t.Fatal("Exists() should find the written file")
	}
	if path != "/art/label/Album/Cover.png" {
		t.Errorf("Exists() path = %q, want %q", path, "/art/label/Album/Cover.png")
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != "data" {
		t.Errorf("content = %q, want %q", data, "data")
	}
}

func TestWriter_ExistsIgnoresDirectoriesAndOtherExtensions(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs)

	if err := fs.MkdirAll("/art/Cover.jpg", 0755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/art/Cover.txt", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if path, ok := w.Exists("/art/Cover"); ok {
		t.Errorf("Exists() = %q, want no match", path)
	}
}

func TestKnownExtensionsCoverWrittenFormats(t *testing.T) {
	known := make(map[string]bool, len(KnownExtensions))
	for _, ext := range KnownExtensions {
		known[ext] = true
	}
	for format, ext := range formatExtensions {
		if !known["."+ext] {
			t.Errorf("format %s is written as .%s, which Exists() doesn't look for", format, ext)
		}
	}
}

func TestWriter_ExistsFindsBMPAndTIFF(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs)

	for _, path := range []string{"/art/01 One.bmp", "/art/02 Two.tif"} {
		if err := afero.WriteFile(fs, path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if path, ok := w.Exists("/art/01 One"); !ok || path != "/art/01 One.bmp" {
		t.Errorf("Exists() = %q, %v, want the BMP file", path, ok)
	}
	if path, ok := w.Exists("/art/02 Two"); !ok || path != "/art/02 Two.tif" {
		t.Errorf("Exists() = %q, %v, want the TIFF file", path, ok)
	}
}

func TestWriter_WriteFileReadOnly(t *testing.T) {
	w := NewWriter(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	if err := w.WriteFile(context.Background(), "/art/Cover.jpg", []byte("x")); err == nil {
		t.Error("expected an error on a read only file system")
	}
}

func TestImageService_Extension(t *testing.T) {
	svc := NewImageService()

	tests := []struct {
		name string
		data []byte
		url  string
		want string
	}{
		{"png content", encodePNG(t, 2, 2), "https://f4.bcbits.com/img/a1_0", "png"},
		{"jpeg content", encodeJPEG(t, 2, 2), "https://f4.bcbits.com/img/a1_0", "jpg"},
		{"gif content", encodeGIF(t), "https://f4.bcbits.com/img/a1_0", "gif"},
		{"content wins over URL", encodePNG(t, 2, 2), "https://example.com/cover.jpg", "png"},
		{"unknown content, URL extension", []byte("not an image"), "https://example.com/cover.JPEG?x=1", "jpg"},
		{"unknown content, no URL extension", []byte("not an image"), "https://f4.bcbits.com/img/a1_0", DefaultExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.Extension(tt.data, tt.url); got != tt.want {
				t.Errorf("Extension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImageService_ResizeImage(t *testing.T) {
	svc := NewImageService()
	ctx := context.Background()

	large := encodePNG(t, 400, 200)
	resized, err := svc.ResizeImage(ctx, large, 100, 100)
	if err != nil {
		t.Fatalf("ResizeImage failed: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(resized))
	if err != nil {
		t.Fatalf("decoding resized image: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("size = %dx%d, want 100x50", cfg.Width, cfg.Height)
	}

	small := encodePNG(t, 50, 50)
	unchanged, err := svc.ResizeImage(ctx, small, 100, 100)
	if err != nil {
		t.Fatalf("ResizeImage failed: %v", err)
	}
	if !bytes.Equal(unchanged, small) {
		t.Error("images within bounds should be returned unchanged")
	}
}

func TestImageService_ConvertToJPEG(t *testing.T) {
	svc := NewImageService()
	ctx := context.Background()

	converted, err := svc.ConvertToJPEG(ctx, encodePNG(t, 10, 10))
	if err != nil {
		t.Fatalf("ConvertToJPEG failed: %v", err)
	}
	if format, _ := svc.DetectFormat(converted); format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}

	if _, err := svc.ConvertToJPEG(ctx, []byte("garbage")); err == nil {
		t.Error("expected an error for non-image data")
	}
}
