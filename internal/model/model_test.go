package model

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeName_Default(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Normal Name", "Normal Name"},
		{"AC/DC: Live", "AC-DC- Live"},
		{"back\\slash", "back-slash"},
		{"what?*", "what--"},
		{`"quoted" <angle> |pipe|`, "-quoted- -angle- -pipe-"},
		{"tab\tseparated", "tab-separated"},
		{"trailing spaces   ", "trailing spaces-"},
		{"Café & Friends", "Café & Friends"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeName(tt.input, false)
			if got != tt.want {
				t.Errorf("NormalizeName(%q, false) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeName_HSMusic(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Hello World & Friends", "hello-world-and-friends"},
		{"C++", "c-plus-plus"},
		{"100%", "100-percent"},
		{"Mr. Jones", "mr-jones"},
		{"Track 1.5", "track-15"},
		{"x^2", "x2"},
		{"2^x", "2-x"},
		{"A/B (Remix)", "a-b-remix"},
		{"Café Olé", "cafe-ole"},
		{"ÇA VA", "ca-va"},
		{"--Leading and trailing--", "leading-and-trailing"},
		{"what's up?", "whats-up"},
		{"my.label.com", "my-label-com"},
		{"x.éé", "x-ee"},
		{"éé.x", "ee-x"},
		{"Vol.ÉÉ", "vol-ee"},
		{"a.b", "ab"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeName(tt.input, true)
			if got != tt.want {
				t.Errorf("NormalizeName(%q, true) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatTrackNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.", "01"},
		{"\n\t 12.\n", "12"},
		{"7", "07"},
		{"B1", "B1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FormatTrackNumber(tt.input); got != tt.want {
				t.Errorf("FormatTrackNumber(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNamingConfig_ArtworkPath(t *testing.T) {
	tests := []struct {
		name   string
		cfg    NamingConfig
		artist string
		album  string
		track  string
		number string
		want   string
	}{
		{
			name:   "track with number",
			cfg:    NamingConfig{OutputDir: "out", TrackNumbers: true},
			artist: "label", album: "Some Album", track: "First Song", number: "01",
			want: filepath.Join("out", "label", "Some Album", "01 First Song"),
		},
		{
			name:   "track numbers disabled",
			cfg:    NamingConfig{OutputDir: "out"},
			artist: "label", album: "Some Album", track: "First Song", number: "01",
			want: filepath.Join("out", "label", "Some Album", "First Song"),
		},
		{
			name:   "hsmusic ignores track numbers",
			cfg:    NamingConfig{OutputDir: "out", HSMusic: true, TrackNumbers: true},
			artist: "label", album: "Some Album", track: "First Song", number: "01",
			want: filepath.Join("out", "label", "some-album", "first-song"),
		},
		{
			name:   "cover",
			cfg:    NamingConfig{OutputDir: "out", TrackNumbers: true},
			artist: "label", album: "Some Album", track: CoverTrackName,
			want: filepath.Join("out", "label", "Some Album", "Cover"),
		},
		{
			name:   "hsmusic cover",
			cfg:    NamingConfig{HSMusic: true},
			artist: "label", album: "Some Album", track: CoverTrackName,
			want: filepath.Join("label", "some-album", "cover"),
		},
		{
			name:   "missing track name falls back to number",
			cfg:    NamingConfig{HSMusic: true},
			artist: "label", album: "Album", track: "???", number: "04",
			want: filepath.Join("label", "album", "04"),
		},
		{
			name:   "nothing to name the file after",
			cfg:    NamingConfig{HSMusic: true},
			artist: "label", album: "Album",
			want: filepath.Join("label", "album", IndeterminableTrackName),
		},
		{
			name:   "hsmusic album without ASCII characters",
			cfg:    NamingConfig{OutputDir: "out", HSMusic: true},
			artist: "label", album: "東京", track: CoverTrackName,
			want: filepath.Join("out", "label", "u6771-u4eac", "cover"),
		},
		{
			name:   "hsmusic artist without ASCII characters",
			cfg:    NamingConfig{HSMusic: true},
			artist: "大阪", album: "Album 2", track: "Song",
			want: filepath.Join("u5927-u962a", "album-2", "song"),
		},
		{
			name:   "invalid characters replaced",
			cfg:    NamingConfig{},
			artist: "label", album: "A/B", track: "Why?",
			want: filepath.Join("label", "A-B", "Why-"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.ArtworkPath(tt.artist, tt.album, tt.track, tt.number)
			if got != tt.want {
				t.Errorf("ArtworkPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNamingConfig_ArtworkPathDistinctAlbumsWithoutASCII(t *testing.T) {
	cfg := &NamingConfig{OutputDir: "/out", HSMusic: true}

	tokyo := cfg.ArtworkPath("label", "東京", CoverTrackName, "")
	osaka := cfg.ArtworkPath("label", "大阪", CoverTrackName, "")

	if tokyo == osaka {
		t.Errorf("both albums map to %q", tokyo)
	}
	if dir := filepath.Dir(tokyo); dir == filepath.Join("/out", "label") {
		t.Errorf("cover of an album was placed in the artist directory: %q", tokyo)
	}
}

func TestNamingConfig_ArtworkPathTruncatesLongNames(t *testing.T) {
	cfg := &NamingConfig{}
	track := strings.Repeat("é", 200)

	got := filepath.Base(cfg.ArtworkPath("label", "album", track, ""))
	if len(got) > maxFileNameLength {
		t.Errorf("file name is %d bytes, want at most %d", len(got), maxFileNameLength)
	}
	if !utf8.ValidString(got) {
		t.Errorf("file name %q is not valid UTF-8", got)
	}
}

func TestRelease_Artworks(t *testing.T) {
	cfg := &NamingConfig{TrackNumbers: true}

	cover := NewCoverArtwork("label", "Album", "https://label.bandcamp.com/album/album", "https://img/a1_0", cfg)
	release := NewRelease("label", "Album", cover.PageURL, cover)
	release.Tracks = append(release.Tracks,
		NewTrackArtwork("label", "Album", "One", "1.", "https://label.bandcamp.com/track/one", "https://img/a2_0", cfg),
		NewTrackArtwork("label", "Album", "Two", "2.", "https://label.bandcamp.com/track/two", "https://img/a3_0", cfg),
	)

	if !release.IsAlbum() {
		t.Error("IsAlbum() should be true for a release with a cover")
	}

	arts := release.Artworks()
	if len(arts) != 3 {
		t.Fatalf("got %d artworks, want 3", len(arts))
	}
	if !arts[0].Cover {
		t.Error("first artwork should be the cover")
	}
	if arts[1].TrackNumber != "01" {
		t.Errorf("TrackNumber = %q, want %q", arts[1].TrackNumber, "01")
	}
	if want := filepath.Join("label", "Album", "02 Two"); arts[2].Path != want {
		t.Errorf("Path = %q, want %q", arts[2].Path, want)
	}
}

func TestRelease_StandaloneTrack(t *testing.T) {
	cfg := &NamingConfig{}

	track := NewTrackArtwork("label", SinglesAlbumName, "Lonely", "", "https://label.bandcamp.com/track/lonely", "https://img/a4_0", cfg)
	release := NewRelease("label", "Lonely", track.PageURL, nil)
	release.Tracks = []*Artwork{track}

	if release.IsAlbum() {
		t.Error("IsAlbum() should be false for a standalone track")
	}
	if want := filepath.Join("label", "singles", "Lonely"); track.Path != want {
		t.Errorf("Path = %q, want %q", track.Path, want)
	}
}
