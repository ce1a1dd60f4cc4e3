package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxFileNameLength leaves room for the extension within the common
// 255 byte file name limit.
const maxFileNameLength = 247

// IndeterminableTrackName is used when neither a track name nor a track
// number could be found.
const IndeterminableTrackName = "indeterminable-track-name"

// NamingConfig holds path formatting settings for artwork.
//
// Example configuration:
//
//	cfg := &NamingConfig{
//	    OutputDir:    "/home/user/Pictures/bandcamp",
//	    TrackNumbers: true,
//	}
//	// /home/user/Pictures/bandcamp/label/Album/03 Track
type NamingConfig struct {
	// OutputDir is the root directory artwork is saved under.
	OutputDir string

	// HSMusic switches to the hsmusic-wiki naming convention.
	HSMusic bool

	// TrackNumbers prefixes track artwork with the track number.
	// Ignored when HSMusic is set.
	TrackNumbers bool
}

// Normalize normalizes a single path component according to the config.
func (c *NamingConfig) Normalize(name string) string {
	return NormalizeName(name, c.HSMusic)
}

// ArtworkPath computes the local path, without extension, for an image.
//
// The path is laid out as <OutputDir>/<artist>/<album>/<file name>. The
// file name is the normalized track name, falling back to the track number
// and then to IndeterminableTrackName. The track number is prepended when
// TrackNumbers is set and HSMusic is not. Artist and album names that
// normalize to nothing are spelled out by code point.
func (c *NamingConfig) ArtworkPath(artist, album, track, number string) string {
	slug := c.Normalize(track)
	if slug == "" {
		slug = number
	}
	if slug == "" {
		slug = IndeterminableTrackName
	}

	fileName := slug
	if number != "" && c.TrackNumbers && !c.HSMusic {
		fileName = number + " " + slug
	}
	fileName = truncateName(fileName, maxFileNameLength)

	return filepath.Join(c.OutputDir, c.directoryName(artist), c.directoryName(album), fileName)
}

// directoryName normalizes an artist or album name. A name that normalizes
// to nothing, like "東京" in HSMusic mode, is spelled out by code point so
// that different releases never share a directory.
func (c *NamingConfig) directoryName(name string) string {
	if normalized := c.Normalize(name); normalized != "" {
		return normalized
	}
	return codePointSlug(name)
}

// codePointSlug spells out name with ASCII letters and digits kept and
// every other non-space rune written as its code point:
//
//	codePointSlug("東京 2") // "u6771-u4eac-2"
func codePointSlug(name string) string {
	var parts []string
	for _, r := range name {
		switch {
		case unicode.IsSpace(r) || r == '-':
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			parts = append(parts, strings.ToLower(string(r)))
		default:
			parts = append(parts, fmt.Sprintf("u%04x", r))
		}
	}
	return strings.Join(parts, "-")
}

// FormatTrackNumber cleans up a track number as displayed on an album page.
//
// Surrounding whitespace and a trailing period are removed and numeric
// values are zero-padded to two digits:
//
//	FormatTrackNumber("\n  3.\n") // "03"
//	FormatTrackNumber("B1")       // "B1"
func FormatTrackNumber(number string) string {
	number = strings.TrimSpace(number)
	number = strings.TrimRight(number, ".")
	number = strings.TrimSpace(number)
	if n, err := strconv.Atoi(number); err == nil && n >= 0 {
		return fmt.Sprintf("%02d", n)
	}
	return number
}

var (
	invalidNameChars = regexp.MustCompile(`[\\/:*?"<>|\t]| +$`)

	hsSeparators   = regexp.MustCompile("[/@#$%*()_=,\\[\\]{}|\\\\;:<>?`~]")
	hsInvalidChars = regexp.MustCompile(`[^a-zA-Z0-9-]`)
	hsDashRuns     = regexp.MustCompile(`-{2,}`)

	hsAccents = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`(?i)[áâäàå]`), "a"},
		{regexp.MustCompile(`(?i)[çč]`), "c"},
		{regexp.MustCompile(`(?i)[éêëè]`), "e"},
		{regexp.MustCompile(`(?i)[íîïì]`), "i"},
		{regexp.MustCompile(`(?i)[óôöò]`), "o"},
		{regexp.MustCompile(`(?i)[úûüù]`), "u"},
	}
)

// NormalizeName turns an artist, album or track name into a path component.
//
// In the default mode only characters that are invalid in file names
// (\ / : * ? " < > | and tabs) and trailing spaces are replaced by dashes:
//
//	NormalizeName("AC/DC: Live", false) // "AC-DC- Live"
//
// In HSMusic mode the name becomes a lowercase, dash-separated ASCII slug:
//
//	NormalizeName("Café & Friends (Live)", true) // "cafe-and-friends-live"
func NormalizeName(name string, hsmusic bool) string {
	if !hsmusic {
		return invalidNameChars.ReplaceAllString(name, "-")
	}

	r := strings.ReplaceAll(name, " ", "-")
	r = strings.ReplaceAll(r, "&", "and")

	// Punctuation as words
	r = strings.ReplaceAll(r, "+", "-plus-")
	r = strings.ReplaceAll(r, "%", "-percent-")

	// A period only divides words, not single characters
	r = replaceWordPeriods(r)

	r = replaceCarets(r)
	r = hsSeparators.ReplaceAllString(r, "-")

	for _, accent := range hsAccents {
		r = accent.re.ReplaceAllString(r, accent.repl)
	}

	r = hsInvalidChars.ReplaceAllString(r, "")
	r = hsDashRuns.ReplaceAllString(r, "-")
	r = strings.Trim(r, "-")

	return strings.ToLower(r)
}

// replaceCarets turns carets into dashes, except where a caret joins a
// number to a preceding non-number, as in "x^2".
func replaceCarets(s string) string {
	if !strings.Contains(s, "^") {
		return s
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range runes {
		if r == '^' {
			afterDigit := i > 0 && isDigit(runes[i-1])
			beforeDigit := i+1 < len(runes) && isDigit(runes[i+1])
			if afterDigit || !beforeDigit {
				b.WriteByte('-')
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// replaceWordPeriods turns a period into a dash when it ends or starts a
// word of two or more characters. A word is a run of characters other than
// whitespace, periods and dashes that begins (or, after the period, ends)
// at a word boundary. Word characters are Unicode letters, numbers and "_".
func replaceWordPeriods(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}

	runes := []rune(s)
	inWord := func(i int) bool {
		return i < len(runes) && !unicode.IsSpace(runes[i]) && runes[i] != '.' && runes[i] != '-'
	}
	isWordChar := func(i int) bool {
		if i < 0 || i >= len(runes) {
			return false
		}
		r := runes[i]
		return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
	}
	boundary := func(i int) bool {
		return isWordChar(i-1) != isWordChar(i)
	}

	// Word, then period
	for d, r := range runes {
		if r != '.' {
			continue
		}
		start := d
		for start > 0 && inWord(start-1) {
			start--
		}
		for p := start; p <= d-2; p++ {
			if boundary(p) {
				runes[d] = '-'
				break
			}
		}
	}

	// Period, then word
	for d, r := range runes {
		if r != '.' {
			continue
		}
		end := d + 1
		for inWord(end) {
			end++
		}
		for k := end; k >= d+3; k-- {
			if boundary(k) {
				runes[d] = '-'
				break
			}
		}
	}

	return string(runes)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// truncateName cuts name to at most max bytes without splitting a rune.
func truncateName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	name = name[:max]
	for !utf8.ValidString(name) {
		name = name[:len(name)-1]
	}
	return name
}
