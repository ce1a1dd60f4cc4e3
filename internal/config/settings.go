package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/handiism/bandcamp-art/internal/model"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes all environment variables read by ApplyEnv.
const EnvPrefix = "BANDCAMP_ART_"

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	OutputDir    string `json:"output_dir"`
	HSMusic      bool   `json:"hsmusic"`
	TrackNumbers bool   `json:"track_numbers"`
	Overwrite    bool   `json:"overwrite"`
	DryRun       bool   `json:"dry_run"`

	// Download settings
	MaxConcurrentReleases int     `json:"max_concurrent_releases"`
	MaxConcurrentPages    int     `json:"max_concurrent_pages"`
	DownloadMaxRetries    int     `json:"download_max_retries"`
	DownloadRetryCooldown float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent float64 `json:"download_retry_exponent"`
	RequestTimeout        float64 `json:"request_timeout"`
	UserAgent             string  `json:"user_agent"`

	// Cover art settings
	ConvertCoverArtToJPG bool `json:"convert_cover_art_to_jpg"`
	CoverArtMaxSize      int  `json:"cover_art_max_size"` // 0 keeps the original size
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir:    ".",
		HSMusic:      false,
		TrackNumbers: true,
		Overwrite:    false,
		DryRun:       false,

		MaxConcurrentReleases: 2,
		MaxConcurrentPages:    4,
		DownloadMaxRetries:    3,
		DownloadRetryCooldown: 0.2,
		DownloadRetryExponent: 4.0,
		RequestTimeout:        60,
		UserAgent:             "bandcamp-art",

		ConvertCoverArtToJPG: false,
		CoverArtMaxSize:      0,
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadDotEnv reads variables from the given .env files (".env" if none)
// into the process environment. Variables already set are kept and
// missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings with BANDCAMP_ART_* environment variables.
//
// Recognized variables: OUTPUT_DIR, HSMUSIC, TRACK_NUMBERS, OVERWRITE,
// DRY_RUN, MAX_CONCURRENT_RELEASES, MAX_CONCURRENT_PAGES, MAX_RETRIES,
// TIMEOUT (seconds), USER_AGENT, CONVERT_TO_JPG and MAX_SIZE.
func (s *Settings) ApplyEnv() error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	float := func(name string, dst *float64) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = f
		}
	}

	str("OUTPUT_DIR", &s.OutputDir)
	boolean("HSMUSIC", &s.HSMusic)
	boolean("TRACK_NUMBERS", &s.TrackNumbers)
	boolean("OVERWRITE", &s.Overwrite)
	boolean("DRY_RUN", &s.DryRun)
	integer("MAX_CONCURRENT_RELEASES", &s.MaxConcurrentReleases)
	integer("MAX_CONCURRENT_PAGES", &s.MaxConcurrentPages)
	integer("MAX_RETRIES", &s.DownloadMaxRetries)
	float("TIMEOUT", &s.RequestTimeout)
	str("USER_AGENT", &s.UserAgent)
	boolean("CONVERT_TO_JPG", &s.ConvertCoverArtToJPG)
	integer("MAX_SIZE", &s.CoverArtMaxSize)

	return errors.Join(errs...)
}

// Timeout returns RequestTimeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.RequestTimeout * float64(time.Second))
}

// ToNamingConfig converts settings to NamingConfig.
func (s *Settings) ToNamingConfig() *model.NamingConfig {
	return &model.NamingConfig{
		OutputDir:    s.OutputDir,
		HSMusic:      s.HSMusic,
		TrackNumbers: s.TrackNumbers && !s.HSMusic,
	}
}
