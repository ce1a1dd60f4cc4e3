// Package config provides configuration management for bandcamp-art.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Overrides from environment variables and .env files
//   - Conversion to NamingConfig for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Saves to ./{artist}/{album}/{track}
//	// Track numbers in file names, no overwriting
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment
//
// Variables prefixed with BANDCAMP_ART_ override file settings. A .env file
// in the working directory is read first, without overriding variables
// already set in the environment:
//
//	BANDCAMP_ART_OUTPUT_DIR=/srv/art
//	BANDCAMP_ART_HSMUSIC=true
//
//	settings := config.DefaultSettings()
//	err := settings.ApplyEnv()
//
// # Saving Settings
//
//	settings.OutputDir = "/custom/path"
//	err := settings.Save("/path/to/config.json")
package config
