package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/handiism/bandcamp-art/internal/config"
	"github.com/handiism/bandcamp-art/internal/download"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// options holds the parsed command line.
type options struct {
	dry         bool
	overwrite   bool
	hsmusic     bool
	noTrackNums bool
	quiet       bool
	verbose     bool
	output      string
	config      string
	concurrency int
	jpg         bool
	maxSize     int
	help        bool

	urls []string
}

// newFlagSet registers all flags on a new set writing into opts.
func newFlagSet(opts *options, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("bandcamp-art", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.SortFlags = false

	fs.BoolVar(&opts.dry, "dry", false, "Don't download or write files, print the actions instead")
	fs.BoolVar(&opts.overwrite, "overwrite", false, "Overwrite existing files instead of skipping")
	fs.BoolVar(&opts.hsmusic, "hsmusic", false, "Use the HSMusic directory and file name format")
	fs.BoolVar(&opts.noTrackNums, "no-track-nums", false, "Don't put track numbers in file names (implied by --hsmusic)")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "Don't log anything except errors (overrides --verbose)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Print results as they are downloaded")
	fs.StringVarP(&opts.output, "output", "o", "", "Output root directory (overrides config)")
	fs.StringVar(&opts.config, "config", "", "Path to config file")
	fs.IntVar(&opts.concurrency, "concurrency", 0, "Number of releases processed in parallel (overrides config)")
	fs.BoolVar(&opts.jpg, "jpg", false, "Re-encode artwork as JPEG")
	fs.IntVar(&opts.maxSize, "max-size", 0, "Downscale artwork to fit within NxN pixels")
	fs.BoolVarP(&opts.help, "help", "h", false, "Show this help")

	fs.Usage = func() {
		fmt.Fprintln(out, "bandcamp-art - Download album and track artwork from Bandcamp")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintln(out, "  bandcamp-art [options] URL...")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "URLs may be discography (https://label.bandcamp.com), album or track pages.")
		fmt.Fprintln(out, "Options may appear before, between or after the URLs.")
		fmt.Fprintln(out, "For interactive mode, use: bandcamp-art-tui")
		fmt.Fprintln(out)
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses flags interspersed with URLs. Long flags are accepted
// with one dash as well as two ("-dry" and "--dry").
func parseArgs(args []string, out io.Writer) (*options, *pflag.FlagSet, error) {
	opts := &options{}
	fs := newFlagSet(opts, out)
	if err := fs.Parse(longFlagsWithTwoDashes(fs, args)); err != nil {
		return nil, fs, err
	}
	opts.urls = fs.Args()
	return opts, fs, nil
}

// longFlagsWithTwoDashes rewrites "-name" and "-name=value" to their
// "--" form when name is a registered long flag. Arguments after "--" are
// left alone.
func longFlagsWithTwoDashes(fs *pflag.FlagSet, args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if len(arg) > 2 && arg[0] == '-' && arg[1] != '-' {
			name, _, _ := strings.Cut(arg[1:], "=")
			if len(name) > 1 && fs.Lookup(name) != nil {
				arg = "-" + arg
			}
		}
		out = append(out, arg)
	}
	return out
}

// apply overlays the flags on settings. Flags only override when given.
func (o *options) apply(settings *config.Settings) {
	if o.output != "" {
		settings.OutputDir = o.output
	}
	if o.concurrency > 0 {
		settings.MaxConcurrentReleases = o.concurrency
	}
	if o.maxSize > 0 {
		settings.CoverArtMaxSize = o.maxSize
	}
	if o.dry {
		settings.DryRun = true
	}
	if o.overwrite {
		settings.Overwrite = true
	}
	if o.hsmusic {
		settings.HSMusic = true
	}
	if o.noTrackNums {
		settings.TrackNumbers = false
	}
	if o.jpg {
		settings.ConvertCoverArtToJPG = true
	}
}

func main() {
	opts, fs, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}
	if opts.help {
		fs.Usage()
		return
	}
	if len(opts.urls) == 0 {
		fs.Usage()
		os.Exit(1)
	}

	// Load config
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}
	settings := config.DefaultSettings()
	if opts.config != "" {
		settings, err = config.Load(opts.config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := settings.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}
	opts.apply(settings)

	logger := newLogger(os.Stderr, opts.quiet, opts.verbose || settings.DryRun)

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("Interrupted, cancelling...")
		cancel()
	}()

	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		logEvent(logger, event)
	})

	if err := manager.Initialize(ctx, opts.urls); err != nil {
		if ctx.Err() != nil {
			os.Exit(130)
		}
		logger.Errorf("Error initializing: %v", err)
		os.Exit(1)
	}

	if err := manager.StartDownloads(ctx); err != nil {
		if ctx.Err() != nil {
			os.Exit(130)
		}
		logger.Errorf("Error during download: %v", err)
		os.Exit(1)
	}

	fmt.Println(summary(manager.GetProgress().Saved, settings.DryRun))
}

// newLogger creates the console logger. quiet keeps errors only and
// overrides verbose.
func newLogger(out io.Writer, quiet, verbose bool) *log.Logger {
	logger := log.New()
	logger.SetOutput(out)
	logger.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		NoColors:        true,
		TimestampFormat: "15:04:05",
	})

	switch {
	case quiet:
		logger.SetLevel(log.ErrorLevel)
	case verbose:
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

func logEvent(logger *log.Logger, event download.ProgressEvent) {
	switch event.Level {
	case download.LevelVerbose:
		logger.Debug(event.Message)
	case download.LevelWarning:
		logger.Warn(event.Message)
	case download.LevelError:
		logger.Error(event.Message)
	default:
		logger.Info(event.Message)
	}
}

// summary returns the final line printed after a run.
func summary(saved int, dry bool) string {
	noun := "images"
	if saved == 1 {
		noun = "image"
	}
	verb := "saved"
	if dry {
		verb = "would've saved"
	}
	return fmt.Sprintf("Done, %s %d %s", verb, saved, noun)
}
