package download

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/handiism/bandcamp-art/internal/bandcamp"
	"github.com/handiism/bandcamp-art/internal/config"
	bchttp "github.com/handiism/bandcamp-art/internal/http"
	ioutils "github.com/handiism/bandcamp-art/internal/io"
	"github.com/handiism/bandcamp-art/internal/model"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Progress is a snapshot of the Manager's counters.
type Progress struct {
	// Processed is the number of artworks handled so far, saved or skipped.
	Processed int

	// Total is the number of artworks found by Initialize.
	Total int

	// Saved is the number of images written (or that would have been, in a dry run).
	Saved int

	// ReceivedBytes is the amount of image data downloaded.
	ReceivedBytes int64
}

// Option configures a Manager.
type Option func(*Manager)

// WithFs makes the Manager write to fs instead of the operating system's file system.
func WithFs(fs afero.Fs) Option {
	return func(m *Manager) {
		m.writer = ioutils.NewWriter(fs)
	}
}

// WithHTTPClient replaces the Manager's HTTP client.
func WithHTTPClient(client *bchttp.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

// Manager coordinates artwork downloads.
type Manager struct {
	settings     *config.Settings
	naming       *model.NamingConfig
	httpClient   *bchttp.Client
	parser       *bandcamp.Parser
	writer       *ioutils.Writer
	imageService *ioutils.ImageService

	releases      []*model.Release
	totalArtworks int32
	processed     int32
	saved         int32
	receivedBytes int64

	onProgress func(ProgressEvent)
	progressMu sync.Mutex
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent), opts ...Option) *Manager {
	m := &Manager{
		settings:     settings,
		naming:       settings.ToNamingConfig(),
		httpClient:   bchttp.NewClient(settings.UserAgent, settings.Timeout()),
		parser:       bandcamp.NewParser(),
		writer:       ioutils.NewWriter(nil),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize classifies the input URLs and resolves them into releases.
//
// Discography pages are expanded into their releases; album and track
// pages are fetched for their artwork. Pages that fail are reported and
// skipped. Only cancellation of ctx is returned as an error.
func (m *Manager) Initialize(ctx context.Context, inputURLs []string) error {
	var releaseURLs []string
	for _, inputURL := range inputURLs {
		page, err := bandcamp.ClassifyURL(inputURL)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("unrecognized URL: %s", inputURL), Level: LevelError})
			continue
		}

		if page.Kind != bandcamp.PageDiscography {
			releaseURLs = append(releaseURLs, page.URL)
			continue
		}

		urls, err := m.getReleaseURLs(ctx, page.URL)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error getting releases from %s: %v", page.URL, err), Level: LevelError})
			continue
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d releases for %s", len(urls), bandcamp.ArtistFromURL(page.URL)), Level: LevelInfo})
		releaseURLs = append(releaseURLs, urls...)
	}

	releases := make([]*model.Release, len(releaseURLs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.settings.MaxConcurrentReleases, 1))
	for i, releaseURL := range releaseURLs {
		i, releaseURL := i, releaseURL
		g.Go(func() error {
			release, err := m.resolveRelease(gctx, releaseURL)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error resolving %s: %v", releaseURL, err), Level: LevelError})
				return nil
			}
			releases[i] = release
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, release := range releases {
		if release == nil {
			continue
		}
		m.releases = append(m.releases, release)
		atomic.AddInt32(&m.totalArtworks, int32(len(release.Artworks())))
	}

	return ctx.Err()
}

// StartDownloads downloads the artwork of all initialized releases.
//
// Releases are processed in parallel; the artwork of one release is
// processed in order. Failures of single images are reported and skipped.
// Only cancellation of ctx is returned as an error.
func (m *Manager) StartDownloads(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.settings.MaxConcurrentReleases, 1))

	for _, release := range m.releases {
		release := release
		g.Go(func() error {
			return m.downloadRelease(ctx, release)
		})
	}

	return g.Wait()
}

// Releases returns the releases found by Initialize.
func (m *Manager) Releases() []*model.Release {
	return m.releases
}

// GetReleaseNames returns display names of all initialized releases.
func (m *Manager) GetReleaseNames() []string {
	names := make([]string, len(m.releases))
	for i, release := range m.releases {
		if release.IsAlbum() {
			names[i] = fmt.Sprintf("%s - %s (%d tracks)", release.Artist, release.Title, len(release.Tracks))
		} else {
			names[i] = fmt.Sprintf("%s - %s", release.Artist, release.Title)
		}
	}
	return names
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() Progress {
	return Progress{
		Processed:     int(atomic.LoadInt32(&m.processed)),
		Total:         int(atomic.LoadInt32(&m.totalArtworks)),
		Saved:         int(atomic.LoadInt32(&m.saved)),
		ReceivedBytes: atomic.LoadInt64(&m.receivedBytes),
	}
}

func (m *Manager) getReleaseURLs(ctx context.Context, musicURL string) ([]string, error) {
	html, err := m.fetchPage(ctx, musicURL)
	if err != nil {
		return nil, err
	}
	return m.parser.ParseDiscographyPage(html, musicURL)
}

func (m *Manager) resolveRelease(ctx context.Context, releaseURL string) (*model.Release, error) {
	artist := bandcamp.ArtistFromURL(releaseURL)

	if bandcamp.IsTrackURL(releaseURL) {
		track, err := m.resolveTrack(ctx, releaseURL, "")
		if err != nil {
			return nil, err
		}
		release := model.NewRelease(artist, track.Track, releaseURL, nil)
		release.Tracks = []*model.Artwork{track}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Found track: %s - %s", artist, track.Track), Level: LevelVerbose})
		return release, nil
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching album info: %s", releaseURL), Level: LevelVerbose})

	html, err := m.fetchPage(ctx, releaseURL)
	if err != nil {
		return nil, err
	}
	page, err := m.parser.ParseAlbumPage(html, releaseURL)
	if err != nil {
		return nil, err
	}

	album, _ := page.Names()
	cover := model.NewCoverArtwork(artist, album, releaseURL, page.ImageURL, m.naming)
	release := model.NewRelease(artist, page.Title, releaseURL, cover)

	tracks := make([]*model.Artwork, len(page.Tracks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.settings.MaxConcurrentPages, 1))
	for i, row := range page.Tracks {
		i, row := i, row
		g.Go(func() error {
			track, err := m.resolveTrack(gctx, row.URL, row.Number)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching %s: %v", row.URL, err), Level: LevelError})
				return nil
			}
			tracks[i] = track
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, track := range tracks {
		if track != nil {
			release.Tracks = append(release.Tracks, track)
		}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found album: %s - %s (%d tracks)", artist, release.Title, len(release.Tracks)), Level: LevelInfo})
	return release, nil
}

func (m *Manager) resolveTrack(ctx context.Context, trackURL, number string) (*model.Artwork, error) {
	html, err := m.fetchPage(ctx, trackURL)
	if err != nil {
		return nil, err
	}
	page, err := m.parser.ParseTrackPage(html, trackURL)
	if err != nil {
		return nil, err
	}

	album, track := page.Names()
	return model.NewTrackArtwork(bandcamp.ArtistFromURL(trackURL), album, track, number, trackURL, page.ImageURL, m.naming), nil
}

func (m *Manager) downloadRelease(ctx context.Context, release *model.Release) error {
	// One seen cache per release
	seen := newSeenCache()

	failed := 0
	for _, art := range release.Artworks() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := m.processArtwork(ctx, art, seen); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", art.ImageURL, err), Level: LevelError})
		}
		atomic.AddInt32(&m.processed, 1)
	}

	if failed == 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Finished %s - %s", release.Artist, release.Title), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Finished %s - %s, %d images failed", release.Artist, release.Title, failed), Level: LevelWarning})
	}
	return nil
}

// processArtwork saves one image unless it already exists on disk or was
// already seen in this release. The cover is never skipped because of the
// seen cache, but it is recorded so that tracks re-using it are skipped.
func (m *Manager) processArtwork(ctx context.Context, art *model.Artwork, seen *seenCache) error {
	allowSkipping := !art.Cover

	if allowSkipping {
		if existing, ok := m.existing(art.Path); ok {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skip %s, not overwriting extant file", existing), Level: LevelWarning})
			return nil
		}
	}

	if seen.recordURL(art.ImageURL) && allowSkipping {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skip %s, re-used image: %s", art.Path, art.ImageURL), Level: LevelVerbose})
		return nil
	}

	data, err := m.downloadImage(ctx, art.ImageURL)
	if err != nil {
		return err
	}
	atomic.AddInt64(&m.receivedBytes, int64(len(data)))

	if seen.recordContent(data) && allowSkipping {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skip %s, re-used hash", art.Path), Level: LevelVerbose})
		return nil
	}

	if existing, ok := m.existing(art.Path); ok {
		level := LevelWarning
		if art.Cover {
			level = LevelVerbose
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skip %s, not overwriting extant file", existing), Level: level})
		return nil
	}

	data = m.prepareImage(ctx, art, data)
	out := art.Path + "." + m.imageService.Extension(data, art.ImageURL)

	if !m.settings.DryRun {
		if err := m.writer.WriteFile(ctx, out, data); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
	}

	atomic.AddInt32(&m.saved, 1)

	if m.settings.DryRun {
		m.progress(ProgressEvent{Message: fmt.Sprintf("[dry] %s -> %s", art.ImageURL, out), Level: LevelVerbose})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s -> %s", art.ImageURL, out), Level: LevelVerbose})
	}
	return nil
}

// existing looks for an already saved image unless overwriting is enabled.
func (m *Manager) existing(basePath string) (string, bool) {
	if m.settings.Overwrite {
		return "", false
	}
	return m.writer.Exists(basePath)
}

// prepareImage applies the configured conversions. Images that can't be
// decoded are kept as downloaded.
func (m *Manager) prepareImage(ctx context.Context, art *model.Artwork, data []byte) []byte {
	if m.settings.ConvertCoverArtToJPG {
		converted, err := m.imageService.ConvertToJPEG(ctx, data)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Could not convert %s to JPEG: %v", art.ImageURL, err), Level: LevelWarning})
		} else {
			data = converted
		}
	}

	if size := m.settings.CoverArtMaxSize; size > 0 {
		resized, err := m.imageService.ResizeImage(ctx, data, size, size)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Could not resize %s: %v", art.ImageURL, err), Level: LevelWarning})
		} else {
			data = resized
		}
	}

	return data
}

func (m *Manager) fetchPage(ctx context.Context, pageURL string) (string, error) {
	var html string
	err := m.withRetry(ctx, pageURL, func() error {
		var err error
		html, err = m.httpClient.GetString(ctx, pageURL)
		return err
	})
	return html, err
}

func (m *Manager) downloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	var data []byte
	err := m.withRetry(ctx, imageURL, func() error {
		var err error
		data, err = m.httpClient.DownloadBytes(ctx, imageURL)
		return err
	})
	return data, err
}

func (m *Manager) withRetry(ctx context.Context, target string, fn func() error) error {
	attempts := max(m.settings.DownloadMaxRetries, 1)

	var err error
	for tries := 0; tries < attempts; tries++ {
		if err = fn(); err == nil {
			return nil
		}
		if ctx.Err() != nil || !isRetryable(err) || tries+1 == attempts {
			break
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, attempts-1, target), Level: LevelWarning})
		m.waitForRetry(ctx, tries)
	}
	return err
}

// isRetryable reports whether a request may succeed when repeated.
func isRetryable(err error) bool {
	var statusErr *bchttp.StatusError
	if errors.As(err, &statusErr) {
		code := statusErr.StatusCode
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}
	return true
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress == nil {
		return
	}
	m.progressMu.Lock()
	defer m.progressMu.Unlock()
	m.onProgress(event)
}
