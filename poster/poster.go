// Package poster downloads a movie poster and hands it to the host's default
// image viewer.
package poster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"

	"github.com/s0up4200/moviesearcher/film"
)

var (
	// ErrNotAvailable is returned for records without a poster URL.
	ErrNotAvailable = errors.New("poster not available")
	// ErrTooLarge is returned when a poster exceeds maxPosterBytes.
	ErrTooLarge = errors.New("poster too large")
)

const (
	defaultTimeout = 30 * time.Second
	// maxPosterBytes caps how much of a poster response is read.
	maxPosterBytes = 20 << 20
)

// Opener displays a local image file.
type Opener func(path string) error

// Viewer fetches posters and opens them. Each poster is written to a temp
// file that the host viewer reads; Cleanup removes the files written so far.
type Viewer struct {
	httpClient *http.Client
	open       Opener
	tempDir    string
	logger     zerolog.Logger

	mu    sync.Mutex
	files []string
}

// NewViewer creates a Viewer that opens posters with the system's default
// application for the image type.
func NewViewer(logger zerolog.Logger) *Viewer {
	return &Viewer{
		httpClient: &http.Client{Timeout: defaultTimeout},
		open:       browser.OpenFile,
		logger:     logger,
	}
}

// WithOpener replaces how downloaded posters are displayed.
func (v *Viewer) WithOpener(open Opener) *Viewer {
	v.open = open
	return v
}

// WithHTTPClient replaces the client used to download posters.
func (v *Viewer) WithHTTPClient(client *http.Client) *Viewer {
	v.httpClient = client
	return v
}

// WithTempDir sets where downloaded posters are written. The default is the
// system temp directory.
func (v *Viewer) WithTempDir(dir string) *Viewer {
	v.tempDir = dir
	return v
}

// Show downloads the poster at posterURL, checks that it decodes as an image,
// and opens it. It makes no request when posterURL is empty or film.NotAvailable.
func (v *Viewer) Show(ctx context.Context, posterURL string) error {
	if posterURL == "" || posterURL == film.NotAvailable {
		return ErrNotAvailable
	}

	data, err := v.download(ctx, posterURL)
	if err != nil {
		return err
	}

	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode poster: %w", err)
	}

	path, err := v.writeTemp(data, format)
	if err != nil {
		return err
	}

	v.logger.Debug().
		Str("url", posterURL).
		Str("format", format).
		Str("path", path).
		Msg("Opening poster")

	if err := v.open(path); err != nil {
		return fmt.Errorf("failed to open poster: %w", err)
	}

	return nil
}

func (v *Viewer) download(ctx context.Context, posterURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, posterURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download poster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download poster: unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPosterBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read poster: %w", err)
	}
	if len(data) > maxPosterBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxPosterBytes)
	}

	return data, nil
}

func (v *Viewer) writeTemp(data []byte, format string) (string, error) {
	f, err := os.CreateTemp(v.tempDir, "poster-*."+format)
	if err != nil {
		return "", fmt.Errorf("failed to create poster file: %w", err)
	}
	defer f.Close()

	v.track(f.Name())

	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("failed to write poster file: %w", err)
	}

	return f.Name(), nil
}

func (v *Viewer) track(path string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.files = append(v.files, path)
}

// Cleanup removes every poster file written by Show. Call it once the viewer
// has had a chance to load them, such as when the interactive session ends.
func (v *Viewer) Cleanup() error {
	v.mu.Lock()
	files := v.files
	v.files = nil
	v.mu.Unlock()

	var errs []error
	for _, path := range files {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
