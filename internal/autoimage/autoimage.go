// Package autoimage fetches a random cover image from LoremFlickr.
package autoimage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/idelchi/gocamo/internal/fileutil"
)

const (
	// DefaultBaseURL is the image service queried by Fetch.
	DefaultBaseURL = "http://loremflickr.com"
	// DefaultTimeout bounds a whole download.
	DefaultTimeout = 30 * time.Second
	// FileName is the default name of the downloaded cover.
	FileName = "autoimage.jpg"
	// MaxSide is the largest accepted width or height.
	MaxSide = 4000
)

// ErrInvalidRequest is returned by Parse for a malformed --autoimage value.
var ErrInvalidRequest = errors.New("invalid --autoimage value")

// Request describes the cover to fetch.
type Request struct {
	Tags   []string
	Width  int
	Height int
}

// Parse reads "tag,tag,WIDTHxHEIGHT". Tags are optional, the size is not.
func Parse(value string) (Request, error) {
	if value == "" {
		return Request{}, fmt.Errorf("%w: missing value", ErrInvalidRequest)
	}

	options := strings.Split(value, ",")

	const sizeParts = 2

	size := strings.Split(options[len(options)-1], "x")
	if len(size) != sizeParts {
		return Request{}, fmt.Errorf("%w: %q does not end in WIDTHxHEIGHT", ErrInvalidRequest, value)
	}

	width, errW := side(size[0])
	height, errH := side(size[1])

	if err := errors.Join(errW, errH); err != nil {
		return Request{}, fmt.Errorf("%w: invalid size: %w", ErrInvalidRequest, err)
	}

	var tags []string

	for _, tag := range options[:len(options)-1] {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return Request{Tags: tags, Width: width, Height: height}, nil
}

func side(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}

	if n < 1 || n > MaxSide {
		return 0, fmt.Errorf("%d is outside 1..%d", n, MaxSide)
	}

	return n, nil
}

// Path returns the request path below the base URL.
func (r Request) Path() string {
	tags := make([]string, len(r.Tags))
	for i, tag := range r.Tags {
		tags[i] = url.PathEscape(tag)
	}

	return fmt.Sprintf("/%d/%d/%s/all", r.Width, r.Height, strings.Join(tags, ","))
}

// Fetcher downloads cover images.
type Fetcher struct {
	// Client defaults to an http.Client with DefaultTimeout.
	Client *http.Client
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Fetch downloads the image for req into dest on fsys and returns its size.
// dest is only created once the whole body has been received.
func (f *Fetcher) Fetch(ctx context.Context, fsys afero.Fs, req Request, dest string) (size int64, err error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	base := f.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	logger := f.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if dest == "" {
		dest = FileName
	}

	target := strings.TrimSuffix(base, "/") + req.Path()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, fmt.Errorf("building autoimage request: %w", err)
	}

	logger.Debug("autoimage download started", "url", target)

	resp, err := client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("downloading autoimage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return 0, fmt.Errorf("downloading autoimage: unexpected status %s", resp.Status)
	}

	tc, err := fileutil.NewTempContext(fsys, filepath.Dir(dest))
	if err != nil {
		return 0, err
	}
	defer tc.CleanupOnError(&err)

	if _, err = io.Copy(tc.TmpFile, resp.Body); err != nil {
		return 0, fmt.Errorf("downloading autoimage: %w", err)
	}

	if size, err = tc.Commit(dest); err != nil {
		return 0, err
	}

	logger.Debug("autoimage downloaded", "file", dest, "bytes", size)

	return size, nil
}
