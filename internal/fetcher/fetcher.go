package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/JaimeStill/flyer-viewer/internal/config"
	"github.com/JaimeStill/flyer-viewer/pkg/storage"
	"github.com/google/uuid"
)

const defaultFilename = "flyer.pdf"

// System retrieves documents and releases their local bytes.
type System interface {
	// Fetch copies the document at source into local storage.
	// Supported sources are http(s) URLs and, when fetch.allow_local is set,
	// file URLs and bare filesystem paths.
	Fetch(ctx context.Context, source string) (*Document, error)

	// Purge deletes the stored bytes of doc. Purging twice is not an error.
	Purge(ctx context.Context, doc *Document) error
}

type fetcher struct {
	client     *http.Client
	storage    storage.System
	maxSize    int64
	userAgent  string
	allowLocal bool
	logger     *slog.Logger
}

// New creates a fetcher that stores documents in store.
// A nil client gets a default client bounded by the configured timeout.
func New(cfg *config.FetchConfig, store storage.System, client *http.Client, logger *slog.Logger) System {
	if client == nil {
		client = &http.Client{Timeout: cfg.TimeoutDuration()}
	}

	return &fetcher{
		client:     client,
		storage:    store,
		maxSize:    cfg.MaxSizeBytes(),
		userAgent:  cfg.UserAgent,
		allowLocal: cfg.AllowLocal,
		logger:     logger.With("system", "fetcher"),
	}
}

func (f *fetcher) Fetch(ctx context.Context, source string) (*Document, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: empty source", ErrInvalidSource)
	}

	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}

	var (
		body        io.ReadCloser
		contentType string
		filename    string
	)

	if (u.Scheme == "file" || u.Scheme == "") && !f.allowLocal {
		return nil, fmt.Errorf("%w: local sources are disabled", ErrInvalidSource)
	}

	switch u.Scheme {
	case "http", "https":
		body, contentType, err = f.openRemote(ctx, source)
		filename = path.Base(u.Path)
	case "file":
		body, err = openLocal(u.Path)
		filename = filepath.Base(u.Path)
	case "":
		body, err = openLocal(source)
		filename = filepath.Base(source)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidSource, u.Scheme)
	}

	if err != nil {
		f.logger.Warn("fetch failed", "source", source, "error", err)
		return nil, err
	}
	defer body.Close()

	id := uuid.New()
	key := buildStorageKey(id, filename)

	var r io.Reader = body
	if f.maxSize > 0 {
		r = &limitedReader{r: body, remaining: f.maxSize}
	}

	n, err := f.storage.Write(ctx, key, r)
	if err != nil {
		if delErr := f.storage.Delete(ctx, key); delErr != nil {
			f.logger.Error("cleanup failed after write error", "storage_key", key, "error", delErr)
		}
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrTransfer, err)
	}

	p, err := f.storage.Path(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransfer, err)
	}

	doc := &Document{
		ID:          id,
		Source:      source,
		StorageKey:  key,
		Path:        p,
		ContentType: contentType,
		SizeBytes:   n,
		FetchedAt:   time.Now(),
	}

	f.logger.Info("document fetched", "id", doc.ID, "source", source, "size_bytes", n)
	return doc, nil
}

func (f *fetcher) Purge(ctx context.Context, doc *Document) error {
	if doc == nil {
		return nil
	}
	if err := f.storage.Delete(ctx, doc.StorageKey); err != nil {
		return fmt.Errorf("purge %s: %w", doc.StorageKey, err)
	}
	f.logger.Debug("document purged", "id", doc.ID, "storage_key", doc.StorageKey)
	return nil
}

func (f *fetcher) openRemote(ctx context.Context, source string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/pdf, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrTransfer, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		resp.Body.Close()
		return nil, "", fmt.Errorf("%w: %s", ErrNotFound, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, "", fmt.Errorf("%w: unexpected status %s", ErrTransfer, resp.Status)
	}

	if f.maxSize > 0 && resp.ContentLength > f.maxSize {
		resp.Body.Close()
		return nil, "", fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func openLocal(name string) (io.ReadCloser, error) {
	file, err := os.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransfer, err)
	}
	return file, nil
}

// limitedReader fails with ErrTooLarge instead of truncating silently.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		var probe [1]byte
		n, err := l.r.Read(probe[:])
		if n > 0 {
			return 0, ErrTooLarge
		}
		return 0, err
	}

	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("flyers/%s/%s", id.String(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "" || name == "." || name == "/" {
		return defaultFilename
	}
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
