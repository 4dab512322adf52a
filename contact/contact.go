// Package contact resolves the organization-wide contact record.
package contact

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/poiesic/kbase/core"
)

// DefaultFile is where the scraper writes the aggregated contact record.
const DefaultFile = "scraped_data/contact_info.json"

// Resolver loads the contact file on first use and caches the record.
// It is safe for concurrent use.
type Resolver struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	cached *core.ContactInfo
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewResolver creates a resolver reading path. An empty path means
// DefaultFile.
func NewResolver(path string, opts ...Option) (*Resolver, error) {
	if path == "" {
		path = DefaultFile
	}
	r := &Resolver{path: path, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "contact")
	return r, nil
}

// Path returns the contact file location.
func (r *Resolver) Path() string {
	return r.path
}

// ContactInfo returns the contact record. A missing or unreadable file yields
// a record whose four fields are present and empty. The returned value does
// not share memory with the cache.
func (r *Resolver) ContactInfo() core.ContactInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached == nil {
		info := r.load()
		r.cached = &info
	}
	return r.cached.Normalized()
}

// Reload drops the cached record; the next ContactInfo reads the file again.
func (r *Resolver) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cached = nil
}

func (r *Resolver) load() core.ContactInfo {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("contact file not found", "path", r.path)
		} else {
			r.logger.Error("error reading contact file", "path", r.path, "err", err)
		}
		return core.EmptyContactInfo()
	}

	var info core.ContactInfo
	if err := json.Unmarshal(data, &info); err != nil {
		r.logger.Error("error parsing contact file", "path", r.path, "err", err)
		return core.EmptyContactInfo()
	}
	return info.Normalized()
}
