package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/poiesic/kbase/core"
)

// Loader reads a corpus directory into documents.
type Loader struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a corpus loader.
func NewLoader(opts ...Option) (*Loader, error) {
	l := &Loader{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "corpus")
	return l, nil
}

// Load reads the corpus in dir with a default loader.
func Load(ctx context.Context, dir string) ([]core.Document, error) {
	l, err := NewLoader()
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, dir)
}

// Load reads every *.json file of dir in name order and returns one document
// per valid record. A missing directory yields an empty collection.
func (l *Loader) Load(ctx context.Context, dir string) ([]core.Document, error) {
	if dir == "" {
		return nil, ErrEmptyDirectory
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("corpus directory not found", "dir", dir)
			return []core.Document{}, nil
		}
		return nil, fmt.Errorf("reading corpus directory %s: %w", dir, err)
	}

	docs := make([]core.Document, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		doc, err := l.loadFile(path)
		if err != nil {
			l.logger.Error("skipping corpus file", "path", path, "err", err)
			skipped++
			continue
		}
		docs = append(docs, doc)
	}

	l.logger.Info("corpus loaded", "dir", dir, "documents", len(docs), "skipped", skipped)
	return docs, nil
}

func (l *Loader) loadFile(path string) (core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Document{}, err
	}
	rec, err := ParseRecord(data, l.validate)
	if err != nil {
		return core.Document{}, err
	}
	return rec.Document(), nil
}
