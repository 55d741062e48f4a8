package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/limiter"
)

// ErrMalformed marks a source whose payload is not a usable job listing.
var ErrMalformed = errors.New("malformed job listing")

// LoadError is returned by Load when the source is unreachable or malformed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load jobs from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Store is the listing loaded at startup. It has no mutating methods.
type Store struct {
	jobs []domain.Job
}

func New(jobs []domain.Job) *Store {
	s := &Store{jobs: make([]domain.Job, 0, len(jobs))}
	for _, j := range jobs {
		s.jobs = append(s.jobs, j.Clone())
	}
	return s
}

// All returns the jobs in source order. The result is the caller's to keep.
func (s *Store) All() []domain.Job {
	out := make([]domain.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j.Clone())
	}
	return out
}

func (s *Store) Len() int { return len(s.jobs) }

type LoadOptions struct {
	Client  *http.Client
	Limiter *limiter.HostLimiter
	Retries int
	// Token is sent as a bearer token to http(s) sources when set.
	Token  string
	Logger *zap.Logger
}

func (o LoadOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Load reads the listing from source, which is one of:
//
//	path/to/data.json        JSON array of jobs
//	path/to/listing.html     page with .job-item markup
//	http(s)://host/data.json JSON over HTTP
//	html+https://host/page   page with .job-item markup over HTTP
//	sqlite:path/to/jobs.db   database written by Import
//
// HTML sources must mark every tag with data-category="language" or
// "tool", as pages from the render package do. Untyped tags are
// malformed, since languages and tools cannot be told apart.
func Load(ctx context.Context, source string, opts LoadOptions) (*Store, error) {
	jobs, err := load(ctx, strings.TrimSpace(source), opts)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	opts.logger().Info("jobs loaded", zap.String("source", source), zap.Int("count", len(jobs)))
	return New(jobs), nil
}

func load(ctx context.Context, src string, opts LoadOptions) ([]domain.Job, error) {
	switch {
	case src == "":
		return nil, errors.New("no source configured")

	case strings.HasPrefix(src, "sqlite:"):
		return loadSQLite(ctx, strings.TrimPrefix(src, "sqlite:"))

	case strings.HasPrefix(src, "html+http://"), strings.HasPrefix(src, "html+https://"):
		b, err := fetch(ctx, strings.TrimPrefix(src, "html+"), opts)
		if err != nil {
			return nil, err
		}
		return parseHTML(bytes.NewReader(b))

	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		b, err := fetch(ctx, src, opts)
		if err != nil {
			return nil, err
		}
		return decodeJSON(bytes.NewReader(b))
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(src)) {
	case ".html", ".htm":
		return parseHTML(f)
	default:
		return decodeJSON(f)
	}
}

func loadSQLite(ctx context.Context, path string) ([]domain.Job, error) {
	// Open would create an empty database for a missing path.
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return ListJobs(ctx, db.Pool)
}

func validate(jobs []domain.Job) error {
	for i, j := range jobs {
		if strings.TrimSpace(j.Company) == "" {
			return fmt.Errorf("%w: job %d has no company", ErrMalformed, i)
		}
		if strings.TrimSpace(j.Position) == "" {
			return fmt.Errorf("%w: job %d has no position", ErrMalformed, i)
		}
	}
	return nil
}
