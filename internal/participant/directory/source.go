package directory

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"peppolcheck/pkg/platform/sentinel"
)

// Source opens a directory snapshot stream.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SourceFor returns an HTTPSource for http(s) URLs and a FileSource otherwise.
func SourceFor(location string, client HTTPDoer) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{URL: location, Client: client}
	}
	return FileSource{Path: location}
}

// FileSource reads a snapshot from the local filesystem.
type FileSource struct {
	Path string
}

// Open implements Source.
func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open snapshot %s: %v", sentinel.ErrUnavailable, s.Path, err)
	}
	return f, nil
}

func (s FileSource) String() string { return "file:" + s.Path }

// HTTPSource downloads a snapshot export. The request is bound to ctx, so the
// caller's deadline covers the whole body read.
type HTTPSource struct {
	URL    string
	Client HTTPDoer
}

// Open implements Source.
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build snapshot request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, application/xml;q=0.9, */*;q=0.5")

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch snapshot: %v", sentinel.ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close() //nolint:errcheck // body is discarded
		return nil, fmt.Errorf("%w: fetch snapshot: unexpected status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *HTTPSource) String() string { return s.URL }

// Fetcher produces the records of one snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]Record, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context) ([]Record, error) { return f(ctx) }

// Loader reads a Source with a Parser.
type Loader struct {
	source Source
	parser Parser
}

// NewLoader builds a Loader.
func NewLoader(source Source, parser Parser) *Loader {
	return &Loader{source: source, parser: parser}
}

// Fetch implements Fetcher.
func (l *Loader) Fetch(ctx context.Context) ([]Record, error) {
	rc, err := l.source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck // read-only stream

	records, err := l.parser.Parse(rc)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: read snapshot %s: %v", sentinel.ErrUnavailable, l.source, ctx.Err())
		}
		return nil, err
	}
	return records, nil
}

// Empty is a Fetcher for deployments without a snapshot; it yields an empty index.
var Empty Fetcher = FetcherFunc(func(context.Context) ([]Record, error) { return nil, nil })
