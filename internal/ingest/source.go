package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// maxSourceBytes bounds a single download.
const maxSourceBytes = 1 << 30

// Fetched is the result of a conditional fetch.
type Fetched struct {
	Body        []byte
	ETag        string
	NotModified bool
}

// Fetcher reads sources over HTTP(S) or from the local filesystem.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher. A nil client gets a default one with a
// five-minute timeout.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Fetcher{client: client}
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch reads source. For HTTP sources etag is sent as If-None-Match and a
// 304 answer yields NotModified with no body. Local paths (optionally with a
// file:// prefix) are always read in full.
func (f *Fetcher) Fetch(ctx context.Context, source, etag string) (Fetched, error) {
	if !isRemote(source) {
		body, err := os.ReadFile(strings.TrimPrefix(source, "file://"))
		if err != nil {
			return Fetched{}, fmt.Errorf("read %s: %w", source, err)
		}
		return Fetched{Body: body}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return Fetched{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/octet-stream, text/csv")
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Fetched{}, fmt.Errorf("get %s: %w", source, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return Fetched{ETag: etag, NotModified: true}, nil
	case resp.StatusCode != http.StatusOK:
		return Fetched{}, fmt.Errorf("get %s: unexpected status %s", source, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes+1))
	if err != nil {
		return Fetched{}, fmt.Errorf("read body of %s: %w", source, err)
	}
	if len(body) > maxSourceBytes {
		return Fetched{}, fmt.Errorf("body of %s exceeds %d bytes", source, maxSourceBytes)
	}
	return Fetched{Body: body, ETag: resp.Header.Get("ETag")}, nil
}
