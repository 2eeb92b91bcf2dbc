// Package dataset loads the US state boundaries the map is drawn from.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"statemap/internal/geom"
)

// LoadError is returned for any failure to fetch or parse the dataset.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsLoadError reports whether err is, or wraps, a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// Source fetches the dataset from a URL or a local path, keeping a copy of
// remote downloads in CachePath.
type Source struct {
	URL       string
	CachePath string
	Client    *http.Client
	Refresh   bool // ignore an existing cache
	NoCache   bool // neither read nor write the cache
}

// NewSource returns a source with an HTTP client using timeout.
func NewSource(url, cachePath string, timeout time.Duration) *Source {
	return &Source{
		URL:       url,
		CachePath: cachePath,
		Client:    &http.Client{Timeout: timeout},
	}
}

// Load returns the parsed states.
func (s *Source) Load(ctx context.Context) ([]*geom.State, error) {
	if !isRemote(s.URL) {
		path := strings.TrimPrefix(s.URL, "file://")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Source: path, Err: err}
		}
		return s.parse(path, data)
	}

	useCache := !s.NoCache && s.CachePath != ""
	if useCache && !s.Refresh {
		if data, err := os.ReadFile(s.CachePath); err == nil {
			states, perr := geom.ParseStates(data)
			if perr == nil {
				log.Debug().
					Str("path", s.CachePath).
					Int("states", len(states)).
					Msg("Dataset loaded from cache")
				return states, nil
			}
			log.Warn().Err(perr).Str("path", s.CachePath).Msg("Ignoring unreadable cache")
		}
	}

	data, err := s.fetch(ctx)
	if err != nil {
		if states, ok := s.stale(useCache, err); ok {
			return states, nil
		}
		return nil, &LoadError{Source: s.URL, Err: err}
	}

	states, err := s.parse(s.URL, data)
	if err != nil {
		if states, ok := s.stale(useCache, err); ok {
			return states, nil
		}
		return nil, err
	}
	if useCache {
		if err := writeCache(s.CachePath, data); err != nil {
			log.Warn().Err(err).Str("path", s.CachePath).Msg("Failed to write cache")
		}
	}
	return states, nil
}

// stale returns the cached copy when a download could not be used.
func (s *Source) stale(useCache bool, cause error) ([]*geom.State, bool) {
	if !useCache {
		return nil, false
	}
	cached, err := os.ReadFile(s.CachePath)
	if err != nil {
		return nil, false
	}
	states, err := geom.ParseStates(cached)
	if err != nil {
		return nil, false
	}
	log.Warn().
		Err(cause).
		Str("path", s.CachePath).
		Msg("Download unusable, using stale cache")
	return states, true
}

func (s *Source) parse(src string, data []byte) ([]*geom.State, error) {
	states, err := geom.ParseStates(data)
	if err != nil {
		return nil, &LoadError{Source: src, Err: err}
	}
	log.Info().
		Str("source", src).
		Int("states", len(states)).
		Msg("Dataset loaded")
	return states, nil
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	log.Info().Str("url", s.URL).Msg("Fetching dataset")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func writeCache(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func isRemote(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
