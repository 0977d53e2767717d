// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover turns a subject and a count into an ordered list of
// video locators. A single provider query is made; there is no retry.
package discover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/mashup-engine/pkg/types"
)

// ErrNoResults is returned when the provider finds no videos for the
// subject. It is terminal for the run.
var ErrNoResults = errors.New("no videos found for the specified subject")

// Backend queries one video search provider. Results are returned in the
// provider's relevance order.
type Backend interface {
	Name() string
	Search(ctx context.Context, query types.Query) ([]types.Locator, error)
}

// Discover runs query against backend and returns at most
// query.TargetCount locators in provider order. Duplicates are kept.
func Discover(ctx context.Context, backend Backend, query types.Query, logger *slog.Logger) ([]types.Locator, error) {
	if strings.TrimSpace(query.Subject) == "" {
		return nil, fmt.Errorf("subject is empty")
	}
	if query.TargetCount <= 0 {
		return nil, fmt.Errorf("target count must be positive, got %d", query.TargetCount)
	}

	locators, err := backend.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s search: %w", backend.Name(), err)
	}
	if len(locators) == 0 {
		return nil, ErrNoResults
	}
	if len(locators) > query.TargetCount {
		locators = locators[:query.TargetCount]
	}

	logger.Info("discovery complete",
		"backend", backend.Name(),
		"subject", query.Subject,
		"requested", query.TargetCount,
		"found", len(locators))
	return locators, nil
}

// NewBackend builds the backend selected by cfg.
func NewBackend(cfg types.DiscoveryConfig) (Backend, error) {
	switch cfg.Backend {
	case types.BackendYouTubeAPI, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("youtube-api backend requires an API key (discovery.api_key or .secrets/youtube-api-key)")
		}
		return NewYouTubeAPIBackend(cfg), nil
	case types.BackendYtDlp:
		return NewYtDlpBackend(cfg.YtDlpPath), nil
	default:
		return nil, fmt.Errorf("unsupported discovery backend %q: use youtube-api or yt-dlp", cfg.Backend)
	}
}
