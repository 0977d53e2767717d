// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/mashup-engine/pkg/types"
)

// youtubeSearchBase is the YouTube Data API v3 search endpoint. Declared as
// a var so tests can substitute an httptest server.
var youtubeSearchBase = "https://www.googleapis.com/youtube/v3/search"

// maxPageSize is the largest maxResults the search endpoint accepts.
const maxPageSize = 50

// YouTubeAPIBackend queries the YouTube Data API search.list endpoint.
type YouTubeAPIBackend struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// NewYouTubeAPIBackend creates a backend with an HTTP client bounded by cfg.Timeout.
func NewYouTubeAPIBackend(cfg types.DiscoveryConfig) *YouTubeAPIBackend {
	return &YouTubeAPIBackend{
		Client:    &http.Client{Timeout: cfg.Timeout},
		APIKey:    cfg.APIKey,
		UserAgent: cfg.UserAgent,
	}
}

// Name returns the backend identifier.
func (b *YouTubeAPIBackend) Name() string { return string(types.BackendYouTubeAPI) }

// Search pages through search.list until query.TargetCount video results
// are collected or the provider runs out of pages.
func (b *YouTubeAPIBackend) Search(ctx context.Context, query types.Query) ([]types.Locator, error) {
	var locators []types.Locator
	pageToken := ""

	for len(locators) < query.TargetCount {
		pageSize := min(query.TargetCount-len(locators), maxPageSize)
		page, err := b.fetchPage(ctx, query.Subject, pageSize, pageToken)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if item.ID.VideoID == "" {
				continue
			}
			locators = append(locators, types.Locator{
				ID:    item.ID.VideoID,
				URL:   types.YouTubeWatchURL(item.ID.VideoID),
				Title: item.Snippet.Title,
			})
		}

		if page.NextPageToken == "" || len(page.Items) == 0 {
			break
		}
		pageToken = page.NextPageToken
	}
	return locators, nil
}

func (b *YouTubeAPIBackend) fetchPage(ctx context.Context, subject string, pageSize int, pageToken string) (*youtubeSearchResponse, error) {
	params := url.Values{
		"part":       {"snippet"},
		"type":       {"video"},
		"q":          {subject},
		"maxResults": {strconv.Itoa(pageSize)},
		"key":        {b.APIKey},
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, youtubeSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("YouTube API request: %w", err)
	}
	defer resp.Body.Close()

	var sr youtubeSearchResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&sr)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && sr.Error != nil && sr.Error.Message != "" {
			return nil, fmt.Errorf("YouTube API returned HTTP %d: %s", resp.StatusCode, sr.Error.Message)
		}
		return nil, fmt.Errorf("YouTube API returned HTTP %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("parsing YouTube API response: %w", decodeErr)
	}
	return &sr, nil
}

// YouTube Data API JSON structures.
type youtubeSearchResponse struct {
	NextPageToken string              `json:"nextPageToken"`
	Items         []youtubeSearchItem `json:"items"`
	Error         *youtubeAPIError    `json:"error,omitempty"`
}

type youtubeSearchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		ChannelTitle string `json:"channelTitle"`
	} `json:"snippet"`
}

type youtubeAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
