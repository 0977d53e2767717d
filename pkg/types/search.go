// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the mashup pipeline:
// the discovery query, source locators, the audio artifacts each stage
// produces, and the terminal delivery result.
package types

import "fmt"

// Query is the immutable input to discovery.
type Query struct {
	// Subject is the free-text search term, usually an artist name.
	Subject string `json:"subject" yaml:"subject"`

	// TargetCount is the maximum number of locators to return.
	TargetCount int `json:"target_count" yaml:"target_count"`
}

// Locator identifies one candidate video. Locators are produced by
// discovery in provider relevance order and are never mutated downstream.
type Locator struct {
	// ID is the provider's identifier for the video (e.g. a YouTube video ID).
	ID string `json:"id" yaml:"id"`

	// URL is the canonical watch URL passed to acquisition.
	URL string `json:"url" yaml:"url"`

	// Title is the provider's title metadata; informational only.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// String returns the URL when present, falling back to the ID.
func (l Locator) String() string {
	if l.URL != "" {
		return l.URL
	}
	return l.ID
}

// YouTubeWatchURL builds the watch URL for a YouTube video ID.
func YouTubeWatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}
