// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Asset is a locally stored audio file obtained for one locator.
type Asset struct {
	// Source is the locator the asset was acquired from.
	Source Locator `json:"source" yaml:"source"`

	// Path is the local file holding the downloaded audio stream.
	Path string `json:"path" yaml:"path"`

	// Title is the source title as reported by the media provider.
	Title string `json:"title" yaml:"title"`

	// MimeType is the container type of the downloaded stream (e.g. "audio/mp4").
	MimeType string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
}

// Clip is the leading slice of one asset, written to its own file.
type Clip struct {
	// Asset is the acquired asset the clip was cut from.
	Asset Asset `json:"asset" yaml:"asset"`

	// Duration is min(configured duration, asset length).
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Path is the local file holding the clip.
	Path string `json:"path" yaml:"path"`
}

// Track is the single concatenation of all clips in discovery order.
type Track struct {
	// Path is the local file holding the merged audio.
	Path string `json:"path" yaml:"path"`

	// Format is the container of Path: "mp3" or "wav".
	Format string `json:"format" yaml:"format"`

	// Duration is the total length of the merged audio.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// ClipCount is the number of clips concatenated into the track.
	ClipCount int `json:"clip_count" yaml:"clip_count"`
}

// Bundle is the archive that carries the merged track to the recipient.
type Bundle struct {
	// Path is the local archive file.
	Path string `json:"path" yaml:"path"`

	// Entry is the name of the single file stored in the archive.
	Entry string `json:"entry" yaml:"entry"`

	// Size is the archive size in bytes.
	Size int64 `json:"size" yaml:"size"`
}
