// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/mashup-engine/internal/tool"
	"github.com/pdiddy/mashup-engine/pkg/types"
)

// YtDlpBackend searches YouTube through the yt-dlp "ytsearchN:" extractor.
// It needs no API key.
type YtDlpBackend struct {
	Tool tool.Tool
}

// NewYtDlpBackend creates a backend that runs yt-dlp from path (or PATH).
func NewYtDlpBackend(path string) *YtDlpBackend {
	return &YtDlpBackend{Tool: tool.YtDlp(path)}
}

// Name returns the backend identifier.
func (b *YtDlpBackend) Name() string { return string(types.BackendYtDlp) }

// Search prints the id and title of each search hit and pairs them up.
func (b *YtDlpBackend) Search(ctx context.Context, query types.Query) ([]types.Locator, error) {
	out, err := b.Tool.Output(ctx,
		"--flat-playlist",
		"--no-warnings",
		"--print", "id",
		"--print", "title",
		fmt.Sprintf("ytsearch%d:%s", query.TargetCount, query.Subject))
	if err != nil {
		return nil, err
	}
	return parseYtDlpSearch(string(out)), nil
}

// parseYtDlpSearch reads alternating id/title lines. A trailing id with no
// title line is kept with an empty title.
func parseYtDlpSearch(output string) []types.Locator {
	var lines []string
	for _, l := range strings.Split(output, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	var locators []types.Locator
	for i := 0; i < len(lines); i += 2 {
		loc := types.Locator{ID: lines[i], URL: types.YouTubeWatchURL(lines[i])}
		if i+1 < len(lines) {
			loc.Title = lines[i+1]
		}
		locators = append(locators, loc)
	}
	return locators
}
