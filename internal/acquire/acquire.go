// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads the audio stream of each discovered video.
//
// Each locator moves Pending → Attempting → {Succeeded, Skipped, Exhausted}.
// A missing audio stream is permanent and skips the locator at once; any
// other failure is retried after a fixed backoff until the attempt bound is
// reached. A fixed cooldown separates consecutive locators. One locator's
// failure never stops the batch.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/mashup-engine/internal/logging"
	"github.com/pdiddy/mashup-engine/internal/workspace"
	"github.com/pdiddy/mashup-engine/pkg/types"
)

var (
	// ErrNoAudio marks a source that has no audio stream. It is never retried.
	ErrNoAudio = errors.New("no audio stream available")

	// ErrNoAssetsAcquired is returned when every locator was skipped or
	// exhausted. It is terminal for the run.
	ErrNoAssetsAcquired = errors.New("no videos were downloaded")
)

// Stream describes one downloadable audio format of a video.
type Stream struct {
	ID       int
	MimeType string
	Bitrate  int
	Ext      string
	Size     int64
}

// Media is a resolved video: the three operations acquisition needs.
type Media interface {
	Title() string
	// BestAudio returns the preferred audio-only stream, or ErrNoAudio.
	BestAudio() (Stream, error)
	Download(ctx context.Context, s Stream, w io.Writer) error
}

// Source resolves a locator into Media.
type Source interface {
	Resolve(ctx context.Context, loc types.Locator) (Media, error)
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the production Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Acquirer runs the per-locator state machine over a batch.
type Acquirer struct {
	Source       Source
	Dir          string
	MaxAttempts  int
	RetryBackoff time.Duration
	Cooldown     time.Duration
	Sleep        Sleeper
	Logger       *slog.Logger
}

// New creates an Acquirer that stores assets in dir.
func New(src Source, dir string, cfg types.AcquisitionConfig, logger *slog.Logger) *Acquirer {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = types.DefaultMaxAttempts
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Acquirer{
		Source:       src,
		Dir:          dir,
		MaxAttempts:  attempts,
		RetryBackoff: cfg.RetryBackoff,
		Cooldown:     cfg.Cooldown,
		Sleep:        Sleep,
		Logger:       logging.WithComponent(logger, "acquire"),
	}
}

// Acquire processes locators in order. The report holds one outcome per
// locator; its assets keep the input order. ErrNoAssetsAcquired is
// returned alongside the report when nothing succeeded. A cancelled
// context stops the batch between locators or during a pause.
func (a *Acquirer) Acquire(ctx context.Context, locators []types.Locator) (Report, error) {
	var report Report
	for i, loc := range locators {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if i > 0 {
			if err := a.Sleep(ctx, a.Cooldown); err != nil {
				return report, err
			}
		}

		out, err := a.acquireOne(ctx, i, loc)
		report.Outcomes = append(report.Outcomes, out)
		if err != nil {
			return report, err
		}
	}

	a.Logger.Info("acquisition complete",
		"succeeded", report.Count(StateSucceeded),
		"skipped", report.Count(StateSkipped),
		"exhausted", report.Count(StateExhausted),
		"total", len(report.Outcomes))

	if report.Count(StateSucceeded) == 0 {
		return report, ErrNoAssetsAcquired
	}
	return report, nil
}

// acquireOne drives a single locator to a terminal state. The returned
// error is non-nil only when ctx was cancelled.
func (a *Acquirer) acquireOne(ctx context.Context, index int, loc types.Locator) (Outcome, error) {
	log := logging.WithLocator(a.Logger, loc.String())
	out := Outcome{Index: index, Locator: loc, State: StatePending}

	for attempt := 1; attempt <= a.MaxAttempts; attempt++ {
		out.State = StateAttempting
		out.Attempts = attempt

		asset, err := a.attempt(ctx, loc)
		if err == nil {
			out.State = StateSucceeded
			out.Asset = asset
			out.Err = nil
			log.Info("acquired", "title", asset.Title, "attempts", attempt)
			return out, nil
		}
		out.Err = err

		if errors.Is(err, ErrNoAudio) {
			out.State = StateSkipped
			log.Warn("skipped: no audio stream")
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			out.State = StateExhausted
			return out, ctxErr
		}

		log.Warn("attempt failed", "attempt", attempt, "max_attempts", a.MaxAttempts, "error", err)
		if attempt < a.MaxAttempts {
			if err := a.Sleep(ctx, a.RetryBackoff); err != nil {
				out.State = StateExhausted
				return out, err
			}
		}
	}

	out.State = StateExhausted
	log.Warn("exhausted", "attempts", out.Attempts, "error", out.Err)
	return out, nil
}

// attempt resolves the locator, picks its audio stream, and downloads it.
func (a *Acquirer) attempt(ctx context.Context, loc types.Locator) (*types.Asset, error) {
	media, err := a.Source.Resolve(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", loc, err)
	}
	stream, err := media.BestAudio()
	if err != nil {
		return nil, err
	}

	title := media.Title()
	dest := workspace.UniquePath(a.Dir, workspace.SanitizeFileName(title), stream.Ext)
	if err := a.download(ctx, media, stream, dest); err != nil {
		return nil, fmt.Errorf("downloading %s: %w", loc, err)
	}

	return &types.Asset{
		Source:   loc,
		Path:     dest,
		Title:    title,
		MimeType: stream.MimeType,
	}, nil
}

// download writes the stream to a temp file in the destination directory
// and renames it into place on success.
func (a *Acquirer) download(ctx context.Context, media Media, stream Stream, destPath string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".acquire-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	dlErr := media.Download(ctx, stream, tmpFile)
	closeErr := tmpFile.Close()
	if dlErr != nil {
		os.Remove(tmpPath)
		return dlErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
