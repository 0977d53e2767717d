// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"

	"github.com/pdiddy/mashup-engine/internal/logging"
	"github.com/pdiddy/mashup-engine/internal/tool"
	"github.com/pdiddy/mashup-engine/internal/workspace"
	"github.com/pdiddy/mashup-engine/pkg/types"
)

// ErrEmptyMerge is returned when there are no clips to concatenate.
var ErrEmptyMerge = errors.New("no clips to merge")

// Output formats.
const (
	FormatMP3 = "mp3"
	FormatWAV = "wav"
)

// MergedBaseName is the file name, without extension, of the merged track.
const MergedBaseName = "merged_audio"

// resampleQuality is passed to beep.Resample when clip rates differ.
const resampleQuality = 4

// ClipError records an asset that could not be trimmed.
type ClipError struct {
	Asset types.Asset
	Err   error
}

func (e *ClipError) Error() string {
	return fmt.Sprintf("trimming %s: %v", filepath.Base(e.Asset.Path), e.Err)
}

func (e *ClipError) Unwrap() error { return e.Err }

// TrimResult is the outcome of TrimEach. Clips keep the order of the
// assets they came from.
type TrimResult struct {
	Clips    []types.Clip
	Failures []*ClipError
}

// TrackMeta labels the merged track.
type TrackMeta struct {
	Subject        string
	RequestedCount int
}

// Transformer trims assets into clips and merges clips into a track.
type Transformer struct {
	Decoder  Decoder
	FFmpeg   tool.Tool
	ClipsDir string
	OutDir   string

	// Format is FormatMP3 or FormatWAV.
	Format string

	// SampleRate forces the merged track's rate. Zero keeps the first clip's rate.
	SampleRate int

	Logger *slog.Logger
}

// New returns a Transformer writing clips and the track into the given
// directories. ffmpeg may be nil when only WAV and MP3 inputs are expected
// and the output format is WAV.
func New(cfg types.TransformConfig, ffmpeg tool.Tool, clipsDir, outDir string, logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = logging.Discard()
	}
	format := strings.ToLower(cfg.OutputFormat)
	if format == "" {
		format = types.DefaultOutputFormat
	}
	return &Transformer{
		Decoder:    &FileDecoder{FFmpeg: ffmpeg, ScratchDir: clipsDir},
		FFmpeg:     ffmpeg,
		ClipsDir:   clipsDir,
		OutDir:     outDir,
		Format:     format,
		SampleRate: cfg.SampleRate,
		Logger:     logging.WithComponent(logger, "transform"),
	}
}

// TrimEach cuts every asset to at most seconds of audio from its start.
// An asset shorter than seconds is kept whole. A failing asset becomes a
// ClipError and the batch continues.
func (t *Transformer) TrimEach(ctx context.Context, assets []types.Asset, seconds int) (TrimResult, error) {
	var res TrimResult
	if seconds <= 0 {
		return res, fmt.Errorf("clip duration must be positive, got %d", seconds)
	}
	limit := time.Duration(seconds) * time.Second

	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		clip, err := t.trim(ctx, a, limit)
		if err != nil {
			ce := &ClipError{Asset: a, Err: err}
			t.Logger.Warn("dropping clip", "asset", filepath.Base(a.Path), "error", err)
			res.Failures = append(res.Failures, ce)
			continue
		}
		t.Logger.Debug("clip written", "clip", filepath.Base(clip.Path), "duration", clip.Duration)
		res.Clips = append(res.Clips, clip)
	}

	t.Logger.Info("trimming complete", "clips", len(res.Clips), "dropped", len(res.Failures))
	return res, nil
}

func (t *Transformer) trim(ctx context.Context, a types.Asset, limit time.Duration) (types.Clip, error) {
	s, format, err := t.Decoder.Open(ctx, a.Path)
	if err != nil {
		return types.Clip{}, err
	}
	defer s.Close()

	n := s.Len()
	if want := format.SampleRate.N(limit); want < n {
		n = want
	}
	if n <= 0 {
		return types.Clip{}, errors.New("asset contains no audio samples")
	}

	base := "cut_" + strings.TrimSuffix(filepath.Base(a.Path), filepath.Ext(a.Path))
	path := workspace.UniquePath(t.ClipsDir, base, ".wav")
	if err := writeWAV(path, beep.Take(n, s), format); err != nil {
		return types.Clip{}, err
	}
	return types.Clip{
		Asset:    a,
		Duration: format.SampleRate.D(n),
		Path:     path,
	}, nil
}

// Merge concatenates clips in order into the track file. The result's
// duration is the sum of the clip durations.
func (t *Transformer) Merge(ctx context.Context, clips []types.Clip, meta TrackMeta) (types.Track, error) {
	if len(clips) == 0 {
		return types.Track{}, ErrEmptyMerge
	}

	wavPath := filepath.Join(t.OutDir, MergedBaseName+".wav")
	total, err := t.concat(ctx, clips, wavPath)
	if err != nil {
		return types.Track{}, err
	}

	track := types.Track{
		Path:      wavPath,
		Format:    FormatWAV,
		Duration:  total,
		ClipCount: len(clips),
	}
	if t.Format != FormatMP3 {
		t.Logger.Info("track merged", "path", track.Path, "duration", track.Duration, "clips", track.ClipCount)
		return track, nil
	}

	if t.FFmpeg == nil {
		return types.Track{}, errors.New("mp3 output requires ffmpeg")
	}
	mp3Path := filepath.Join(t.OutDir, MergedBaseName+".mp3")
	if err := encodeMP3(ctx, t.FFmpeg, wavPath, mp3Path); err != nil {
		return types.Track{}, err
	}
	os.Remove(wavPath)
	track.Path = mp3Path
	track.Format = FormatMP3

	if err := TagTrack(track, meta); err != nil {
		t.Logger.Warn("tagging track", "error", err)
	}
	t.Logger.Info("track merged", "path", track.Path, "duration", track.Duration, "clips", track.ClipCount)
	return track, nil
}

// concat streams every clip, resampled to a common rate, into one stereo WAV.
func (t *Transformer) concat(ctx context.Context, clips []types.Clip, dst string) (time.Duration, error) {
	var (
		streams []beep.Streamer
		closers []beep.StreamSeekCloser
		target  beep.Format
		total   int
	)
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	for i, c := range clips {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		s, format, err := t.Decoder.Open(ctx, c.Path)
		if err != nil {
			return 0, fmt.Errorf("opening clip %s: %w", filepath.Base(c.Path), err)
		}
		closers = append(closers, s)

		if i == 0 {
			target = format
			if t.SampleRate > 0 {
				target.SampleRate = beep.SampleRate(t.SampleRate)
			}
			// beep streams every source as stereo; mono clips are upmixed.
			target.NumChannels = 2
		}
		var st beep.Streamer = s
		n := s.Len()
		if format.SampleRate != target.SampleRate {
			st = beep.Resample(resampleQuality, format.SampleRate, target.SampleRate, s)
			n = target.SampleRate.N(format.SampleRate.D(n))
		}
		streams = append(streams, beep.Take(n, st))
		total += n
	}

	if err := writeWAV(dst, beep.Seq(streams...), target); err != nil {
		return 0, err
	}
	return target.SampleRate.D(total), nil
}

func writeWAV(path string, s beep.Streamer, format beep.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := wav.Encode(f, s, format); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
