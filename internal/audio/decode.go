// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"

	"github.com/pdiddy/mashup-engine/internal/tool"
)

// Decoder opens an audio file as a seekable PCM stream.
type Decoder interface {
	Open(ctx context.Context, path string) (beep.StreamSeekCloser, beep.Format, error)
}

// FileDecoder decodes WAV and MP3 natively and transcodes every other
// container to WAV with ffmpeg first.
type FileDecoder struct {
	// FFmpeg transcodes non-native containers. Nil limits decoding to WAV and MP3.
	FFmpeg tool.Tool

	// ScratchDir receives transcoded WAV files. Defaults to the source's directory.
	ScratchDir string
}

// Open implements Decoder.
func (d *FileDecoder) Open(ctx context.Context, path string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return openWAV(path)
	case ".mp3":
		return openMP3(path)
	}

	if d.FFmpeg == nil {
		return nil, beep.Format{}, fmt.Errorf("cannot decode %s: unsupported container and no ffmpeg configured", filepath.Base(path))
	}

	dir := d.ScratchDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	wavPath := filepath.Join(dir, ".decoded-"+strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".wav")
	if err := transcodeToWAV(ctx, d.FFmpeg, path, wavPath); err != nil {
		return nil, beep.Format{}, err
	}
	return openWAV(wavPath)
}

func openWAV(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decoding WAV %s: %w", filepath.Base(path), err)
	}
	return s, format, nil
}

func openMP3(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	s, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decoding MP3 %s: %w", filepath.Base(path), err)
	}
	return s, format, nil
}

// transcodeToWAV writes a 16-bit PCM WAV without metadata chunks, which
// is the layout the beep WAV decoder reads.
func transcodeToWAV(ctx context.Context, ffmpeg tool.Tool, src, dst string) error {
	args := []string{
		"-y", "-nostdin", "-loglevel", "error",
		"-i", src,
		"-vn",
		"-map_metadata", "-1",
		"-fflags", "+bitexact",
		"-flags:a", "+bitexact",
		"-acodec", "pcm_s16le",
		"-f", "wav",
		dst,
	}
	if err := ffmpeg.Run(ctx, args, nil, nil); err != nil {
		os.Remove(dst)
		return fmt.Errorf("transcoding %s: %w", filepath.Base(src), err)
	}
	return nil
}

// encodeMP3 converts a WAV file to MP3 with the LAME encoder.
func encodeMP3(ctx context.Context, ffmpeg tool.Tool, src, dst string) error {
	args := []string{
		"-y", "-nostdin", "-loglevel", "error",
		"-i", src,
		"-codec:a", "libmp3lame",
		"-q:a", "2",
		dst,
	}
	if err := ffmpeg.Run(ctx, args, nil, nil); err != nil {
		os.Remove(dst)
		return fmt.Errorf("encoding MP3: %w", err)
	}
	return nil
}
