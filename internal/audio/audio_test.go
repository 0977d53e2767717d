// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audio

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mashup-engine/pkg/types"
)

// A low rate keeps fixtures small; every operation is rate-independent.
const testRate = beep.SampleRate(1000)

var testFormat = beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2}

// tone returns a deterministic streamer whose samples depend on freq.
func tone(freq float64) beep.Streamer {
	var i int
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for j := range samples {
			v := 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(testRate))
			samples[j] = [2]float64{v, -v}
			i++
		}
		return len(samples), true
	})
}

func writeTone(t *testing.T, dir, name string, seconds int, freq float64) types.Asset {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, writeWAV(path, beep.Take(testRate.N(time.Duration(seconds)*time.Second), tone(freq)), testFormat))
	return types.Asset{Path: path, Title: name}
}

func readSamples(t *testing.T, path string) ([][2]float64, beep.Format) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	s, format, err := wav.Decode(f)
	require.NoError(t, err)
	defer s.Close()

	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	return out, format
}

func newTestTransformer(t *testing.T) *Transformer {
	t.Helper()
	root := t.TempDir()
	clips := filepath.Join(root, "clips")
	out := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(clips, 0o755))
	require.NoError(t, os.MkdirAll(out, 0o755))
	return New(types.TransformConfig{OutputFormat: FormatWAV}, nil, clips, out, nil)
}

func TestTrimEach_TrimsAndMerges(t *testing.T) {
	tr := newTestTransformer(t)
	dir := t.TempDir()

	var assets []types.Asset
	for i, name := range []string{"a.wav", "b.wav", "c.wav", "d.wav", "e.wav"} {
		assets = append(assets, writeTone(t, dir, name, 30, float64(50+10*i)))
	}

	res, err := tr.TrimEach(context.Background(), assets, 20)
	require.NoError(t, err)
	require.Len(t, res.Clips, 5)
	assert.Empty(t, res.Failures)
	for i, c := range res.Clips {
		assert.Equal(t, 20*time.Second, c.Duration)
		assert.Equal(t, assets[i].Path, c.Asset.Path, "clip order follows asset order")
		assert.Equal(t, "cut_"+string(rune('a'+i))+".wav", filepath.Base(c.Path))
	}

	track, err := tr.Merge(context.Background(), res.Clips, TrackMeta{Subject: "x"})
	require.NoError(t, err)
	assert.Equal(t, 100*time.Second, track.Duration)
	assert.Equal(t, 5, track.ClipCount)
	assert.Equal(t, FormatWAV, track.Format)
	assert.Equal(t, "merged_audio.wav", filepath.Base(track.Path))

	samples, format := readSamples(t, track.Path)
	assert.Equal(t, testRate, format.SampleRate)
	assert.Len(t, samples, testRate.N(100*time.Second))
}

func TestTrimEach_ShortAssetKeptWhole(t *testing.T) {
	tr := newTestTransformer(t)
	dir := t.TempDir()
	short := writeTone(t, dir, "short.wav", 7, 60)
	exact := writeTone(t, dir, "exact.wav", 20, 70)

	res, err := tr.TrimEach(context.Background(), []types.Asset{short, exact}, 20)
	require.NoError(t, err)
	require.Len(t, res.Clips, 2)
	assert.Equal(t, 7*time.Second, res.Clips[0].Duration)
	assert.Equal(t, 20*time.Second, res.Clips[1].Duration)

	orig, _ := readSamples(t, exact.Path)
	cut, _ := readSamples(t, res.Clips[1].Path)
	assert.Len(t, cut, len(orig), "asset exactly as long as the limit is kept whole")
}

func TestTrimEach_Idempotent(t *testing.T) {
	tr := newTestTransformer(t)
	asset := writeTone(t, t.TempDir(), "song.wav", 30, 80)

	first, err := tr.TrimEach(context.Background(), []types.Asset{asset}, 20)
	require.NoError(t, err)
	require.Len(t, first.Clips, 1)

	again, err := tr.TrimEach(context.Background(), []types.Asset{{Path: first.Clips[0].Path}}, 20)
	require.NoError(t, err)
	require.Len(t, again.Clips, 1)
	assert.Equal(t, first.Clips[0].Duration, again.Clips[0].Duration)

	a, _ := readSamples(t, first.Clips[0].Path)
	b, _ := readSamples(t, again.Clips[0].Path)
	assert.Len(t, b, len(a))
}

func TestTrimEach_CorruptAssetDropped(t *testing.T) {
	tr := newTestTransformer(t)
	dir := t.TempDir()
	good1 := writeTone(t, dir, "one.wav", 25, 50)
	bad := types.Asset{Path: filepath.Join(dir, "broken.wav")}
	require.NoError(t, os.WriteFile(bad.Path, []byte("not a wave file"), 0o644))
	missing := types.Asset{Path: filepath.Join(dir, "missing.mp3")}
	good2 := writeTone(t, dir, "two.wav", 25, 60)

	res, err := tr.TrimEach(context.Background(), []types.Asset{good1, bad, missing, good2}, 20)
	require.NoError(t, err)
	require.Len(t, res.Clips, 2)
	assert.Equal(t, good1.Path, res.Clips[0].Asset.Path)
	assert.Equal(t, good2.Path, res.Clips[1].Asset.Path)

	require.Len(t, res.Failures, 2)
	assert.Equal(t, bad.Path, res.Failures[0].Asset.Path)
	assert.Contains(t, res.Failures[0].Error(), "broken.wav")
	assert.Equal(t, missing.Path, res.Failures[1].Asset.Path)
}

func TestTrimEach_UnsupportedWithoutFFmpeg(t *testing.T) {
	tr := newTestTransformer(t)
	path := filepath.Join(t.TempDir(), "song.m4a")
	require.NoError(t, os.WriteFile(path, []byte("m4a"), 0o644))

	res, err := tr.TrimEach(context.Background(), []types.Asset{{Path: path}}, 20)
	require.NoError(t, err)
	assert.Empty(t, res.Clips)
	require.Len(t, res.Failures, 1)
	assert.Contains(t, res.Failures[0].Error(), "no ffmpeg")
}

func TestTrimEach_RejectsNonPositiveDuration(t *testing.T) {
	tr := newTestTransformer(t)
	_, err := tr.TrimEach(context.Background(), nil, 0)
	assert.Error(t, err)
}

func TestTrimEach_Cancelled(t *testing.T) {
	tr := newTestTransformer(t)
	asset := writeTone(t, t.TempDir(), "song.wav", 5, 50)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.TrimEach(ctx, []types.Asset{asset}, 20)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMerge_Empty(t *testing.T) {
	tr := newTestTransformer(t)
	_, err := tr.Merge(context.Background(), nil, TrackMeta{})
	assert.ErrorIs(t, err, ErrEmptyMerge)
}

func TestMerge_Associative(t *testing.T) {
	dir := t.TempDir()
	a := writeTone(t, dir, "a.wav", 3, 40)
	b := writeTone(t, dir, "b.wav", 4, 90)
	c := writeTone(t, dir, "c.wav", 2, 130)
	clip := func(asset types.Asset, secs int) types.Clip {
		return types.Clip{Asset: asset, Path: asset.Path, Duration: time.Duration(secs) * time.Second}
	}

	whole := newTestTransformer(t)
	flat, err := whole.Merge(context.Background(), []types.Clip{clip(a, 3), clip(b, 4), clip(c, 2)}, TrackMeta{})
	require.NoError(t, err)

	inner := newTestTransformer(t)
	ab, err := inner.Merge(context.Background(), []types.Clip{clip(a, 3), clip(b, 4)}, TrackMeta{})
	require.NoError(t, err)
	outer := newTestTransformer(t)
	nested, err := outer.Merge(context.Background(),
		[]types.Clip{{Path: ab.Path, Duration: ab.Duration}, clip(c, 2)}, TrackMeta{})
	require.NoError(t, err)

	assert.Equal(t, flat.Duration, nested.Duration)
	x, _ := readSamples(t, flat.Path)
	y, _ := readSamples(t, nested.Path)
	require.Len(t, y, len(x))
	for i := range x {
		assert.InDelta(t, x[i][0], y[i][0], 1e-3, "sample %d", i)
		assert.InDelta(t, x[i][1], y[i][1], 1e-3, "sample %d", i)
	}
}

func TestMerge_ResamplesToFirstClip(t *testing.T) {
	dir := t.TempDir()
	a := writeTone(t, dir, "a.wav", 2, 40)

	fast := beep.Format{SampleRate: 2000, NumChannels: 2, Precision: 2}
	bPath := filepath.Join(dir, "b.wav")
	require.NoError(t, writeWAV(bPath, beep.Take(fast.SampleRate.N(3*time.Second), tone(40)), fast))

	tr := newTestTransformer(t)
	track, err := tr.Merge(context.Background(), []types.Clip{{Path: a.Path}, {Path: bPath}}, TrackMeta{})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, track.Duration)

	_, format := readSamples(t, track.Path)
	assert.Equal(t, testRate, format.SampleRate)
}

func TestMerge_MixesMonoAndStereoClips(t *testing.T) {
	dir := t.TempDir()
	stereo := writeTone(t, dir, "stereo.wav", 30, 40)

	mono := beep.Format{SampleRate: testRate, NumChannels: 1, Precision: 2}
	monoPath := filepath.Join(dir, "mono.wav")
	require.NoError(t, writeWAV(monoPath, beep.Take(testRate.N(30*time.Second), tone(60)), mono))

	for _, order := range [][]string{{stereo.Path, monoPath}, {monoPath, stereo.Path}} {
		tr := newTestTransformer(t)
		assets := []types.Asset{{Path: order[0]}, {Path: order[1]}}

		res, err := tr.TrimEach(context.Background(), assets, 21)
		require.NoError(t, err)
		require.Len(t, res.Clips, 2)
		assert.Empty(t, res.Failures)

		track, err := tr.Merge(context.Background(), res.Clips, TrackMeta{Subject: "x"})
		require.NoError(t, err, "mono clip is upmixed into the track")
		assert.Equal(t, 42*time.Second, track.Duration)
		assert.Equal(t, 2, track.ClipCount)

		samples, format := readSamples(t, track.Path)
		assert.Equal(t, 2, format.NumChannels)
		assert.Len(t, samples, testRate.N(42*time.Second))
	}
}

func TestMerge_MP3RequiresFFmpeg(t *testing.T) {
	tr := newTestTransformer(t)
	tr.Format = FormatMP3
	a := writeTone(t, t.TempDir(), "a.wav", 1, 40)

	_, err := tr.Merge(context.Background(), []types.Clip{{Path: a.Path}}, TrackMeta{})
	assert.ErrorContains(t, err, "requires ffmpeg")
}

func TestNew_Defaults(t *testing.T) {
	tr := New(types.TransformConfig{}, nil, "c", "o", nil)
	assert.Equal(t, FormatMP3, tr.Format)
	assert.NotNil(t, tr.Logger)
	assert.IsType(t, &FileDecoder{}, tr.Decoder)
}
