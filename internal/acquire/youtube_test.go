// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"testing"

	"github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestAudioFormat(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Bitrate: 500000, AudioChannels: 2},
		{ItagNo: 139, MimeType: `audio/mp4; codecs="mp4a.40.5"`, Bitrate: 48000, AudioChannels: 2},
		{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, Bitrate: 160000, AudioChannels: 2},
		{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 130000, AudioChannels: 2},
	}

	best, ok := bestAudioFormat(formats)
	require.True(t, ok)
	assert.Equal(t, 251, best.ItagNo)
}

func TestBestAudioFormatVideoOnly(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, AudioChannels: 2},
		{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`},
	}
	_, ok := bestAudioFormat(formats)
	assert.False(t, ok)

	m := &youtubeMedia{video: &youtube.Video{Title: "Silent", Formats: formats}}
	_, err := m.BestAudio()
	assert.ErrorIs(t, err, ErrNoAudio)
}

func TestYouTubeMediaBestAudio(t *testing.T) {
	m := &youtubeMedia{video: &youtube.Video{
		Title: "Live at Wembley",
		Formats: youtube.FormatList{
			{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 130000, ContentLength: 4096},
		},
	}}

	s, err := m.BestAudio()
	require.NoError(t, err)
	assert.Equal(t, "Live at Wembley", m.Title())
	assert.Equal(t, Stream{ID: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 130000, Ext: ".m4a", Size: 4096}, s)
}

func TestExtForMime(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{`audio/mp4; codecs="mp4a.40.2"`, ".m4a"},
		{`audio/webm; codecs="opus"`, ".webm"},
		{"audio/mpeg", ".mp3"},
		{"audio/ogg", ".ogg"},
		{"audio/flac", ".flac"},
		{"", ".audio"},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, extForMime(tt.mime))
		})
	}
}
