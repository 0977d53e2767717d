// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/pdiddy/mashup-engine/pkg/types"
)

// YouTubeSource resolves YouTube watch URLs with github.com/kkdai/youtube.
type YouTubeSource struct {
	Client *youtube.Client
}

// NewYouTubeSource creates a source whose HTTP client is bounded by cfg.Timeout.
func NewYouTubeSource(cfg types.AcquisitionConfig) *YouTubeSource {
	return &YouTubeSource{
		Client: &youtube.Client{
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
		},
	}
}

// Resolve fetches the video metadata and format list.
func (s *YouTubeSource) Resolve(ctx context.Context, loc types.Locator) (Media, error) {
	video, err := s.Client.GetVideoContext(ctx, loc.String())
	if err != nil {
		return nil, err
	}
	return &youtubeMedia{client: s.Client, video: video}, nil
}

type youtubeMedia struct {
	client *youtube.Client
	video  *youtube.Video
}

func (m *youtubeMedia) Title() string { return m.video.Title }

func (m *youtubeMedia) BestAudio() (Stream, error) {
	f, ok := bestAudioFormat(m.video.Formats)
	if !ok {
		return Stream{}, ErrNoAudio
	}
	return Stream{
		ID:       f.ItagNo,
		MimeType: f.MimeType,
		Bitrate:  f.Bitrate,
		Ext:      extForMime(f.MimeType),
		Size:     f.ContentLength,
	}, nil
}

func (m *youtubeMedia) Download(ctx context.Context, s Stream, w io.Writer) error {
	format := m.video.Formats.FindByItag(s.ID)
	if format == nil {
		return fmt.Errorf("format itag %d not found", s.ID)
	}

	rc, _, err := m.client.GetStreamContext(ctx, m.video, format)
	if err != nil {
		return fmt.Errorf("opening stream: %w", err)
	}
	defer rc.Close()

	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}
	return nil
}

// bestAudioFormat picks the audio-only format with the highest bitrate.
// Muxed video formats are not considered.
func bestAudioFormat(formats youtube.FormatList) (youtube.Format, bool) {
	audio := formats.Type("audio/")
	if len(audio) == 0 {
		return youtube.Format{}, false
	}
	best := audio[0]
	for _, f := range audio[1:] {
		if f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best, true
}

// extForMime maps a stream MIME type to a file extension.
func extForMime(mimeType string) string {
	media, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		media = strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	}
	switch media {
	case "audio/mp4":
		return ".m4a"
	case "audio/webm":
		return ".webm"
	case "audio/mpeg":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	}
	if _, sub, ok := strings.Cut(media, "/"); ok && sub != "" {
		return "." + sub
	}
	return ".audio"
}
