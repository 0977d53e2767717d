// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audio

import (
	"fmt"
	"strconv"

	"github.com/bogem/id3v2"

	"github.com/pdiddy/mashup-engine/pkg/types"
)

// TagAlbum is the album name written into every track.
const TagAlbum = "Mashup"

// TagTrack writes ID3v2 title, artist, album and a clip-count comment
// into the track file.
func TagTrack(track types.Track, meta TrackMeta) error {
	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("opening tag of %s: %w", track.Path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(meta.Subject + " mashup")
	tag.SetArtist(meta.Subject)
	tag.SetAlbum(TagAlbum)

	text := strconv.Itoa(track.ClipCount) + " clips"
	if meta.RequestedCount > 0 {
		text = fmt.Sprintf("%d of %d requested clips", track.ClipCount, meta.RequestedCount)
	}
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    "eng",
		Description: "clips",
		Text:        text,
	})

	if err := tag.Save(); err != nil {
		return fmt.Errorf("saving tag of %s: %w", track.Path, err)
	}
	return nil
}
