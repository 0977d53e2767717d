// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package audio trims acquired assets to a fixed length and concatenates
// the clips into the mashup track.
//
// Decoding, slicing, and concatenation run in-process on
// github.com/faiface/beep streamers. Containers beep cannot read (m4a,
// webm) are first transcoded to PCM WAV with ffmpeg, and an MP3 track is
// produced by handing the merged WAV to ffmpeg and tagging the result with
// github.com/bogem/id3v2.
//
// A clip that fails to decode is dropped and reported; trimming never
// retries. Merging an empty clip list fails with ErrEmptyMerge.
package audio
