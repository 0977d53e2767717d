// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deliver

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/mashup-engine/pkg/types"
)

// ErrArchive wraps every failure to build the bundle. It is terminal for the run.
var ErrArchive = errors.New("creating archive")

// ArchiveName is the bundle file name.
const ArchiveName = "output.zip"

// Archive writes a zip holding exactly the track file into dir.
func Archive(track types.Track, dir string) (types.Bundle, error) {
	path := filepath.Join(dir, ArchiveName)
	entry := filepath.Base(track.Path)

	if err := writeZip(path, track.Path, entry); err != nil {
		os.Remove(path)
		return types.Bundle{}, fmt.Errorf("%w %s: %w", ErrArchive, path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return types.Bundle{}, fmt.Errorf("%w %s: %w", ErrArchive, path, err)
	}
	return types.Bundle{Path: path, Entry: entry, Size: info.Size()}, nil
}

func writeZip(dst, src, entry string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = entry
	header.Method = zip.Deflate

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(out)
	w, err := zw.CreateHeader(header)
	if err == nil {
		_, err = io.Copy(w, in)
	}
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}
