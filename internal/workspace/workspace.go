// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workspace allocates run-scoped storage. Every file a run creates
// lives under a directory named after a freshly generated run identifier,
// and the directory is removed when the run ends.
package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	runPrefix = "run-"

	AssetsDir = "assets"
	ClipsDir  = "clips"
	OutDir    = "out"
)

// Workspace is the directory tree owned by a single run.
type Workspace struct {
	id   string
	root string
	keep bool
}

// New creates <base>/run-<uuidv7>/ with its assets, clips, and out
// subdirectories. An empty base uses os.TempDir().
func New(base string, keep bool) (*Workspace, error) {
	if base == "" {
		base = os.TempDir()
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating run id: %w", err)
	}

	ws := &Workspace{
		id:   id.String(),
		root: filepath.Join(base, runPrefix+id.String()),
		keep: keep,
	}

	for _, dir := range []string{ws.root, ws.Assets(), ws.Clips(), ws.Out()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return ws, nil
}

// ID returns the run identifier.
func (w *Workspace) ID() string { return w.id }

// Root returns the run directory.
func (w *Workspace) Root() string { return w.root }

// Assets returns the directory for downloaded audio.
func (w *Workspace) Assets() string { return filepath.Join(w.root, AssetsDir) }

// Clips returns the directory for trimmed clips.
func (w *Workspace) Clips() string { return filepath.Join(w.root, ClipsDir) }

// Kept reports whether Close leaves the directory in place.
func (w *Workspace) Kept() bool { return w.keep }

// Out returns the directory for the merged track and the archive.
func (w *Workspace) Out() string { return filepath.Join(w.root, OutDir) }

// Close removes the run directory unless the workspace was created with
// keep set. It is safe to call more than once.
func (w *Workspace) Close() error {
	if w.keep {
		return nil
	}
	if err := os.RemoveAll(w.root); err != nil {
		return fmt.Errorf("removing workspace %s: %w", w.root, err)
	}
	return nil
}

// Export copies src into dir, creating dir if needed, and returns the
// destination path.
func Export(src, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	dst := filepath.Join(dir, filepath.Base(src))

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("copying %s: %w", src, err)
	}
	return dst, out.Close()
}

var (
	invalidChars  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots  = regexp.MustCompile(`\.+$`)
	runsOfSpaces  = regexp.MustCompile(`\s+`)
	maxNameLength = 120
)

// SanitizeFileName replaces characters that are invalid in file names,
// drops trailing dots, and collapses whitespace. An empty result becomes
// "untitled".
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = runsOfSpaces.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if len(name) > maxNameLength {
		cut := maxNameLength
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimSpace(name[:cut])
	}
	name = trailingDots.ReplaceAllString(name, "")
	if name == "" {
		return "untitled"
	}
	return name
}

// UniquePath returns dir/base+ext, or dir/base (n)+ext for the first n
// that does not exist yet.
func UniquePath(dir, base, ext string) string {
	p := filepath.Join(dir, base+ext)
	for n := 2; ; n++ {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return p
		}
		p = filepath.Join(dir, base+" ("+strconv.Itoa(n)+")"+ext)
	}
}
