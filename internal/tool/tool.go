// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tool locates and runs the external command-line programs the
// pipeline depends on: ffmpeg for transcoding and yt-dlp for search.
package tool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	BinFFmpeg = "ffmpeg"
	BinYtDlp  = "yt-dlp"

	// stderrTail bounds how much of a failing command's stderr is kept
	// in the returned error.
	stderrTail = 512
)

// Tool runs one external binary.
type Tool interface {
	// Name returns the binary name ("ffmpeg", "yt-dlp").
	Name() string

	// Available reports whether the binary exists on PATH and answers a
	// version probe.
	Available() bool

	// Run executes the binary with args, piping stdin and stdout. Stderr is
	// captured and folded into the returned error on failure.
	Run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error

	// Output executes the binary and returns its stdout.
	Output(ctx context.Context, args ...string) ([]byte, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// binary implements Tool for a specific program. ffmpeg and yt-dlp share
// the same logic; they differ only in binary name and version flag.
type binary struct {
	bin         string
	versionArgs []string
	exec        executor
}

func (b *binary) Name() string { return b.bin }

func (b *binary) Available() bool {
	if _, err := b.exec.LookPath(b.bin); err != nil {
		return false
	}
	return b.exec.RunSilent(b.bin, b.versionArgs...) == nil
}

func (b *binary) Run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	if err := b.exec.RunPiped(ctx, b.bin, args, stdin, stdout, &stderr); err != nil {
		if msg := tail(stderr.String()); msg != "" {
			return fmt.Errorf("running %s: %w: %s", b.bin, err, msg)
		}
		return fmt.Errorf("running %s: %w", b.bin, err)
	}
	return nil
}

func (b *binary) Output(ctx context.Context, args ...string) ([]byte, error) {
	var out bytes.Buffer
	if err := b.Run(ctx, args, nil, &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		s = "..." + s[len(s)-stderrTail:]
	}
	return s
}

var defaultExec = &osExecutor{}

// FFmpeg returns the ffmpeg tool. A non-empty path overrides the PATH lookup.
func FFmpeg(path string) Tool {
	return newFFmpeg(path, defaultExec)
}

// YtDlp returns the yt-dlp tool. A non-empty path overrides the PATH lookup.
func YtDlp(path string) Tool {
	return newYtDlp(path, defaultExec)
}

// Require returns t when it is available, or an error naming the missing binary.
func Require(t Tool) (Tool, error) {
	if !t.Available() {
		return nil, fmt.Errorf("%s not available: install it or set its path in the configuration", t.Name())
	}
	return t, nil
}

func newFFmpeg(path string, exec executor) *binary {
	if path == "" {
		path = BinFFmpeg
	}
	return &binary{bin: path, versionArgs: []string{"-version"}, exec: exec}
}

func newYtDlp(path string, exec executor) *binary {
	if path == "" {
		path = BinYtDlp
	}
	return &binary{bin: path, versionArgs: []string{"--version"}, exec: exec}
}
