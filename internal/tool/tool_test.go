// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tool

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runPipedFunc  func(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(_ context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdin, stdout, stderr)
	}
	return nil
}

func TestAvailable(t *testing.T) {
	tests := []struct {
		name string
		mk   func(*mockExecutor) *binary
		exec *mockExecutor
		want bool
	}{
		{
			name: "ffmpeg on PATH and answers version",
			mk:   func(e *mockExecutor) *binary { return newFFmpeg("", e) },
			exec: &mockExecutor{
				availableBins: map[string]bool{"ffmpeg": true},
				runnableCmds:  map[string]bool{"ffmpeg -version": true},
			},
			want: true,
		},
		{
			name: "ffmpeg missing",
			mk:   func(e *mockExecutor) *binary { return newFFmpeg("", e) },
			exec: &mockExecutor{},
			want: false,
		},
		{
			name: "yt-dlp on PATH but version fails",
			mk:   func(e *mockExecutor) *binary { return newYtDlp("", e) },
			exec: &mockExecutor{
				availableBins: map[string]bool{"yt-dlp": true},
			},
			want: false,
		},
		{
			name: "explicit path override",
			mk:   func(e *mockExecutor) *binary { return newYtDlp("/opt/yt-dlp", e) },
			exec: &mockExecutor{
				availableBins: map[string]bool{"/opt/yt-dlp": true},
				runnableCmds:  map[string]bool{"/opt/yt-dlp --version": true},
			},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mk(tt.exec).Available())
		})
	}
}

func TestRequire(t *testing.T) {
	missing := newFFmpeg("", &mockExecutor{})
	_, err := Require(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg not available")

	ok := newFFmpeg("", &mockExecutor{
		availableBins: map[string]bool{"ffmpeg": true},
		runnableCmds:  map[string]bool{"ffmpeg -version": true},
	})
	got, err := Require(ok)
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg", got.Name())
}

func TestOutput(t *testing.T) {
	var gotArgs []string
	b := newYtDlp("", &mockExecutor{
		runPipedFunc: func(name string, args []string, _ io.Reader, stdout, _ io.Writer) error {
			gotArgs = args
			_, err := io.WriteString(stdout, "abc\nTitle\n")
			return err
		},
	})

	out, err := b.Output(context.Background(), "--print", "id")
	require.NoError(t, err)
	assert.Equal(t, "abc\nTitle\n", string(out))
	assert.Equal(t, []string{"--print", "id"}, gotArgs)
}

func TestRunFoldsStderrIntoError(t *testing.T) {
	b := newFFmpeg("", &mockExecutor{
		runPipedFunc: func(_ string, _ []string, _ io.Reader, _, stderr io.Writer) error {
			io.WriteString(stderr, "Invalid data found when processing input\n")
			return errors.New("exit status 1")
		},
	})

	err := b.Run(context.Background(), []string{"-i", "x"}, nil, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running ffmpeg")
	assert.Contains(t, err.Error(), "Invalid data found")
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("  short\n"))

	long := strings.Repeat("x", stderrTail+100)
	got := tail(long)
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.Len(t, got, stderrTail+3)
}
