//go:build mage

// Package main contains Mage build targets for mashup-engine developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mashup-engine/internal/secrets"
	"github.com/pdiddy/mashup-engine/internal/tool"
	"github.com/pdiddy/mashup-engine/pkg/types"
)

const (
	binDir     = "bin"
	binName    = "mashup"
	cmdPkg     = "./cmd/mashup"
	configFile = "mashup.yaml"
)

// Init creates .secrets/ and a mashup.yaml holding the default configuration.
// Existing files are left alone.
func Init() error {
	if err := os.MkdirAll(secrets.DefaultDir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", secrets.DefaultDir, err)
	}
	keep := filepath.Join(secrets.DefaultDir, ".gitkeep")
	if _, err := os.Stat(keep); os.IsNotExist(err) {
		if err := os.WriteFile(keep, nil, 0o600); err != nil {
			return err
		}
	}
	fmt.Printf("   %s/ (add %s, %s, %s)\n", secrets.DefaultDir,
		secrets.KeySMTPUsername, secrets.KeySMTPPassword, secrets.KeyYouTubeAPIKey)

	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("   %s already exists\n", configFile)
		return nil
	}
	data, err := yaml.Marshal(types.DefaultPipelineConfig())
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFile, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}
	fmt.Printf("   %s\n", configFile)
	return nil
}

// Doctor reports whether the external tools the pipeline shells out to are installed.
func Doctor() error {
	missing := 0
	for _, t := range []tool.Tool{tool.FFmpeg(""), tool.YtDlp("")} {
		if t.Available() {
			fmt.Printf("  ok       %s\n", t.Name())
			continue
		}
		missing++
		fmt.Printf("  missing  %s\n", t.Name())
	}
	if missing > 0 {
		fmt.Println("ffmpeg is required for mp3 output and non-WAV downloads; yt-dlp only for the yt-dlp discovery backend.")
	}
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + buildVersion()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Mashup builds the CLI and runs one order end to end.
func Mashup(subject string, count, duration int, recipient string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "run",
		"--subject", subject,
		"--count", fmt.Sprint(count),
		"--duration", fmt.Sprint(duration),
		"--recipient", recipient)
}

// Discover builds the CLI and lists the videos a run for subject would use.
func Discover(subject string, count int) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "discover",
		"--subject", subject,
		"--count", fmt.Sprint(count))
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	var prod, tests, words int
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") || d.Name() == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		switch ext := filepath.Ext(path); {
		case ext == ".go":
			n, err := countLines(path)
			if err != nil {
				return err
			}
			if strings.HasSuffix(path, "_test.go") {
				tests += n
			} else {
				prod += n
			}
		case ext == ".md":
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			words += len(bytes.Fields(data))
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)
	fmt.Printf("Words (documentation):           %d\n", words)
	return nil
}

// countLines counts non-blank lines in a file.
func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n, nil
}

func buildVersion() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return v
}
