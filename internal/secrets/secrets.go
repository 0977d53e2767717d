// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file holds one secret: the filename is the key and the trimmed
// contents are the value.
//
// Recognized keys: smtp-username, smtp-password, youtube-api-key.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/mashup-engine/pkg/types"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// Recognized key files.
const (
	KeySMTPUsername  = "smtp-username"
	KeySMTPPassword  = "smtp-password"
	KeyYouTubeAPIKey = "youtube-api-key"
)

// Secrets maps key file names to their values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty set. Unreadable files are logged and skipped.
func Load(dir string, logger *slog.Logger) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if logger != nil {
				logger.Warn("could not read secret", "key", name, "error", err)
			}
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// Apply fills credentials that cfg leaves empty. Values already set by
// flags, environment, or the config file win.
func (s Secrets) Apply(cfg *types.PipelineConfig) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = s[key]
		}
	}
	fill(&cfg.Mail.Username, KeySMTPUsername)
	fill(&cfg.Mail.Password, KeySMTPPassword)
	fill(&cfg.Discovery.APIKey, KeyYouTubeAPIKey)
}
