// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/mashup-engine/internal/acquire"
	"github.com/pdiddy/mashup-engine/internal/audio"
	"github.com/pdiddy/mashup-engine/internal/deliver"
	"github.com/pdiddy/mashup-engine/internal/discover"
	"github.com/pdiddy/mashup-engine/internal/logging"
	"github.com/pdiddy/mashup-engine/internal/pipeline"
	"github.com/pdiddy/mashup-engine/internal/tool"
	"github.com/pdiddy/mashup-engine/pkg/types"
)

// setDefaults registers every configuration key so that MASHUP_* variables
// reach viper.Unmarshal even when no config file exists.
func setDefaults() {
	d := types.DefaultPipelineConfig()

	viper.SetDefault("discovery.backend", string(d.Discovery.Backend))
	viper.SetDefault("discovery.timeout", d.Discovery.Timeout)
	viper.SetDefault("discovery.user_agent", d.Discovery.UserAgent)
	viper.SetDefault("discovery.api_key", "")
	viper.SetDefault("discovery.ytdlp_path", "")

	viper.SetDefault("acquisition.timeout", d.Acquisition.Timeout)
	viper.SetDefault("acquisition.user_agent", d.Acquisition.UserAgent)
	viper.SetDefault("acquisition.max_attempts", d.Acquisition.MaxAttempts)
	viper.SetDefault("acquisition.retry_backoff", d.Acquisition.RetryBackoff)
	viper.SetDefault("acquisition.cooldown", d.Acquisition.Cooldown)

	viper.SetDefault("transform.clip_duration", d.Transform.ClipDuration)
	viper.SetDefault("transform.output_format", d.Transform.OutputFormat)
	viper.SetDefault("transform.sample_rate", d.Transform.SampleRate)
	viper.SetDefault("transform.ffmpeg_path", "")

	viper.SetDefault("mail.sender", "")
	viper.SetDefault("mail.username", "")
	viper.SetDefault("mail.password", "")
	viper.SetDefault("mail.host", d.Mail.Host)
	viper.SetDefault("mail.port", d.Mail.Port)
	viper.SetDefault("mail.tls", string(d.Mail.TLS))
	viper.SetDefault("mail.subject", d.Mail.Subject)
	viper.SetDefault("mail.timeout", d.Mail.Timeout)

	viper.SetDefault("workspace.base_dir", "")
	viper.SetDefault("workspace.keep", false)
	viper.SetDefault("workspace.output_dir", "")
}

// loadConfig merges defaults, config file, environment, bound flags, and
// .secrets/ into a PipelineConfig.
func loadConfig() (types.PipelineConfig, error) {
	cfg := types.DefaultPipelineConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	loadedSecrets.Apply(&cfg)
	return cfg, nil
}

// newPipeline wires production boundaries for cfg.
func newPipeline(cfg types.PipelineConfig) (*pipeline.Pipeline, error) {
	backend, err := discover.NewBackend(cfg.Discovery)
	if err != nil {
		return nil, err
	}
	if cfg.Discovery.Backend == types.BackendYtDlp {
		if _, err := tool.Require(tool.YtDlp(cfg.Discovery.YtDlpPath)); err != nil {
			return nil, err
		}
	}

	ffmpeg, err := tool.Require(tool.FFmpeg(cfg.Transform.FFmpegPath))
	if err != nil {
		if cfg.Transform.OutputFormat != audio.FormatWAV {
			return nil, err
		}
		logger.Warn("ffmpeg not found: only WAV and MP3 downloads can be decoded")
	}

	transport, err := deliver.NewSMTPTransport(cfg.Mail)
	if err != nil {
		return nil, err
	}
	logger.Debug("mail transport",
		"host", cfg.Mail.Host,
		"port", cfg.Mail.Port,
		"username", cfg.Mail.Username,
		"password", logging.SanitizeSecret(cfg.Mail.Password))

	return &pipeline.Pipeline{
		Config:    cfg,
		Backend:   backend,
		Source:    acquire.NewYouTubeSource(cfg.Acquisition),
		FFmpeg:    ffmpeg,
		Transport: transport,
		Logger:    logger,
	}, nil
}
