package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "mashup-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// DiscoveryBackend identifies the video search provider.
type DiscoveryBackend string

const (
	BackendYouTubeAPI DiscoveryBackend = "youtube-api"
	BackendYtDlp      DiscoveryBackend = "yt-dlp"
)

// DiscoveryConfig holds settings for the discovery stage.
type DiscoveryConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Backend selects the search provider: youtube-api or yt-dlp.
	Backend DiscoveryBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// APIKey is the YouTube Data API key. Required by the youtube-api backend.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// YtDlpPath overrides the yt-dlp binary looked up on PATH.
	YtDlpPath string `json:"ytdlp_path,omitempty" yaml:"ytdlp_path,omitempty" mapstructure:"ytdlp_path"`
}

// AcquisitionConfig holds settings for the acquisition stage.
type AcquisitionConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxAttempts is the total number of attempts per locator (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// RetryBackoff is the fixed pause between attempts on one locator (default 5s).
	RetryBackoff time.Duration `json:"retry_backoff" yaml:"retry_backoff" mapstructure:"retry_backoff"`

	// Cooldown is the fixed pause between consecutive locators (default 1s).
	Cooldown time.Duration `json:"cooldown" yaml:"cooldown" mapstructure:"cooldown"`
}

// TransformConfig holds settings for trimming and merging.
type TransformConfig struct {
	// ClipDuration is the default length each asset is trimmed to, in whole
	// seconds, used when a run does not pass --duration.
	ClipDuration int `json:"clip_duration" yaml:"clip_duration" mapstructure:"clip_duration"`

	// OutputFormat is the merged track container: mp3 (default) or wav.
	OutputFormat string `json:"output_format" yaml:"output_format" mapstructure:"output_format"`

	// SampleRate is the merged track sample rate in Hz. Zero keeps the
	// rate of the first clip.
	SampleRate int `json:"sample_rate" yaml:"sample_rate" mapstructure:"sample_rate"`

	// FFmpegPath overrides the ffmpeg binary looked up on PATH.
	FFmpegPath string `json:"ffmpeg_path,omitempty" yaml:"ffmpeg_path,omitempty" mapstructure:"ffmpeg_path"`
}

// TLSPolicy controls how the mail transport upgrades the session.
type TLSPolicy string

const (
	TLSMandatory     TLSPolicy = "mandatory"
	TLSOpportunistic TLSPolicy = "opportunistic"
)

// MailConfig holds the mail transport settings. It is passed to the
// delivery stage at construction time.
type MailConfig struct {
	// Sender is the From address.
	Sender string `json:"sender" yaml:"sender" mapstructure:"sender"`

	// Username is the SMTP login. Defaults to Sender when empty.
	Username string `json:"username,omitempty" yaml:"username,omitempty" mapstructure:"username"`

	// Password is the SMTP credential.
	Password string `json:"-" yaml:"-" mapstructure:"password"`

	// Host is the SMTP server (default smtp.gmail.com).
	Host string `json:"host" yaml:"host" mapstructure:"host"`

	// Port is the SMTP submission port (default 587).
	Port int `json:"port" yaml:"port" mapstructure:"port"`

	// TLS selects mandatory or opportunistic STARTTLS.
	TLS TLSPolicy `json:"tls" yaml:"tls" mapstructure:"tls"`

	// Subject is the message subject line.
	Subject string `json:"subject" yaml:"subject" mapstructure:"subject"`

	// Timeout bounds the whole SMTP session.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// WorkspaceConfig controls run-scoped storage.
type WorkspaceConfig struct {
	// BaseDir is the parent directory for run directories (default os.TempDir()).
	BaseDir string `json:"base_dir" yaml:"base_dir" mapstructure:"base_dir"`

	// Keep leaves the run directory in place after the run.
	Keep bool `json:"keep" yaml:"keep" mapstructure:"keep"`

	// OutputDir, when set, receives a copy of the bundle before cleanup.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty" mapstructure:"output_dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Discovery   DiscoveryConfig   `json:"discovery" yaml:"discovery" mapstructure:"discovery"`
	Acquisition AcquisitionConfig `json:"acquisition" yaml:"acquisition" mapstructure:"acquisition"`
	Transform   TransformConfig   `json:"transform" yaml:"transform" mapstructure:"transform"`
	Mail        MailConfig        `json:"mail" yaml:"mail" mapstructure:"mail"`
	Workspace   WorkspaceConfig   `json:"workspace" yaml:"workspace" mapstructure:"workspace"`
}

const (
	DefaultUserAgent    = "mashup-engine/0.1"
	DefaultHTTPTimeout  = 60 * time.Second
	DefaultMaxAttempts  = 3
	DefaultRetryBackoff = 5 * time.Second
	DefaultCooldown     = 1 * time.Second
	DefaultOutputFormat = "mp3"
	DefaultSMTPHost     = "smtp.gmail.com"
	DefaultSMTPPort     = 587
	DefaultMailSubject  = "Your Mashup File"
	DefaultMailTimeout  = 2 * time.Minute
)

// DefaultPipelineConfig returns the configuration used when nothing is overridden.
func DefaultPipelineConfig() PipelineConfig {
	httpCfg := HTTPConfig{Timeout: DefaultHTTPTimeout, UserAgent: DefaultUserAgent}
	return PipelineConfig{
		Discovery: DiscoveryConfig{
			HTTPConfig: httpCfg,
			Backend:    BackendYouTubeAPI,
		},
		Acquisition: AcquisitionConfig{
			HTTPConfig:   httpCfg,
			MaxAttempts:  DefaultMaxAttempts,
			RetryBackoff: DefaultRetryBackoff,
			Cooldown:     DefaultCooldown,
		},
		Transform: TransformConfig{
			OutputFormat: DefaultOutputFormat,
		},
		Mail: MailConfig{
			Host:    DefaultSMTPHost,
			Port:    DefaultSMTPPort,
			TLS:     TLSMandatory,
			Subject: DefaultMailSubject,
			Timeout: DefaultMailTimeout,
		},
	}
}
