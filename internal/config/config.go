// Package config loads the daemon configuration from the environment. All
// variables share the REPOREFEREE_ prefix; the resulting Config value is
// immutable and handed to each component at construction.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultListenAddr is the webhook listener address.
	DefaultListenAddr = ":8080"

	// DefaultLogDir is where rotating log files land.
	DefaultLogDir = "logs"

	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "info"

	envOwner          = "REPOREFEREE_OWNER"
	envDetectionRepos = "REPOREFEREE_DETECTION_REPOS"
	envModerationRepo = "REPOREFEREE_MODERATION_REPO"
	envAutomatic      = "REPOREFEREE_AUTOMATIC"
	envGitHubToken    = "REPOREFEREE_GITHUB_TOKEN"
	envWebhookSecret  = "REPOREFEREE_WEBHOOK_SECRET"
	envOpenAIKey      = "REPOREFEREE_OPENAI_API_KEY"
	envListenAddr     = "REPOREFEREE_LISTEN_ADDR"
	envLogDir         = "REPOREFEREE_LOG_DIR"
	envLogLevel       = "REPOREFEREE_LOG_LEVEL"
)

// ErrMissingSetting is returned when a mandatory environment variable is
// unset or empty.
var ErrMissingSetting = errors.New("missing configuration setting")

// Config is the full daemon configuration.
type Config struct {
	// Owner is the account owning every involved repository.
	Owner string

	// DetectionRepos are the monitored repository names, without owner.
	DetectionRepos []string

	// ModerationRepo hosts the moderation records.
	ModerationRepo string

	// Automatic enables fully automatic replies. Off means every reply
	// waits for moderator approval.
	Automatic bool

	// GitHubToken authenticates API writes.
	GitHubToken string

	// WebhookSecret verifies delivery signatures.
	WebhookSecret string

	// OpenAIAPIKey authenticates classification calls.
	OpenAIAPIKey string

	// ListenAddr is the webhook listener address.
	ListenAddr string

	// LogDir is the rotating log file directory.
	LogDir string

	// LogLevel is the textual log level, e.g. "debug" or "info".
	LogLevel string
}

// DefaultConfig returns a Config with defaults for the optional settings.
func DefaultConfig() Config {
	return Config{
		ListenAddr: DefaultListenAddr,
		LogDir:     DefaultLogDir,
		LogLevel:   DefaultLogLevel,
	}
}

// LoadFromEnv builds the configuration from REPOREFEREE_* environment
// variables, validating that every mandatory setting is present.
func LoadFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.Owner = os.Getenv(envOwner)
	cfg.ModerationRepo = os.Getenv(envModerationRepo)
	cfg.GitHubToken = os.Getenv(envGitHubToken)
	cfg.WebhookSecret = os.Getenv(envWebhookSecret)
	cfg.OpenAIAPIKey = os.Getenv(envOpenAIKey)
	cfg.DetectionRepos = splitRepos(os.Getenv(envDetectionRepos))

	if v := os.Getenv(envAutomatic); v != "" {
		automatic, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", envAutomatic,
				err)
		}
		cfg.Automatic = automatic
	}
	if v := os.Getenv(envListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(envLogDir); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that every mandatory setting is present.
func (c Config) Validate() error {
	mandatory := []struct {
		name  string
		empty bool
	}{
		{envOwner, c.Owner == ""},
		{envDetectionRepos, len(c.DetectionRepos) == 0},
		{envModerationRepo, c.ModerationRepo == ""},
		{envGitHubToken, c.GitHubToken == ""},
		{envWebhookSecret, c.WebhookSecret == ""},
		{envOpenAIKey, c.OpenAIAPIKey == ""},
	}
	for _, m := range mandatory {
		if m.empty {
			return fmt.Errorf("%w: %s", ErrMissingSetting, m.name)
		}
	}

	for _, repo := range c.DetectionRepos {
		if repo == c.ModerationRepo {
			return fmt.Errorf("moderation repo %q cannot also "+
				"be a detection repo", repo)
		}
	}

	return nil
}

// splitRepos parses the comma separated detection repo list.
func splitRepos(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if repo := strings.TrimSpace(part); repo != "" {
			out = append(out, repo)
		}
	}

	return out
}
