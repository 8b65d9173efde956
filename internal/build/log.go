// Package build holds daemon bootstrap pieces shared by the binaries:
// version information and the logging stack (console plus rotating file).
package build

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
)

// LogConfig bundles the settings for the daemon's logging stack.
type LogConfig struct {
	// LogDir is where the rotating log file lives.
	LogDir string

	// Level is the textual log level, e.g. "debug" or "info".
	Level string

	// Rotator tunes the on-disk file rotation.
	Rotator *LogRotatorConfig
}

// DefaultLogConfig returns a LogConfig with sane defaults.
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Level:   "info",
		Rotator: DefaultLogRotatorConfig(),
	}
}

// SetupLogging builds the dual-stream logger: every record goes to stdout
// and to a gzip-rotated file under cfg.LogDir. The returned closer flushes
// the file stream and must be called on shutdown.
func SetupLogging(cfg *LogConfig) (*slog.Logger, func() error, error) {
	level, ok := btclog.LevelFromString(cfg.Level)
	if !ok {
		return nil, nil, fmt.Errorf("unknown log level %q", cfg.Level)
	}

	rotatorCfg := cfg.Rotator
	if rotatorCfg == nil {
		rotatorCfg = DefaultLogRotatorConfig()
	}
	rotatorCfg.LogDir = cfg.LogDir

	logWriter := NewRotatingLogWriter()
	if err := logWriter.InitLogRotator(rotatorCfg); err != nil {
		return nil, nil, err
	}

	consoleHandler := btclogv2.NewDefaultHandler(os.Stdout)
	fileHandler := btclogv2.NewDefaultHandler(logWriter)

	handlers := NewHandlerSet(consoleHandler, fileHandler)
	handlers.SetLevel(level)

	return slog.New(handlers), logWriter.Close, nil
}
