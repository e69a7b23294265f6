package config

import (
	"errors"
	"time"
)

// Config controls decoder construction.  All fields have safe defaults so
// callers can start with Config{} and override only what they need.
type Config struct {
	// MaxImageBytes caps how much of the source stream is read; 0 = no limit.
	MaxImageBytes int64
	// ChunkSize is the streaming read size in bytes; default 32 KiB.
	ChunkSize int
	// ProbeTimeout bounds header parsing; 0 = no timeout.
	ProbeTimeout time.Duration
	// LogLevel is "debug", "info", "warn", or "error"; it feeds
	// hooks.NewDefaultLogger.  Empty means info.
	LogLevel string
}

// Default returns a Config populated with sensible production defaults.
func Default() Config {
	return Config{
		ChunkSize: 32 * 1024,
		LogLevel:  "info",
	}
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if c.ChunkSize < 0 {
		return errors.New("config: ChunkSize must not be negative")
	}
	if c.MaxImageBytes < 0 {
		return errors.New("config: MaxImageBytes must not be negative")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New("config: LogLevel must be debug, info, warn, or error")
	}
	return nil
}
