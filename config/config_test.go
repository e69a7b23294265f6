package config_test

import (
	"testing"

	"github.com/Skryldev/jpeg-decoder/config"
)

func TestDefaultValidates(t *testing.T) {
	if err := config.Validate(config.Default()); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"zero value", func(c *config.Config) { *c = config.Config{} }, false},
		{"negative chunk", func(c *config.Config) { c.ChunkSize = -1 }, true},
		{"negative limit", func(c *config.Config) { c.MaxImageBytes = -1 }, true},
		{"with limit", func(c *config.Config) { c.MaxImageBytes = 1 << 20 }, false},
		{"debug level", func(c *config.Config) { c.LogLevel = "debug" }, false},
		{"unknown level", func(c *config.Config) { c.LogLevel = "verbose" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := config.Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate: err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
