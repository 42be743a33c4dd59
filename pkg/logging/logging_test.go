package logging_test

import (
	"log/slog"
	"testing"

	"github.com/nhp-platform/catalog/pkg/logging"
)

func TestLevel_Validate(t *testing.T) {
	tests := []struct {
		level   logging.Level
		wantErr bool
	}{
		{logging.LevelDebug, false},
		{logging.LevelInfo, false},
		{logging.LevelWarn, false},
		{logging.LevelError, false},
		{logging.Level("verbose"), true},
		{logging.Level(""), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			err := tt.level.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLevel_ToSlogLevel(t *testing.T) {
	tests := []struct {
		level logging.Level
		want  slog.Level
	}{
		{logging.LevelDebug, slog.LevelDebug},
		{logging.LevelInfo, slog.LevelInfo},
		{logging.LevelWarn, slog.LevelWarn},
		{logging.LevelError, slog.LevelError},
		{logging.Level("bogus"), slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.ToSlogLevel(); got != tt.want {
				t.Errorf("ToSlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormat_Validate(t *testing.T) {
	tests := []struct {
		format  logging.Format
		wantErr bool
	}{
		{logging.FormatText, false},
		{logging.FormatJSON, false},
		{logging.Format("xml"), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			err := tt.format.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Finalize(t *testing.T) {
	var cfg logging.Config

	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.Level != logging.LevelInfo {
		t.Errorf("Level = %q, want info default", cfg.Level)
	}
	if cfg.Format != logging.FormatText {
		t.Errorf("Format = %q, want text default", cfg.Format)
	}
}

func TestConfig_Finalize_EnvOverride(t *testing.T) {
	t.Setenv(logging.EnvLogLevel, "debug")
	t.Setenv(logging.EnvLogFormat, "json")

	var cfg logging.Config

	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.Level != logging.LevelDebug {
		t.Errorf("Level = %q, want debug from environment", cfg.Level)
	}
	if cfg.Format != logging.FormatJSON {
		t.Errorf("Format = %q, want json from environment", cfg.Format)
	}
}
