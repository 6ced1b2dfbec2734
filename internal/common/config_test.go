package common

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"DB_URL", "GRPC_ADDR", "OCR_ENGINE", "QUEUE_WORKERS", "WATCH_DIRS", "EXTRACT_DROP_BARE"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	if cfg.Server.GRPCAddr != ":8080" {
		t.Errorf("GRPCAddr = %q", cfg.Server.GRPCAddr)
	}
	if cfg.OCR.Engine != "tesseract" || cfg.OCR.DPI != 300 || !cfg.OCR.Grayscale {
		t.Errorf("OCR = %+v", cfg.OCR)
	}
	if cfg.Extract.DropBareRecords {
		t.Error("DropBareRecords default = true, want false")
	}
	if cfg.Watch.Dirs != nil {
		t.Errorf("Watch.Dirs = %v, want nil", cfg.Watch.Dirs)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_URL", "sqlite://file::memory:")
	t.Setenv("DB_MAX_CONNS", "7")
	t.Setenv("QUEUE_PROCESS_TIMEOUT", "45s")
	t.Setenv("EXTRACT_DROP_BARE", "true")
	t.Setenv("WATCH_DIRS", " /in , ,/scans ")
	t.Setenv("OCR_PSM", "not-a-number")

	cfg := LoadConfig()
	if cfg.Database.MaxConns != 7 {
		t.Errorf("MaxConns = %d", cfg.Database.MaxConns)
	}
	if cfg.Queue.ProcessTimeout != 45*time.Second {
		t.Errorf("ProcessTimeout = %v", cfg.Queue.ProcessTimeout)
	}
	if !cfg.Extract.DropBareRecords {
		t.Error("DropBareRecords = false")
	}
	if len(cfg.Watch.Dirs) != 2 || cfg.Watch.Dirs[0] != "/in" || cfg.Watch.Dirs[1] != "/scans" {
		t.Errorf("Watch.Dirs = %q", cfg.Watch.Dirs)
	}
	if cfg.OCR.PSM != 6 {
		t.Errorf("PSM = %d, want fallback 6", cfg.OCR.PSM)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{DSN: "x"},
			Server:   ServerConfig{GRPCAddr: ":1"},
			OCR:      OCRConfig{Engine: "tesseract"},
			Queue:    QueueConfig{Workers: 1},
		}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no dsn", func(c *Config) { c.Database.DSN = "" }},
		{"no grpc addr", func(c *Config) { c.Server.GRPCAddr = "" }},
		{"bad engine", func(c *Config) { c.OCR.Engine = "paddle" }},
		{"no workers", func(c *Config) { c.Queue.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Validate() = %v, want ErrInvalidInput", err)
			}
		})
	}
	if err := base().Validate(); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}
}
