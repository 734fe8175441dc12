package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8070" {
		t.Errorf("Port = %q, want 8070", cfg.Port)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want 2", cfg.WorkerCount)
	}
	if cfg.MaxQueueSize != 20 {
		t.Errorf("MaxQueueSize = %d, want 20", cfg.MaxQueueSize)
	}
	if cfg.DefaultMaxChunkSize != 2000 {
		t.Errorf("DefaultMaxChunkSize = %d, want 2000", cfg.DefaultMaxChunkSize)
	}
	if cfg.SegmentBatchSize != 500 {
		t.Errorf("SegmentBatchSize = %d, want 500", cfg.SegmentBatchSize)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("JobTTL = %v, want 1h", cfg.JobTTL)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("PDFFallbackPdftotext should default to true")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("JOB_TTL", "30m")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("WorkerCount = %d, want 8", cfg.WorkerCount)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("JobTTL = %v, want 30m", cfg.JobTTL)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("PDFFallbackPdftotext = true, want false")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "not-a-number")
	t.Setenv("MAX_QUEUE_SIZE", "-5")

	cfg := Load()
	if cfg.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want default 2", cfg.WorkerCount)
	}
	if cfg.MaxQueueSize != 20 {
		t.Errorf("MaxQueueSize = %d, want default 20", cfg.MaxQueueSize)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{}
	if cfg.Validate() == nil {
		t.Error("empty config must not validate")
	}
	cfg.StoreAPIKey = "sk"
	if cfg.Validate() == nil {
		t.Error("missing admin key must not validate")
	}
	cfg.AdminAPIKey = "ak"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
