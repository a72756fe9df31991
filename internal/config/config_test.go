package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.DefaultMaxChunkSize != 50 {
		t.Fatalf("DefaultMaxChunkSize = %d", cfg.DefaultMaxChunkSize)
	}
	if cfg.WaitForQueryMinMs != 1000 || cfg.WaitForQueryMaxMs != 300000 {
		t.Fatalf("wait clamp = [%d, %d]", cfg.WaitForQueryMinMs, cfg.WaitForQueryMaxMs)
	}
	if cfg.SubscriberBuffer != 1024 {
		t.Fatalf("SubscriberBuffer = %d", cfg.SubscriberBuffer)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.yaml")
	body := "defaultMaxChunkSize: 80\nsubscriberBuffer: 16\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultMaxChunkSize != 80 {
		t.Fatalf("DefaultMaxChunkSize = %d", cfg.DefaultMaxChunkSize)
	}
	if cfg.SubscriberBuffer != 16 {
		t.Fatalf("SubscriberBuffer = %d", cfg.SubscriberBuffer)
	}
	// untouched fields keep defaults
	if cfg.WaitForQueryMaxMs != 300000 {
		t.Fatalf("WaitForQueryMaxMs = %d", cfg.WaitForQueryMaxMs)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.json")
	body := `{"ingestLineMaxBytes": 4096}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IngestLineMaxBytes != 4096 {
		t.Fatalf("IngestLineMaxBytes = %d", cfg.IngestLineMaxBytes)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("RELAY_SUB_BUF", "32")
	t.Setenv("RELAY_DEFAULT_MAX_CHUNK_SIZE", "10")
	cfg := Default()
	if err := FromEnv(&cfg); err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.SubscriberBuffer != 32 {
		t.Fatalf("SubscriberBuffer = %d", cfg.SubscriberBuffer)
	}
	if cfg.DefaultMaxChunkSize != 10 {
		t.Fatalf("DefaultMaxChunkSize = %d", cfg.DefaultMaxChunkSize)
	}
}
