package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DefaultMaxChunkSize bounds replayed delta content length when the
	// consumer does not pass max-chunk-size.
	DefaultMaxChunkSize int `json:"defaultMaxChunkSize" yaml:"defaultMaxChunkSize" env:"RELAY_DEFAULT_MAX_CHUNK_SIZE"`
	// WaitForQueryMinMs / WaitForQueryMaxMs clamp the consumer wait timeout.
	WaitForQueryMinMs int64 `json:"waitForQueryMinMs" yaml:"waitForQueryMinMs" env:"RELAY_WAIT_FOR_QUERY_MIN_MS"`
	WaitForQueryMaxMs int64 `json:"waitForQueryMaxMs" yaml:"waitForQueryMaxMs" env:"RELAY_WAIT_FOR_QUERY_MAX_MS"`
	// SubscriberBuffer is the buffered event capacity per subscriber.
	// A subscriber that falls this far behind is dropped.
	SubscriberBuffer int `json:"subscriberBuffer" yaml:"subscriberBuffer" env:"RELAY_SUB_BUF"`
	// IngestLineMaxBytes caps a single NDJSON ingest line.
	IngestLineMaxBytes int `json:"ingestLineMaxBytes" yaml:"ingestLineMaxBytes" env:"RELAY_INGEST_LINE_MAX_BYTES"`
	// FilterMaxLen bounds the consumer-supplied CEL filter expression.
	FilterMaxLen int `json:"filterMaxLen" yaml:"filterMaxLen" env:"RELAY_FILTER_MAX_LEN"`
	// MessagesPageLimit is the default page size for message listing.
	MessagesPageLimit int `json:"messagesPageLimit" yaml:"messagesPageLimit" env:"RELAY_MESSAGES_PAGE_LIMIT"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		DefaultMaxChunkSize: 50,
		WaitForQueryMinMs:   1000,
		WaitForQueryMaxMs:   300000,
		SubscriberBuffer:    1024,
		IngestLineMaxBytes:  1 << 20,
		FilterMaxLen:        2048,
		MessagesPageLimit:   100,
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
