package log

import "fmt"

// Config describes a logger declaratively, for wiring from flags or env.
type Config struct {
	// Level is the minimum level name: debug|info|warn|error|fatal.
	Level string `json:"level" yaml:"level"`
	// Format selects the formatter: text|json.
	Format string `json:"format" yaml:"format"`
}

// ApplyConfig builds a Logger from a Config. Zero values fall back to
// info-level text logging on stderr.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level := InfoLevel
	if cfg.Level != "" {
		l, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}
	var formatter Formatter
	switch cfg.Format {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}
	return NewLogger(
		WithLevel(level),
		WithFormatter(formatter),
		WithOutput(NewConsoleOutput()),
	), nil
}
