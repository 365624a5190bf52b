// Package config loads the application configuration from defaults, an
// optional TOML file, and PULLSCOUT_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the application configuration.
type Config struct {
	GitHub struct {
		Token string `koanf:"token"`
	} `koanf:"github"`

	AI struct {
		Provider    string  `koanf:"provider"`
		APIKey      string  `koanf:"api_key"`
		BaseURL     string  `koanf:"base_url"`
		Model       string  `koanf:"model"`
		Temperature float64 `koanf:"temperature"`
		MaxTokens   int     `koanf:"max_tokens"`
	} `koanf:"ai"`

	Review struct {
		// Exclude lists path glob patterns filtered out of analysis.
		Exclude       []string      `koanf:"exclude"`
		BatchSize     int           `koanf:"batch_size"`
		BatchInterval time.Duration `koanf:"batch_interval"`
	} `koanf:"review"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

// Load loads the configuration from a file path (optional) layered under
// environment variables.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"github.token":          os.Getenv("GITHUB_TOKEN"),
		"ai.provider":           "openai",
		"ai.model":              "gpt-4o-mini",
		"ai.temperature":        0.2,
		"ai.max_tokens":         700,
		"review.batch_size":     20,
		"review.batch_interval": 1 * time.Second,
		"log.level":             "info",
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		for _, path := range []string{"./pullscout.toml", "$HOME/.pullscout.toml"} {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// PULLSCOUT_AI_API_KEY -> ai.api_key: only the first underscore is a
	// section separator, key names keep theirs.
	k.Load(env.Provider("PULLSCOUT_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "PULLSCOUT_"))
		if parts := strings.SplitN(s, "_", 2); len(parts) == 2 {
			return parts[0] + "." + parts[1]
		}
		return s
	}), nil)

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// Validate checks that the configuration can drive a run.
func Validate(config *Config) error {
	if config.GitHub.Token == "" {
		return fmt.Errorf("github token is required (github.token or GITHUB_TOKEN)")
	}
	if config.AI.Provider == "" {
		return fmt.Errorf("ai provider is required")
	}
	if config.AI.Model == "" {
		return fmt.Errorf("ai model is required")
	}
	if config.AI.APIKey == "" && config.AI.Provider != "ollama" {
		return fmt.Errorf("ai api_key is required for provider %s", config.AI.Provider)
	}
	if config.Review.BatchSize <= 0 {
		return fmt.Errorf("review batch_size must be positive")
	}
	return nil
}

// Init writes a sample configuration file.
func Init(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sample := `# PullScout Configuration

[github]
token = "your-github-token"

[ai]
provider = "openai"
api_key = "your-api-key"
model = "gpt-4o-mini"
temperature = 0.2
max_tokens = 700

[review]
exclude = ["**/*.lock", "vendor/**"]
batch_size = 20
batch_interval = "1s"
`

	return os.WriteFile(configPath, []byte(sample), 0644)
}
