package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pbaille/biomixer/internal/domain"
	"github.com/pbaille/biomixer/internal/gateway"
)

// Config holds settings for both the server and the CLI client
type Config struct {
	DBPath   string         `yaml:"db_path"`
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Client   ClientConfig   `yaml:"client"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures `biomixer serve`
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// UpstreamConfig configures the model service. The API key is normally
// supplied through ANTHROPIC_API_KEY rather than the file.
type UpstreamConfig struct {
	APIKey         string `yaml:"api_key,omitempty"`
	BaseURL        string `yaml:"base_url"`
	APIVersion     string `yaml:"api_version"`
	DefaultModel   string `yaml:"default_model"`
	MaxTokens      int    `yaml:"max_tokens"`
	ThinkingBudget int    `yaml:"thinking_budget"`
	Timeout        string `yaml:"timeout"`
}

// ClientConfig configures how CLI commands reach the synthesis proxy.
// An empty ServerURL calls the upstream directly from the CLI process.
type ClientConfig struct {
	ServerURL string `yaml:"server_url"`
	Timeout   string `yaml:"timeout"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultDir returns ~/.biomixer
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".biomixer")
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		DBPath: filepath.Join(DefaultDir(), "biomixer.db"),
		Server: ServerConfig{
			Addr:      ":3001",
			StaticDir: "dist",
		},
		Upstream: UpstreamConfig{
			BaseURL:        gateway.DefaultBaseURL,
			APIVersion:     gateway.DefaultAPIVersion,
			DefaultModel:   domain.DefaultModel,
			MaxTokens:      gateway.DefaultMaxTokens,
			ThinkingBudget: gateway.DefaultThinkingBudget,
			Timeout:        gateway.DefaultTimeout.String(),
		},
		Client: ClientConfig{
			Timeout: "5m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file, then applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, omitting the API key
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	out := *c
	out.Upstream.APIKey = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Upstream.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_BASE_URL"); v != "" {
		c.Upstream.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("BIOMIXER_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("BIOMIXER_SERVER"); v != "" {
		c.Client.ServerURL = v
	}
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Upstream.Timeout); err != nil {
		return fmt.Errorf("upstream.timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Client.Timeout); err != nil {
		return fmt.Errorf("client.timeout: %w", err)
	}
	if c.Upstream.DefaultModel != "" && !domain.KnownModel(c.Upstream.DefaultModel) {
		return fmt.Errorf("upstream.default_model: unknown model %q", c.Upstream.DefaultModel)
	}
	return nil
}

// Gateway converts the upstream section to a gateway.Config
func (c *Config) Gateway() gateway.Config {
	timeout, _ := time.ParseDuration(c.Upstream.Timeout)
	return gateway.Config{
		APIKey:         c.Upstream.APIKey,
		BaseURL:        c.Upstream.BaseURL,
		APIVersion:     c.Upstream.APIVersion,
		DefaultModel:   c.Upstream.DefaultModel,
		MaxTokens:      c.Upstream.MaxTokens,
		ThinkingBudget: c.Upstream.ThinkingBudget,
		Timeout:        timeout,
	}
}

// ClientTimeout returns the parsed client timeout
func (c *Config) ClientTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Client.Timeout)
	return d
}
