package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Agent     AgentConfig
	Storage   StorageConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// BrowserConfig holds tab and frame behavior configuration.
type BrowserConfig struct {
	// LoadTimeout is the dead-man's switch for frame loads: if neither a
	// load-completed nor a load-failed signal arrives within this window,
	// the load is forced into the error state.
	LoadTimeout time.Duration `envconfig:"LOAD_TIMEOUT" default:"15s"`
	// ActionDelay is the settle time between actions in a batch.
	ActionDelay time.Duration `envconfig:"ACTION_DELAY" default:"500ms"`
	// SearchEngine is the URL template for search-query navigation; %s is
	// replaced with the percent-encoded query.
	SearchEngine string `envconfig:"SEARCH_ENGINE" default:"https://duckduckgo.com/?q=%s"`
	// ShellOrigin is the origin the shell itself is served from; frame
	// documents from any other origin are capability-denied.
	ShellOrigin  string        `envconfig:"SHELL_ORIGIN" default:""`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`
}

// AgentConfig holds LLM pipeline configuration.
type AgentConfig struct {
	DefaultProvider string        `envconfig:"LLM_PROVIDER" default:"local"`
	LocalAddress    string        `envconfig:"LLM_LOCAL_ADDR" default:"http://localhost:11434"`
	HostedAddress   string        `envconfig:"LLM_HOSTED_ADDR" default:"https://api.openai.com"`
	Model           string        `envconfig:"LLM_MODEL" default:"llama3"`
	APIKey          string        `envconfig:"LLM_API_KEY" default:""`
	RequestTimeout  time.Duration `envconfig:"LLM_TIMEOUT" default:"2m"`
}

// StorageConfig holds persistence locations.
type StorageConfig struct {
	SettingsPath  string `envconfig:"SETTINGS_PATH" default:"/tmp/glide/settings.toml"`
	WorkflowsPath string `envconfig:"WORKFLOWS_PATH" default:"/tmp/glide/workflows.yaml"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		Browser: BrowserConfig{
			LoadTimeout:  15 * time.Second,
			ActionDelay:  500 * time.Millisecond,
			SearchEngine: "https://duckduckgo.com/?q=%s",
			FetchTimeout: 10 * time.Second,
		},
		Agent: AgentConfig{
			DefaultProvider: "local",
			LocalAddress:    "http://localhost:11434",
			HostedAddress:   "https://api.openai.com",
			Model:           "llama3",
			RequestTimeout:  2 * time.Minute,
		},
		Storage: StorageConfig{
			SettingsPath:  "/tmp/glide/settings.toml",
			WorkflowsPath: "/tmp/glide/workflows.yaml",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
