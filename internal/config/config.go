package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user configuration directory under $HOME.
const DirName = ".autoeda"

// Global configuration structure.
type Global struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// Optional narrative summary
	SummaryEnabled   bool    `mapstructure:"summary_enabled" yaml:"summary_enabled"`
	SummaryProvider  string  `mapstructure:"summary_provider" yaml:"summary_provider"`
	SummaryModel     string  `mapstructure:"summary_model" yaml:"summary_model"`
	SummaryBaseURL   string  `mapstructure:"summary_base_url" yaml:"summary_base_url"`
	SummaryMaxTokens int     `mapstructure:"summary_max_tokens" yaml:"summary_max_tokens"`
	Temperature      float64 `mapstructure:"temperature" yaml:"temperature"`

	// Chart panel output
	ChartsEnabled bool   `mapstructure:"charts_enabled" yaml:"charts_enabled"`
	ChartsDir     string `mapstructure:"charts_dir" yaml:"charts_dir"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Local runtimes (Ollama)
	OllamaHost string `mapstructure:"ollama_host" yaml:"ollama_host"`

	// Interactive loop
	HistoryFile string `mapstructure:"history_file" yaml:"history_file"`
}

// providerKeyEnv maps providers to the conventional variable holding their key.
var providerKeyEnv = map[string]string{
	"openrouter": "OPENROUTER_API_KEY",
	"openai":     "OPENAI_API_KEY",
}

// ResolveAPIKey returns the credential for provider: the configured api_key
// (AUTOEDA_API_KEY) first, then the provider's own environment variable.
func (c *Global) ResolveAPIKey(provider string) string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if env, ok := providerKeyEnv[strings.ToLower(provider)]; ok {
		return os.Getenv(env)
	}
	return ""
}

// Dir returns ~/.autoeda.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// LoadDotEnv loads KEY=VALUE pairs from path (".env" when empty) into the
// process environment without overriding variables already set. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.autoeda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (AUTOEDA_*) > config file > defaults; flags are applied by
// the caller on top.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("AUTOEDA")
	v.AutomaticEnv()

	v.SetDefault("api_key", "")
	v.SetDefault("summary_enabled", false)
	v.SetDefault("summary_provider", "openrouter")
	// empty selects the provider's default model
	v.SetDefault("summary_model", "")
	v.SetDefault("summary_base_url", "")
	v.SetDefault("summary_max_tokens", 256)
	v.SetDefault("temperature", 0.3)
	v.SetDefault("charts_enabled", true)
	v.SetDefault("charts_dir", "eda_charts")
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("history_file", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.HistoryFile == "" {
		if dir, err := Dir(); err == nil {
			c.HistoryFile = filepath.Join(dir, "history")
		}
	}
	return &c, nil
}
