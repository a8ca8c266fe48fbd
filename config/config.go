package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no config
// path is given explicitly.
const EnvConfigPath = "BEATSYNC_CONFIG"

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

type Config struct {
	LogLevel int `yaml:"log_level"`

	Fetch   FetchConfig   `yaml:"fetch"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

type FetchConfig struct {
	UserAgents []string      `yaml:"user_agents"`
	Timeout    time.Duration `yaml:"timeout"`

	// Negative disables retries.
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`

	// Page cache, disabled when CacheDir is empty.
	CacheDir string        `yaml:"cache_dir"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type OutputConfig struct {
	// Format of written playlists: "json" or "csv"
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	// Type of storage: "local" or "gcs"
	Type string `yaml:"type"`

	// Local storage options
	OutputDir string `yaml:"output_dir"`

	// GCS storage options
	Bucket          string `yaml:"bucket"`
	ObjectPrefix    string `yaml:"object_prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}

	// Unmarshal the YAML data into the struct
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// LoadFromEnv loads path, or the file named by BEATSYNC_CONFIG when path is
// empty. Without either, the defaults are returned.
func LoadFromEnv(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Set defaults if not provided
func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}

	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}

	if c.Storage.OutputDir == "" {
		c.Storage.OutputDir = "output"
	}

	if c.Output.Format == "" {
		c.Output.Format = "json"
	}

	if len(c.Fetch.UserAgents) == 0 {
		c.Fetch.UserAgents = append([]string(nil), defaultUserAgents...)
	}

	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 30 * time.Second
	}

	if c.Fetch.MaxRetries == 0 {
		c.Fetch.MaxRetries = 3
	}

	if c.Fetch.BaseDelay == 0 {
		c.Fetch.BaseDelay = time.Second
	}

	if c.Fetch.CacheTTL == 0 {
		c.Fetch.CacheTTL = time.Hour
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "local":
	case "gcs":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for gcs storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	switch c.Output.Format {
	case "json", "csv":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}

	if c.Fetch.Timeout < 0 || c.Fetch.BaseDelay < 0 || c.Fetch.CacheTTL < 0 {
		return fmt.Errorf("fetch durations must not be negative")
	}

	return nil
}
