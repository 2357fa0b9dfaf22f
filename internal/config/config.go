package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	AppName        = "speakturbo"
	AppDescription = "Ultra-fast streaming TTS for the terminal"

	ConfigDir      = ".config/speakturbo"
	ConfigFileName = "config.yml"

	DefaultDaemonURL   = "http://127.0.0.1:7125"
	DefaultVoice       = "alba"
	DefaultVolume      = 100
	DefaultMinBufferMs = 150

	MinVolume = 0
	MaxVolume = 100

	// EnvDaemonURL and EnvVoice override the config file; they are also
	// picked up from a .env file in the working directory.
	EnvDaemonURL = "SPEAKTURBO_URL"
	EnvVoice     = "SPEAKTURBO_VOICE"
)

// AppVersion can be overridden at build time using ldflags:
// go build -ldflags "-X github.com/speakturbo/speakturbo/internal/config.AppVersion=1.0.0"
var AppVersion = "dev"

// ClampVolume ensures volume is within the valid range [0, 100].
func ClampVolume(volume int) int {
	if volume < MinVolume {
		return MinVolume
	}
	if volume > MaxVolume {
		return MaxVolume
	}
	return volume
}

type Config struct {
	DaemonURL   string `yaml:"daemon_url"`
	Voice       string `yaml:"voice"`
	Volume      int    `yaml:"volume"`
	MinBufferMs int    `yaml:"min_buffer_ms"`
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ConfigDir, ConfigFileName), nil
}

// Load reads the config file, falling back to defaults when it is missing,
// then applies environment overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return applyEnv(cfg), err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return applyEnv(cfg), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return applyEnv(cfg), fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return applyEnv(DefaultConfig()), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Volume = ClampVolume(cfg.Volume)
	if cfg.DaemonURL == "" {
		cfg.DaemonURL = DefaultDaemonURL
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	if cfg.MinBufferMs <= 0 {
		cfg.MinBufferMs = DefaultMinBufferMs
	}

	return applyEnv(cfg), nil
}

func applyEnv(cfg *Config) *Config {
	if url := os.Getenv(EnvDaemonURL); url != "" {
		cfg.DaemonURL = url
	}
	if v := os.Getenv(EnvVoice); v != "" {
		cfg.Voice = v
	}
	return cfg
}

// Save writes the configuration to disk atomically using temp file + rename.
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpFile, err := os.CreateTemp(configDir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		return fmt.Errorf("failed to rename config file: %w", err)
	}

	tmpPath = "" // Prevent defer from removing the final file
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		DaemonURL:   DefaultDaemonURL,
		Voice:       DefaultVoice,
		Volume:      DefaultVolume,
		MinBufferMs: DefaultMinBufferMs,
	}
}
