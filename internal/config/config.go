package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "bear-tunes"

// Tag writer backends
const (
	BackendTools  = "tools"
	BackendNative = "native"
)

// LameConfig holds the MP3 encoder settings used when converting FLAC files.
type LameConfig struct {
	BitrateMethod string `yaml:"bitrate_method"`
	Bitrate       int    `yaml:"bitrate"`
	MinBitrate    int    `yaml:"min_bitrate"`
	MaxBitrate    int    `yaml:"max_bitrate"`
	Quality       int    `yaml:"quality"`
	ChannelMode   string `yaml:"channel_mode"`
	ReplayGain    string `yaml:"replay_gain"`
}

// Config contains the program configuration
type Config struct {
	DomainURL                string     `yaml:"domain_url"`
	LengthDifferenceAccepted float64    `yaml:"length_difference_accepted"`
	FilenamePattern          string     `yaml:"filename_pattern"`
	DirectoryPattern         string     `yaml:"directory_pattern"`
	OutputDir                string     `yaml:"output_dir"`
	ASCIIFilenames           bool       `yaml:"ascii_filenames"`
	TagBackend               string     `yaml:"tag_backend"`
	ID3Versions              []string   `yaml:"id3_versions"`
	ConvertFLAC              bool       `yaml:"convert_flac"`
	DeleteFLAC               bool       `yaml:"delete_flac"`
	TransferTags             bool       `yaml:"transfer_tags"`
	Lame                     LameConfig `yaml:"lame"`
	Interactive              bool       `yaml:"interactive"`
	AssumeYes                bool       `yaml:"-"`
	Verbose                  bool       `yaml:"verbose"`
	DryRun                   bool       `yaml:"dry_run"`
	LogDir                   string     `yaml:"log_dir"`
	Listen                   string     `yaml:"listen"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DomainURL:                "https://www.beatport.com",
		LengthDifferenceAccepted: 3,
		FilenamePattern:          "%artists% - %title%",
		DirectoryPattern:         "%genre%/%artists%",
		TagBackend:               BackendTools,
		ID3Versions:              []string{"2.4", "1.1"},
		ConvertFLAC:              true,
		TransferTags:             true,
		Lame: LameConfig{
			BitrateMethod: "cbr",
			Bitrate:       320,
			MinBitrate:    128,
			MaxBitrate:    320,
			Quality:       1,
			ChannelMode:   "j",
			ReplayGain:    "accurate",
		},
		Interactive: true,
		LogDir:      GetDefaultLogPath(),
		Listen:      ":8080",
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.OutputDir = ExpandHome(cfg.OutputDir)
	cfg.LogDir = ExpandHome(cfg.LogDir)

	return cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	locations := []string{
		"./bear-tunes.yaml",
		"./bear-tunes.yml",
	}
	if path, err := xdg.SearchConfigFile(filepath.Join(appName, "config.yaml")); err == nil {
		locations = append(locations, path)
	}
	locations = append(locations, filepath.Join(xdg.Home, ".bear-tunes.yaml"))

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// GetDefaultLogPath returns the default log directory path
func GetDefaultLogPath() string {
	return filepath.Join(xdg.StateHome, appName, "logs")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.DomainURL, "http://") && !strings.HasPrefix(c.DomainURL, "https://") {
		return fmt.Errorf("domain_url must start with http:// or https://")
	}

	if c.LengthDifferenceAccepted < 0 {
		return fmt.Errorf("length_difference_accepted cannot be negative, got %.2f", c.LengthDifferenceAccepted)
	}

	if strings.TrimSpace(c.FilenamePattern) == "" {
		return fmt.Errorf("filename_pattern cannot be empty")
	}
	if strings.TrimSpace(c.DirectoryPattern) == "" {
		return fmt.Errorf("directory_pattern cannot be empty")
	}

	if c.TagBackend != BackendTools && c.TagBackend != BackendNative {
		return fmt.Errorf("unknown tag_backend %q, valid backends: %s, %s", c.TagBackend, BackendTools, BackendNative)
	}

	if len(c.ID3Versions) == 0 {
		return fmt.Errorf("id3_versions cannot be empty")
	}
	validVersions := map[string]bool{"1.0": true, "1.1": true, "2.3": true, "2.4": true}
	for _, v := range c.ID3Versions {
		if !validVersions[v] {
			return fmt.Errorf("unsupported ID3 version %q, valid versions: 1.0, 1.1, 2.3, 2.4", v)
		}
	}

	return c.Lame.Validate()
}

// Validate checks the encoder settings
func (l *LameConfig) Validate() error {
	switch l.BitrateMethod {
	case "cbr", "abr":
		if l.Bitrate < 8 || l.Bitrate > 320 {
			return fmt.Errorf("lame bitrate must be between 8 and 320, got %d", l.Bitrate)
		}
	case "vbr":
		if l.MinBitrate > l.MaxBitrate {
			return fmt.Errorf("lame min_bitrate %d exceeds max_bitrate %d", l.MinBitrate, l.MaxBitrate)
		}
	default:
		return fmt.Errorf("unknown lame bitrate_method %q, valid methods: cbr, vbr, abr", l.BitrateMethod)
	}

	if l.Quality < 0 || l.Quality > 9 {
		return fmt.Errorf("lame quality must be between 0 and 9, got %d", l.Quality)
	}

	switch l.ChannelMode {
	case "j", "s", "m":
	default:
		return fmt.Errorf("unknown lame channel_mode %q, valid modes: j, s, m", l.ChannelMode)
	}

	switch l.ReplayGain {
	case "accurate", "fast", "none":
	default:
		return fmt.Errorf("unknown lame replay_gain %q, valid values: accurate, fast, none", l.ReplayGain)
	}

	return nil
}
