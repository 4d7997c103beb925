// Package config carries the runtime configuration shared by the CLI
// commands and the MCP server mode. Values merge from defaults, an
// optional config file, PDFXML_* environment variables and bound
// command line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultMappingFile    = "mapping_config.json"
	DefaultArchiveDirName = "extracted_xml"
	DefaultLogLevel       = "info"
	DefaultMaxFileSize    = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "PDFXML"

	configName = "pdfxml2csv"
)

// Config holds all configuration for pdfxml2csv.
type Config struct {
	// Processing configuration
	MappingFile    string
	OutputDir      string
	ArchiveDirName string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		MappingFile:    DefaultMappingFile,
		OutputDir:      currentDir,
		ArchiveDirName: DefaultArchiveDirName,
		Version:        "dev",
		ServerName:     "pdfxml2csv",
		LogLevel:       DefaultLogLevel,
		MaxFileSize:    DefaultMaxFileSize,
	}
}

// Setup wires viper defaults, the PDFXML_* environment and the optional
// config file (pdfxml2csv.yaml in the working directory or under
// ~/.config/pdfxml2csv). When configFile is non-empty it is used
// instead of the search path and must exist.
func Setup(configFile string) error {
	cfg := DefaultConfig()

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mapping", cfg.MappingFile)
	viper.SetDefault("outputdir", cfg.OutputDir)
	viper.SetDefault("archivedir", cfg.ArchiveDirName)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)

	if configFile != "" {
		viper.SetConfigFile(configFile)
		return viper.ReadInConfig()
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", configName))
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

// Load populates a Config from viper and validates it. The version
// string comes from the build, not from configuration.
func Load(version string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Version = version

	cfg.MappingFile = viper.GetString("mapping")
	cfg.OutputDir = viper.GetString("outputdir")
	cfg.ArchiveDirName = viper.GetString("archivedir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")

	if cfg.OutputDir != "" {
		if expandedPath, err := filepath.Abs(cfg.OutputDir); err == nil {
			cfg.OutputDir = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid, creating the output
// directory if it does not exist yet.
func (c *Config) Validate() error {
	if c.MappingFile == "" {
		return errors.New("mapping file cannot be empty")
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
	}

	if c.ArchiveDirName == "" {
		return errors.New("archive directory name cannot be empty")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// ArchiveRoot returns the directory that holds the per-run archive
// folders.
func (c *Config) ArchiveRoot() string {
	return filepath.Join(c.OutputDir, c.ArchiveDirName)
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{MappingFile: %s, OutputDir: %s, ArchiveDirName: %s, LogLevel: %s, MaxFileSize: %d}",
		c.MappingFile, c.OutputDir, c.ArchiveDirName, c.LogLevel, c.MaxFileSize)
}
