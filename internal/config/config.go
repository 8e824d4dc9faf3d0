// Package config loads the optional fsk2pass configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nvinuesa/fsk2pass/internal/model"
	"github.com/nvinuesa/fsk2pass/internal/pass"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "auto"
)

// Config holds the settings that may come from a configuration file.
// Command line flags take precedence over every field.
type Config struct {
	PassCommand string        `mapstructure:"pass_command"`
	Group       string        `mapstructure:"group"`
	Notes       bool          `mapstructure:"notes"`
	Force       bool          `mapstructure:"force"`
	Timeout     time.Duration `mapstructure:"timeout"`
	LogLevel    string        `mapstructure:"log_level"`
	LogFormat   string        `mapstructure:"log_format"`
}

// ErrConfig indicates that a configuration file could not be used.
type ErrConfig struct {
	Path string
	Err  error
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("config %q: %v", e.Path, e.Err)
}

func (e *ErrConfig) Unwrap() error {
	return e.Err
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opts := model.DefaultImportOptions()
	return &Config{
		PassCommand: pass.DefaultCommand,
		Group:       opts.Group,
		Notes:       opts.Notes,
		Force:       opts.Force,
		LogLevel:    defaultLogLevel,
		LogFormat:   defaultLogFormat,
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// returns Default(). Environment variables are not consulted.
func Load(path string) (*Config, error) {
	v := newViper()
	if path == "" {
		return decode(v, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &ErrConfig{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &ErrConfig{Path: path, Err: errors.New("is a directory")}
	}

	v.SetConfigFile(path)
	if ext := configType(path); ext != "" {
		v.SetConfigType(ext)
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, &ErrConfig{Path: path, Err: err}
	}

	return decode(v, path)
}

func newViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("pass_command", d.PassCommand)
	v.SetDefault("group", d.Group)
	v.SetDefault("notes", d.Notes)
	v.SetDefault("force", d.Force)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	return v
}

func decode(v *viper.Viper, path string) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &ErrConfig{Path: path, Err: err}
	}
	if cfg.Timeout < 0 {
		return nil, &ErrConfig{Path: path, Err: fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)}
	}
	return cfg, nil
}

// configType returns the viper config type for files without a recognised
// extension, such as ~/.fsk2passrc.
func configType(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "yaml", "yml", "json", "toml":
		return ""
	default:
		return "yaml"
	}
}
