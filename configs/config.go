package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "TODO"

type Config struct {
	App       AppConfig       `mapstructure:"app" yaml:"app"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Display   DisplayConfig   `mapstructure:"display" yaml:"display"`
	Reminders RemindersConfig `mapstructure:"reminders" yaml:"reminders"`
}

type AppConfig struct {
	Env string `mapstructure:"env" yaml:"env"` // "development", "testing", "production"
}

type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"` // "console" or "json"
	File       string `mapstructure:"file" yaml:"file"`     // empty logs to stderr
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

type DisplayConfig struct {
	DefaultSort string `mapstructure:"default_sort" yaml:"default_sort"`
	Color       bool   `mapstructure:"color" yaml:"color"`
}

type RemindersConfig struct {
	DueSoonDays   int  `mapstructure:"due_soon_days" yaml:"due_soon_days"`
	ShowOnStartup bool `mapstructure:"show_on_startup" yaml:"show_on_startup"`
}

// LoadConfig loads configuration from a YAML file, environment variables and flags.
// Flags take precedence over environment variables, which take precedence over the file.
//
// When configPath is empty the file is optional and searched for in:
// 1. Path from TODO_CONFIG_FILE environment variable
// 2. ./configs/config.yaml and ./config.yaml (relative to working directory)
// 3. <executable_dir>/configs/config.yaml and <executable_dir>/config.yaml
//
// An explicit configPath must exist.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath == "" {
		configPath = findConfigFile()
	} else if !fileExists(configPath) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Enable environment variable override
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// bindFlags maps command-line flags onto config keys
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"log.level":            "log-level",
		"log.file":             "log-file",
		"display.default_sort": "sort",
		"display.color":        "color",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// findConfigFile searches for config.yaml in the usual locations
func findConfigFile() string {
	if envPath := os.Getenv(envPrefix + "_CONFIG_FILE"); envPath != "" {
		if fileExists(envPath) {
			return envPath
		}
	}

	candidates := []string{
		"./configs/config.yaml",
		"./config.yaml",
	}

	if exeDir, err := getExecutableDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(exeDir, "configs", "config.yaml"),
			filepath.Join(exeDir, "config.yaml"),
		)
	}

	for _, candidate := range candidates {
		absPath, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if fileExists(absPath) {
			return absPath
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func getExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")

	// Keep the menu quiet unless asked otherwise
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 14)
	v.SetDefault("log.compress", false)

	v.SetDefault("display.default_sort", "none")
	v.SetDefault("display.color", true)

	v.SetDefault("reminders.due_soon_days", 7)
	v.SetDefault("reminders.show_on_startup", true)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	switch config.App.Env {
	case "development", "testing", "production":
	default:
		return fmt.Errorf("app.env must be development, testing, or production")
	}

	switch strings.ToLower(config.Log.Level) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("log.level %q is not a known level", config.Log.Level)
	}

	switch config.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json")
	}

	if config.Log.MaxSize <= 0 {
		return fmt.Errorf("log.max_size must be positive")
	}
	if config.Log.MaxBackups < 0 || config.Log.MaxAge < 0 {
		return fmt.Errorf("log.max_backups and log.max_age must be non-negative")
	}

	switch strings.ToLower(config.Display.DefaultSort) {
	case "", "none", "title", "priority", "due-date", "due":
	default:
		return fmt.Errorf("display.default_sort must be none, title, priority, or due-date")
	}

	if config.Reminders.DueSoonDays < 0 {
		return fmt.Errorf("reminders.due_soon_days must be non-negative")
	}

	return nil
}
