package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gopkg.in/natefinch/lumberjack.v2"

	"todo/configs"
)

const defaultProductionFile = "logs/todo.log"

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// Config defines logger configuration
type Config struct {
	Environment string // "development", "testing", "production"
	Level       string // "debug", "info", "warn", "error"
	Format      string // "console" or "json"; production always uses json
	// File logging configuration. Empty Filename logs to Writer, or stderr.
	Filename   string
	MaxSize    int  // Maximum size in megabytes
	MaxBackups int  // Maximum number of old log files to retain
	MaxAge     int  // Maximum number of days to retain old log files
	Compress   bool // Compress rotated files with gzip

	Writer io.Writer
}

// DefaultConfig returns default logger configuration based on environment
func DefaultConfig(env string) *Config {
	switch env {
	case "production", "prod":
		return &Config{
			Environment: "production",
			Level:       "info",
			Format:      "json",
			Filename:    defaultProductionFile,
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      14,
			Compress:    true,
		}
	case "testing", "test":
		return &Config{
			Environment: "testing",
			Level:       "debug",
			Format:      "console",
		}
	default: // development
		return &Config{
			Environment: "development",
			Level:       "warn",
			Format:      "console",
		}
	}
}

// FromSettings builds a logger configuration from the application config
func FromSettings(env string, lc configs.LogConfig) *Config {
	cfg := DefaultConfig(env)
	if lc.Level != "" {
		cfg.Level = lc.Level
	}
	if lc.Format != "" && cfg.Environment != "production" {
		cfg.Format = lc.Format
	}
	if lc.File != "" {
		cfg.Filename = lc.File
	}
	if lc.MaxSize > 0 {
		cfg.MaxSize = lc.MaxSize
	}
	cfg.MaxBackups = lc.MaxBackups
	cfg.MaxAge = lc.MaxAge
	cfg.Compress = cfg.Compress || lc.Compress
	return cfg
}

// InitFromConfig initializes the global logger from the loaded application config
func InitFromConfig(cfg *configs.Config) error {
	return Init(FromSettings(cfg.App.Env, cfg.Log))
}

// Init initializes the global logger with the given configuration.
// Only the first call has any effect.
func Init(cfg *Config) error {
	var err error
	once.Do(func() {
		var l *zap.Logger
		l, err = New(cfg)
		if err == nil {
			globalLogger = l
		}
	})
	return err
}

// New builds a standalone logger from cfg
func New(cfg *Config) (*zap.Logger, error) {
	level := parseLogLevel(cfg.Level)

	core := zapcore.NewCore(newEncoder(cfg), newSink(cfg), level)

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(
			zap.String("environment", cfg.Environment),
			zap.String("service", "todo"),
		),
	), nil
}

func newEncoder(cfg *Config) zapcore.Encoder {
	if cfg.Environment == "production" || cfg.Format == "json" {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(encoderConfig)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if cfg.Filename == "" && cfg.Writer == nil {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// newSink picks a rotating file, an explicit writer, or stderr
func newSink(cfg *Config) zapcore.WriteSyncer {
	if cfg.Filename != "" {
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}
	if cfg.Writer != nil {
		return zapcore.AddSync(cfg.Writer)
	}
	return zapcore.Lock(os.Stderr)
}

// parseLogLevel converts string log level to zapcore.Level
func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Get returns the global logger instance.
// Returns a no-op logger if not initialized.
func Get() *zap.Logger {
	if globalLogger != nil {
		return globalLogger
	}
	return zap.NewNop()
}

// With returns a logger with additional fields
func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}
