// Package logger builds the zap loggers used by rayforce programs from a viper configuration.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetDefaults registers the defaults of the "logger" section
func SetDefaults(config *viper.Viper) {
	config.SetDefault("logger.level", "info")
	config.SetDefault("logger.stdout", true)
	config.SetDefault("logger.dir", "")
	config.SetDefault("logger.rotation", true)
	config.SetDefault("logger.maxsize", 100)
	config.SetDefault("logger.maxage", 7)
	config.SetDefault("logger.maxbackups", 3)
	config.SetDefault("logger.localtime", true)
	config.SetDefault("logger.compress", false)
}

// New builds a logger writing JSON lines to stdout and, when logger.dir is set, to
// {dir}/{name}.log. Call Sync on the returned logger before exiting.
func New(name string, config *viper.Viper) (*zap.Logger, error) {
	return newLogger(name, config, zapcore.Lock(os.Stdout))
}

func newLogger(name string, config *viper.Viper, stdout zapcore.WriteSyncer) (*zap.Logger, error) {
	SetDefaults(config)

	level, err := ParseLevel(config.GetString("logger.level"))
	if err != nil {
		return nil, err
	}

	var cores []zapcore.Core
	if config.GetBool("logger.stdout") {
		cores = append(cores, zapcore.NewCore(newJSONEncoder(), stdout, level))
	}

	if dir := config.GetString("logger.dir"); dir != "" {
		output, err := newFileSyncer(config, filepath.Join(dir, name+".log"))
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(newJSONEncoder(), output, level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	options := []zap.Option{zap.AddStacktrace(zap.ErrorLevel), zap.AddCaller()}
	return zap.New(zapcore.NewTee(cores...), options...).Named(name), nil
}

// ParseLevel accepts debug, info, warn and error, in any case
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logger level %q invalid, must be one of: DEBUG, INFO, WARN, or ERROR", level)
	}
}

func newFileSyncer(config *viper.Viper, fileName string) (zapcore.WriteSyncer, error) {
	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	if !config.GetBool("logger.rotation") {
		output, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, fmt.Errorf("could not create log file: %w", err)
		}
		return zapcore.Lock(output), nil
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    config.GetInt("logger.maxsize"),
		MaxAge:     config.GetInt("logger.maxage"),
		MaxBackups: config.GetInt("logger.maxbackups"),
		LocalTime:  config.GetBool("logger.localtime"),
		Compress:   config.GetBool("logger.compress"),
	}), nil
}

func newJSONEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})
}
