package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
)

type LogLevel string

const (
	LevelInfo    LogLevel = "INFO"
	LevelDebug   LogLevel = "DEBUG"
	LevelWarning LogLevel = "WARNING"
	LevelError   LogLevel = "ERROR"
	LevelFatal   LogLevel = "FATAL"
)

type LoggerConfig struct {
	LogLevel     LogLevel `mapstructure:"log_level"`
	AppName      string   `mapstructure:"app_name"`
	LokiURL      string   `mapstructure:"loki_url"`
	LokiUser     string   `mapstructure:"loki_user"`
	LokiPassword string   `mapstructure:"loki_password"`
	OutputFile   string   `mapstructure:"output_file"`
}

func (LoggerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("logger.log_level", string(LevelInfo))
	v.SetDefault("logger.app_name", "lead-dorker")
	v.SetDefault("logger.output_file", "./logs/lead-dorker.log")
}

func (config LoggerConfig) validate() error {
	var errs []error

	if config.LogLevel == "" {
		errs = append(errs, fmt.Errorf("missing variable: log_level"))
	}
	if config.OutputFile == "" {
		errs = append(errs, fmt.Errorf("missing variable: output_file"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config LoggerConfig) bindEnvironmentVariables(v *viper.Viper) error {

	err := v.BindEnv("logger.loki_url", "LOKI_URL")
	if err != nil {
		return err
	}

	err = v.BindEnv("logger.loki_user", "LOKI_USER")
	if err != nil {
		return err
	}

	err = v.BindEnv("logger.loki_password", "LOKI_PASSWORD")
	if err != nil {
		return err
	}

	err = v.BindEnv("logger.app_name", "APP_NAME")
	if err != nil {
		return err
	}

	return v.BindEnv("logger.log_level", "LOG_LEVEL")
}
