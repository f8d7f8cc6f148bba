package config

import (
	"errors"
	"fmt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"os"
)

type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Search  SearchConfig  `mapstructure:"search"`
	Prompts PromptsConfig `mapstructure:"prompts"`
	DB      DBConfig      `mapstructure:"db"`
	Export  ExportConfig  `mapstructure:"export"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

const defaultConfigFile = "./configs/config.yaml"

func Get() *Config {
	return mustLoad(Load)
}

// GetExport loads the configuration for the export command, which needs no API credentials.
func GetExport() *Config {
	return mustLoad(LoadExport)
}

func mustLoad(load func(file string) (*Config, error)) *Config {

	configFile := defaultConfigFile
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		configFile = value
	}

	config, err := load(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func Load(file string) (*Config, error) {
	return load(file, Config.validate)
}

// LoadExport validates only the sections the exporter reads: db, export and logger.
func LoadExport(file string) (*Config, error) {
	return load(file, Config.validateExport)
}

func load(file string, validate func(Config) error) (*Config, error) {

	v := viper.New()
	v.SetConfigFile(file)
	v.AutomaticEnv()

	setDefaults(v)

	err := bindEnvironmentVariables(v)
	if err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", file, err)
	}

	config := Config{}
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = validate(config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	LoggerConfig{}.setDefaults(v)
	LLMConfig{}.setDefaults(v)
	SearchConfig{}.setDefaults(v)
	PromptsConfig{}.setDefaults(v)
	DBConfig{}.setDefaults(v)
	ExportConfig{}.setDefaults(v)
}

func bindEnvironmentVariables(v *viper.Viper) error {
	var errs []error

	llm, search, db, logger, notify, metrics := LLMConfig{}, SearchConfig{}, DBConfig{}, LoggerConfig{},
		NotifyConfig{}, MetricsConfig{}

	if err := llm.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("LLMConfig: %w", err))
	}

	if err := search.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("SearchConfig: %w", err))
	}

	if err := db.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := notify.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("NotifyConfig: %w", err))
	}

	if err := metrics.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("MetricsConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.LLM.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LLMConfig: %w", err))
	}

	if err := config.Search.validate(); err != nil {
		errs = append(errs, fmt.Errorf("SearchConfig: %w", err))
	}

	if err := config.Prompts.validate(); err != nil {
		errs = append(errs, fmt.Errorf("PromptsConfig: %w", err))
	}

	if err := config.Export.validate(); err != nil {
		errs = append(errs, fmt.Errorf("ExportConfig: %w", err))
	}

	if err := config.Notify.validate(); err != nil {
		errs = append(errs, fmt.Errorf("NotifyConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validateExport() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.Export.validate(); err != nil {
		errs = append(errs, fmt.Errorf("ExportConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func bindAll(v *viper.Viper, bindings map[string]string) error {
	var errs []error
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
