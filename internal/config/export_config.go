package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
)

type ExportConfig struct {
	OutputDir       string  `mapstructure:"output_dir"`
	TopQueriesLimit int     `mapstructure:"top_queries_limit"`
	TopResultsLimit int     `mapstructure:"top_results_limit"`
	MaxColumnWidth  float64 `mapstructure:"max_column_width"`
	Schedule        string  `mapstructure:"schedule"`
}

func (ExportConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("export.output_dir", ".")
	v.SetDefault("export.top_queries_limit", 20)
	v.SetDefault("export.top_results_limit", 50)
	v.SetDefault("export.max_column_width", 50)
}

func (config ExportConfig) validate() error {
	var errs []error

	if config.TopQueriesLimit <= 0 {
		errs = append(errs, fmt.Errorf("top_queries_limit must be positive"))
	}
	if config.TopResultsLimit <= 0 {
		errs = append(errs, fmt.Errorf("top_results_limit must be positive"))
	}
	if config.MaxColumnWidth <= 0 {
		errs = append(errs, fmt.Errorf("max_column_width must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}
