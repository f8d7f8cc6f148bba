package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"time"
)

type SearchConfig struct {
	APIURL            string        `mapstructure:"api_url"`
	APIKey            string        `mapstructure:"api_key"`
	ResultsPerQuery   int           `mapstructure:"results_per_query"`
	WindowSize        int           `mapstructure:"window_size"`
	SearchedPerWindow int           `mapstructure:"searched_per_window"`
	Pause             time.Duration `mapstructure:"pause"`
	IncludeDomains    []string      `mapstructure:"include_domains"`
	IncludeText       []string      `mapstructure:"include_text"`
	ExcludeText       []string      `mapstructure:"exclude_text"`
	Livecrawl         string        `mapstructure:"livecrawl"`
	Category          string        `mapstructure:"category"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

func (SearchConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("search.api_url", "https://api.exa.ai/search")
	v.SetDefault("search.results_per_query", 10)
	v.SetDefault("search.window_size", 20)
	v.SetDefault("search.searched_per_window", 5)
	v.SetDefault("search.pause", time.Second)
	v.SetDefault("search.include_domains", []string{"linkedin.com"})
	v.SetDefault("search.include_text", []string{"linkedin.com/in"})
	v.SetDefault("search.exclude_text", []string{"linkedin.com/company"})
	v.SetDefault("search.livecrawl", "fallback")
	v.SetDefault("search.category", "linkedin profile")
	v.SetDefault("search.timeout", time.Minute)
}

func (config SearchConfig) validate() error {
	var errs []error

	if config.APIKey == "" {
		errs = append(errs, fmt.Errorf("missing variable: api_key"))
	}
	if config.APIURL == "" {
		errs = append(errs, fmt.Errorf("missing variable: api_url"))
	}
	if config.ResultsPerQuery <= 0 {
		errs = append(errs, fmt.Errorf("results_per_query must be positive"))
	}
	if config.WindowSize <= 0 {
		errs = append(errs, fmt.Errorf("window_size must be positive"))
	}
	if config.SearchedPerWindow < 0 || config.SearchedPerWindow > config.WindowSize {
		errs = append(errs, fmt.Errorf("searched_per_window must be between 0 and window_size"))
	}
	if config.Pause < 0 {
		errs = append(errs, fmt.Errorf("pause must be non-negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config SearchConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"search.api_key": "SEARCH_API_KEY",
		"search.api_url": "SEARCH_API_URL",
	})
}
