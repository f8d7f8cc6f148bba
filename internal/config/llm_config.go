package config

import (
	"fmt"
	"github.com/spf13/viper"
	"strings"
	"time"
)

type LLMProvider string

const (
	ProviderGroq   LLMProvider = "groq"
	ProviderGemini LLMProvider = "gemini"
)

type LLMConfig struct {
	Provider             LLMProvider   `mapstructure:"provider"`
	APIURL               string        `mapstructure:"api_url"`
	APIKey               string        `mapstructure:"api_key"`
	Model                string        `mapstructure:"model"`
	Temperature          float32       `mapstructure:"temperature"`
	MaxTokens            int           `mapstructure:"max_tokens"`
	MaxRequestsPerMinute float32       `mapstructure:"max_requests_per_minute"`
	Timeout              time.Duration `mapstructure:"timeout"`
}

func (LLMConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", string(ProviderGroq))
	v.SetDefault("llm.api_url", "https://api.groq.com/openai/v1/chat/completions")
	v.SetDefault("llm.model", "llama3-8b-8192")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.timeout", 2*time.Minute)
}

func (config LLMConfig) validate() error {

	var missingFields []string

	if config.APIKey == "" {
		missingFields = append(missingFields, "api_key")
	}

	if config.Model == "" {
		missingFields = append(missingFields, "model")
	}

	if config.Provider == ProviderGroq && config.APIURL == "" {
		missingFields = append(missingFields, "api_url")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	if config.Provider != ProviderGroq && config.Provider != ProviderGemini {
		return fmt.Errorf("unknown provider %q", config.Provider)
	}

	if config.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}

	if config.MaxRequestsPerMinute < 0 {
		return fmt.Errorf("max_requests_per_minute must be non-negative")
	}

	return nil
}

func (config LLMConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"llm.provider": "LLM_PROVIDER",
		"llm.api_key":  "LLM_API_KEY",
		"llm.model":    "LLM_MODEL",
	})
}
