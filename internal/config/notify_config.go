package config

import (
	"fmt"
	"github.com/spf13/viper"
)

type NotifyConfig struct {
	TelegramToken  string `mapstructure:"telegram_token"`
	TelegramChatID int64  `mapstructure:"telegram_chat_id"`
}

func (config NotifyConfig) Enabled() bool {
	return config.TelegramToken != ""
}

func (config NotifyConfig) validate() error {
	if config.TelegramToken != "" && config.TelegramChatID == 0 {
		return fmt.Errorf("missing variable: telegram_chat_id")
	}
	return nil
}

func (config NotifyConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"notify.telegram_token":   "TG_TOKEN",
		"notify.telegram_chat_id": "TG_CHAT_ID",
	})
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

func (config MetricsConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return v.BindEnv("metrics.address", "METRICS_ADDRESS")
}
