package config

import (
	"fmt"
	"github.com/spf13/viper"
)

type DBConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
}

func (DBConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("db.connection_string", "linkedin_leads.db")
}

func (config DBConfig) validate() error {
	if config.ConnectionString == "" {
		return fmt.Errorf("missing variable: db connection string")
	}
	return nil
}

func (config DBConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return v.BindEnv("db.connection_string", "DB_CONNECTION_STRING")
}
