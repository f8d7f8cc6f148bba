package config

import (
	"fmt"
	"github.com/spf13/viper"
	"strings"
)

type PromptsConfig struct {
	Dir                   string `mapstructure:"dir"`
	VariableExtraction    string `mapstructure:"variable_extraction"`
	DescriptionGeneration string `mapstructure:"description_generation"`
	RoleList              string `mapstructure:"role_list"`
	CompanyList           string `mapstructure:"company_list"`
}

func (PromptsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("prompts.dir", "./prompts")
	v.SetDefault("prompts.variable_extraction", "varible-extractor.md")
	v.SetDefault("prompts.description_generation", "extracted-variables-to-description.md")
	v.SetDefault("prompts.role_list", "job-description-to-role-list.md")
	v.SetDefault("prompts.company_list", "company-description-and-location-to-list.md")
}

func (config PromptsConfig) validate() error {

	var missingFields []string

	if config.VariableExtraction == "" {
		missingFields = append(missingFields, "variable_extraction")
	}
	if config.DescriptionGeneration == "" {
		missingFields = append(missingFields, "description_generation")
	}
	if config.RoleList == "" {
		missingFields = append(missingFields, "role_list")
	}
	if config.CompanyList == "" {
		missingFields = append(missingFields, "company_list")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	return nil
}
