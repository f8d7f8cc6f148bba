package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfig = `
logger:
  log_level: DEBUG
  output_file: ./logs/test.log
llm:
  provider: groq
  api_key: file-llm-key
search:
  api_key: file-search-key
  window_size: 10
  searched_per_window: 3
db:
  connection_string: file.db
`

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func Test_Config_DefaultsAreApplied(t *testing.T) {

	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "llama3-8b-8192", cfg.LLM.Model)
	assert.Equal(t, float32(0.3), cfg.LLM.Temperature)
	assert.Equal(t, 2000, cfg.LLM.MaxTokens)
	assert.Equal(t, 10, cfg.Search.ResultsPerQuery)
	assert.Equal(t, time.Second, cfg.Search.Pause)
	assert.Equal(t, []string{"linkedin.com"}, cfg.Search.IncludeDomains)
	assert.Equal(t, "fallback", cfg.Search.Livecrawl)
	assert.Equal(t, 20, cfg.Export.TopQueriesLimit)
	assert.Equal(t, 50, cfg.Export.TopResultsLimit)
	assert.Equal(t, "varible-extractor.md", cfg.Prompts.VariableExtraction)
	assert.False(t, cfg.Notify.Enabled())
}

func Test_Config_FileValuesOverrideDefaults(t *testing.T) {

	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, LevelDebug, cfg.Logger.LogLevel)
	assert.Equal(t, 10, cfg.Search.WindowSize)
	assert.Equal(t, 3, cfg.Search.SearchedPerWindow)
	assert.Equal(t, "file.db", cfg.DB.ConnectionString)
}

func Test_Config_EnvironmentOverrideWorksCorrect(t *testing.T) {

	t.Setenv("LLM_API_KEY", "overrideLLMKey")
	t.Setenv("SEARCH_API_KEY", "overrideSearchKey")
	t.Setenv("DB_CONNECTION_STRING", "override.db")
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("TG_TOKEN", "token")
	t.Setenv("TG_CHAT_ID", "42")

	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "overrideLLMKey", cfg.LLM.APIKey)
	assert.Equal(t, "overrideSearchKey", cfg.Search.APIKey)
	assert.Equal(t, "override.db", cfg.DB.ConnectionString)
	assert.Equal(t, LevelError, cfg.Logger.LogLevel)
	assert.True(t, cfg.Notify.Enabled())
	assert.Equal(t, int64(42), cfg.Notify.TelegramChatID)
}

func Test_Config_MissingKeysAreReported(t *testing.T) {

	_, err := Load(writeConfig(t, "db:\n  connection_string: x.db\n"))
	require.Error(t, err)

	assert.Contains(t, err.Error(), "api_key")
}

func Test_Config_InvalidWindowIsRejected(t *testing.T) {

	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	cfg.Search.SearchedPerWindow = cfg.Search.WindowSize + 1
	assert.Error(t, cfg.Search.validate())
}

func Test_Config_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func unsetEnv(t *testing.T, keys ...string) {
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func Test_Config_ShippedConfigLoadsForExportWithoutAPIKeys(t *testing.T) {

	unsetEnv(t, "LLM_API_KEY", "SEARCH_API_KEY", "DB_CONNECTION_STRING")

	cfg, err := LoadExport("../../configs/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "linkedin_leads.db", cfg.DB.ConnectionString)
	assert.Equal(t, 20, cfg.Export.TopQueriesLimit)
	assert.Equal(t, 50, cfg.Export.TopResultsLimit)
	assert.Empty(t, cfg.LLM.APIKey)

	_, err = Load("../../configs/config.yaml")
	assert.ErrorContains(t, err, "api_key")
}

func Test_Config_ExportStillValidatesItsSections(t *testing.T) {

	_, err := LoadExport(writeConfig(t, "export:\n  top_queries_limit: -1\n"))

	assert.ErrorContains(t, err, "top_queries_limit")
}
