package config_test

import (
	"testing"

	"github.com/effective-security/quickai/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("QUICKAI_TEST_TOKEN", "secret")

	cfg, err := config.Load("testdata/quickai.yaml")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.ListenURL)
	assert.Equal(t, "/api/functions", cfg.Server.BasePath)
	assert.EqualValues(t, config.DefaultMaxBodySize, cfg.Server.MaxBodySize)

	require.Len(t, cfg.LLM.Providers, 1)
	p := cfg.LLM.Providers[0]
	assert.Equal(t, "secret", p.Token)
	assert.Equal(t, "google/gemini-2.5-flash", p.DefaultModel)
	assert.Equal(t, []string{"google/gemini-2.5-pro"}, cfg.LLM.ToolModels["analyze-resume"])
}

func TestLoadJSON(t *testing.T) {
	cfg, err := config.Load("testdata/quickai.json")
	require.NoError(t, err)
	assert.EqualValues(t, 1024, cfg.Server.MaxBodySize)
	assert.Equal(t, config.DefaultListenURL, cfg.Server.ListenURL)
	require.Len(t, cfg.LLM.Providers, 1)
	assert.Equal(t, config.DefaultProvider, cfg.LLM.Providers[0].Name)
}

func TestDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.ListenURL)
	assert.Equal(t, "/functions/v1", cfg.Server.BasePath)
	assert.EqualValues(t, 16*1024*1024, cfg.Server.MaxBodySize)

	assert.Equal(t, "LOVABLE", cfg.LLM.DefaultProvider)
	require.Len(t, cfg.LLM.Providers, 1)
	p := cfg.LLM.Providers[0]
	assert.Equal(t, "OPENAI", p.OpenAI.APIType)
	assert.Equal(t, "https://ai.gateway.lovable.dev/v1", p.OpenAI.BaseURL)
	assert.Empty(t, p.Token)
	assert.Equal(t, map[string][]string{"default": {"google/gemini-2.5-flash"}}, cfg.LLM.ToolModels)

	_, err = config.Load("testdata/missing.yaml")
	require.Error(t, err)
}
