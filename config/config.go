// Package config provides the configuration of the QuickAI service.
package config

import (
	"github.com/effective-security/quickai/pkg/llmfactory"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
)

// Default values
const (
	DefaultListenURL   = ":8080"
	DefaultBasePath    = "/functions/v1"
	DefaultMaxBodySize = 16 * 1024 * 1024

	DefaultProvider = "LOVABLE"
	DefaultBaseURL  = "https://ai.gateway.lovable.dev/v1"
	DefaultModel    = "google/gemini-2.5-flash"
)

// Config of the service
type Config struct {
	Server Server            `json:"server" yaml:"server"`
	LLM    llmfactory.Config `json:"llm" yaml:"llm"`
}

// Server configuration of the functions server
type Server struct {
	// ListenURL is the address to listen on, e.g. :8080
	ListenURL string `json:"listen_url,omitempty" yaml:"listen_url,omitempty"`
	// BasePath is the path prefix of the functions
	BasePath string `json:"base_path,omitempty" yaml:"base_path,omitempty"`
	// MaxBodySize is the request body limit in bytes
	MaxBodySize int64 `json:"max_body_size,omitempty" yaml:"max_body_size,omitempty"`
}

// Load returns the configuration from the file,
// the defaults are used for an empty file name.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
			return nil, err
		}
	}
	cfg.SetDefaults()
	return cfg, nil
}

// SetDefaults fills the missing values.
// Without providers the OpenAI-compatible gateway is used,
// with the token from LOVABLE_API_KEY.
func (c *Config) SetDefaults() {
	c.Server.ListenURL = values.StringsCoalesce(c.Server.ListenURL, DefaultListenURL)
	c.Server.BasePath = values.StringsCoalesce(c.Server.BasePath, DefaultBasePath)
	if c.Server.MaxBodySize <= 0 {
		c.Server.MaxBodySize = DefaultMaxBodySize
	}

	if len(c.LLM.Providers) == 0 {
		c.LLM.Providers = []*llmfactory.ProviderConfig{
			{
				Name:            DefaultProvider,
				DefaultModel:    DefaultModel,
				AvailableModels: []string{DefaultModel},
				OpenAI: llmfactory.OpenAIConfig{
					APIType: "OPENAI",
					BaseURL: DefaultBaseURL,
				},
			},
		}
		c.LLM.DefaultProvider = DefaultProvider
	}
	if len(c.LLM.ToolModels) == 0 {
		c.LLM.ToolModels = map[string][]string{
			"default": {c.LLM.Providers[0].DefaultModel},
		}
	}
}
