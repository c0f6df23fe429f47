package llmfactory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/pkg/llms"
	"github.com/effective-security/quickai/pkg/llms/anthropic"
	"github.com/effective-security/quickai/pkg/llms/googleai"
	"github.com/effective-security/quickai/pkg/llms/openai"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/quickai/pkg", "llmfactory")

// NewLLM is a wrapper for CreateLLM to allow for overriding the default implementation.
var NewLLM = CreateLLM

//go:generate mockgen -source=factory.go -destination=../../mocks/mockllmfactory/factory_mock.gen.go -package mockllmfactory

// Factory is the interface for creating and managing LLM models.
type Factory interface {
	// DefaultModel returns the default LLM model.
	DefaultModel() (llms.Model, error)
	// ModelByType returns an LLM model by its type, e.g.
	// OPENAI, ANTHROPIC, GOOGLEAI
	ModelByType(providerType string) (llms.Model, error)
	// ModelByName returns an LLM model by its name,
	// if the model is not found, it will return the default model.
	ModelByName(preferredModels ...string) (llms.Model, error)
	// ToolModel returns the model configured for the tool.
	ToolModel(toolName string, preferredModels ...string) (llms.Model, error)
}

// Load returns the factory for the configuration file
func Load(location string) (Factory, error) {
	cfg, err := LoadConfig(location)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

type factory struct {
	cfg *Config

	defaultProvider *ProviderConfig
	toolModels      map[string][]string
	byType          map[string]llms.Model
	byName          map[string]llms.Model
	lock            sync.Mutex
}

// New creates a new LLM factory
func New(cfg *Config) Factory {
	f := &factory{
		cfg:        cfg,
		byType:     make(map[string]llms.Model),
		byName:     make(map[string]llms.Model),
		toolModels: make(map[string][]string),
	}

	for k, v := range cfg.ToolModels {
		f.toolModels[k] = slices.Clone(v)
	}

	if cfg.DefaultProvider != "" {
		for _, provider := range cfg.Providers {
			if provider.Name == cfg.DefaultProvider {
				f.defaultProvider = provider
				break
			}
		}
	}

	if f.defaultProvider == nil && len(f.cfg.Providers) > 0 {
		f.defaultProvider = f.cfg.Providers[0]
	}

	return f
}

// builder creates a model of one provider type for the resolved model name.
type builder func(cfg *ProviderConfig, model string) (llms.Model, error)

var builders = map[string]builder{
	"":          newOpenAI,
	"OPENAI":    newOpenAI,
	"OPEN_AI":   newOpenAI,
	"ANTHROPIC": newAnthropic,
	"GOOGLEAI":  newGoogleAI,
}

// CreateLLM creates a model for the provider.
// The gateway default is used when OpenAI.APIType is empty.
func CreateLLM(cfg *ProviderConfig, preferredModels ...string) (llms.Model, error) {
	provType := strings.ToUpper(cfg.OpenAI.APIType)
	build, ok := builders[provType]
	if !ok {
		return nil, errors.Errorf("unsupported provider type: %s", provType)
	}
	return build(cfg, cfg.FindModel(preferredModels...))
}

func newOpenAI(cfg *ProviderConfig, model string) (llms.Model, error) {
	opts := []openai.Option{openai.WithModel(model)}
	if cfg.Token != "" {
		opts = append(opts, openai.WithToken(cfg.Token))
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	if cfg.OpenAI.OrgID != "" {
		opts = append(opts, openai.WithOrganization(cfg.OpenAI.OrgID))
	}
	return openai.New(opts...)
}

func newAnthropic(cfg *ProviderConfig, model string) (llms.Model, error) {
	opts := []anthropic.Option{anthropic.WithModel(model)}
	if cfg.Token != "" {
		opts = append(opts, anthropic.WithToken(cfg.Token))
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return anthropic.New(opts...)
}

func newGoogleAI(cfg *ProviderConfig, model string) (llms.Model, error) {
	var opts []googleai.Option
	if model != "" {
		opts = append(opts, googleai.WithDefaultModel(model))
	}
	if cfg.Token != "" {
		opts = append(opts, googleai.WithAPIKey(cfg.Token))
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, googleai.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return googleai.New(context.Background(), opts...)
}

// DefaultModel returns the model of the default provider
func (f *factory) DefaultModel() (llms.Model, error) {
	if f.defaultProvider == nil {
		return nil, errors.New("no providers configured")
	}
	return NewLLM(f.defaultProvider, f.defaultProvider.DefaultModel)
}

// cached returns the model stored under key in the cache,
// or creates and stores a new one. Caller must hold the lock.
func (f *factory) cached(cache map[string]llms.Model, key string, cfg *ProviderConfig, models ...string) (llms.Model, error) {
	if model, ok := cache[key]; ok {
		return model, nil
	}
	model, err := NewLLM(cfg, models...)
	if err != nil {
		return nil, err
	}
	logger.KV(xlog.DEBUG,
		"status", "created_llm",
		"provider", cfg.Name,
		"type", cfg.OpenAI.APIType,
		"model", model.GetModelName())

	cache[key] = model
	return model, nil
}

func (f *factory) ModelByType(providerType string) (llms.Model, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	idx := slices.IndexFunc(f.cfg.Providers, func(p *ProviderConfig) bool {
		return p.OpenAI.APIType == providerType
	})
	if idx < 0 {
		return nil, errors.Errorf("provider not found for type: %s", providerType)
	}
	return f.cached(f.byType, providerType, f.cfg.Providers[idx])
}

func (f *factory) ModelByName(modelNames ...string) (llms.Model, error) {
	f.lock.Lock()
	for _, name := range modelNames {
		for _, cfg := range f.cfg.Providers {
			if !slices.Contains(cfg.AvailableModels, name) {
				continue
			}
			model, err := f.cached(f.byName, name, cfg, name)
			if err != nil {
				logger.KV(xlog.ERROR,
					"reason", "NewLLM",
					"provider", cfg.Name,
					"model", name,
					"err", err.Error())
				continue
			}
			f.lock.Unlock()
			return model, nil
		}
	}
	f.lock.Unlock()
	return f.DefaultModel()
}

// ToolModel returns the model for the tool.
func (f *factory) ToolModel(toolName string, preferredModels ...string) (llms.Model, error) {
	if modelNames, ok := f.toolModels[toolName]; ok {
		return f.ModelByName(modelNames...)
	}

	if modelNames, ok := f.toolModels["default"]; ok {
		return f.ModelByName(modelNames...)
	}

	return f.ModelByName(preferredModels...)
}
