package llms

import (
	"context"
)

// ProviderType is the type of provider.
type ProviderType string

const (
	// ProviderAnthropic is the type of provider.
	ProviderAnthropic ProviderType = "ANTHROPIC"
	// ProviderGoogleAI is the type of provider.
	ProviderGoogleAI ProviderType = "GOOGLEAI"
	// ProviderOpenAI is the type of provider.
	// Any OpenAI-compatible chat-completion gateway is served by this type.
	ProviderOpenAI ProviderType = "OPENAI"
)

//go:generate mockgen -destination=../../mocks/mockllms/llm_mock.gen.go -package mockllms github.com/effective-security/quickai/pkg/llms Model

// Model is an interface models implement.
type Model interface {
	// GetProviderType returns the type of provider.
	GetProviderType() ProviderType
	// GetModelName returns the model identifier sent to the provider.
	GetModelName() string
	// GenerateContent asks the model to generate content from a sequence of
	// messages.
	GenerateContent(ctx context.Context, messages []Message, options ...CallOption) (*ContentResponse, error)
}

// Capability is a bitmask indicating supported features of an LLM provider.
type Capability uint64

const (
	// Basic text or chat generation
	CapabilityText Capability = 1 << iota

	// Multimodal (images, audio, etc.)
	CapabilityVision
	CapabilityImageGeneration

	// System prompt support
	CapabilitySystemPrompt
)

var providerCapabilities = map[ProviderType]Capability{
	ProviderOpenAI: CapabilityText |
		CapabilitySystemPrompt |
		CapabilityVision |
		CapabilityImageGeneration,

	ProviderAnthropic: CapabilityText |
		CapabilitySystemPrompt |
		CapabilityVision,

	ProviderGoogleAI: CapabilityText |
		CapabilitySystemPrompt |
		CapabilityVision |
		CapabilityImageGeneration,
}

func ProviderCapabilities(pt ProviderType) Capability {
	return providerCapabilities[pt]
}

func (p ProviderType) Supports(cap Capability) bool {
	return ProviderCapabilities(p)&cap != 0
}
