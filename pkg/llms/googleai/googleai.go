// Package googleai implements a provider for Google AI Gemini models.
// See https://ai.google.dev/ for more details.
package googleai

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/pkg/llms"
	"google.golang.org/genai"
)

// ErrNoContentInResponse is returned when the response has no candidates.
var ErrNoContentInResponse = errors.New("no content in generation response")

// GoogleAI is a type that represents a Google AI API client.
type GoogleAI struct {
	client *genai.Client
	opts   Options
}

var _ llms.Model = (*GoogleAI)(nil)

// New creates a new GoogleAI client.
func New(ctx context.Context, opts ...Option) (*GoogleAI, error) {
	clientOptions := DefaultOptions()
	for _, opt := range opts {
		opt(&clientOptions)
	}
	clientOptions.EnsureAuthPresent()
	clientOptions.DefaultModel = modelName(clientOptions.DefaultModel)

	cfg := &genai.ClientConfig{
		APIKey:     clientOptions.APIKey,
		HTTPClient: clientOptions.HTTPClient,
		Backend:    genai.BackendGeminiAPI,
	}
	if clientOptions.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: clientOptions.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "googleai: failed to create client")
	}
	return &GoogleAI{
		client: client,
		opts:   clientOptions,
	}, nil
}

// GetProviderType implements the [llms.Model] interface.
func (g *GoogleAI) GetProviderType() llms.ProviderType {
	return llms.ProviderGoogleAI
}

// GetModelName implements the [llms.Model] interface.
func (g *GoogleAI) GetModelName() string {
	return g.opts.DefaultModel
}

// GenerateContent implements the [llms.Model] interface.
func (g *GoogleAI) GenerateContent(
	ctx context.Context,
	messages []llms.Message,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	opts := llms.NewCallOptions(llms.CallOptions{
		Model:     g.opts.DefaultModel,
		MaxTokens: g.opts.DefaultMaxTokens,
	}, options...)

	callCfg := &genai.GenerateContentConfig{}
	if opts.MaxTokens > 0 {
		callCfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.Temperature > 0 {
		callCfg.Temperature = genai.Ptr(float32(opts.Temperature))
	}

	system, rest := llms.SplitSystem(messages)
	if system != "" {
		callCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	history := make([]*genai.Content, 0, len(rest))
	for _, mc := range rest {
		switch mc.Role {
		case llms.RoleHuman:
			history = append(history, genai.NewContentFromText(mc.GetContent(), genai.RoleUser))
		case llms.RoleAI:
			history = append(history, genai.NewContentFromText(mc.GetContent(), genai.RoleModel))
		default:
			return nil, errors.WithMessagef(llms.ErrUnexpectedRole, "googleai: %v", mc.Role)
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, modelName(opts.Model), history, callCfg)
	if err != nil {
		return nil, errors.Wrap(err, "googleai: failed to generate content")
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrNoContentInResponse
	}
	return convertCandidates(resp.Candidates, resp.UsageMetadata), nil
}

// convertCandidates converts a sequence of genai.Candidate to a response.
func convertCandidates(candidates []*genai.Candidate, usage *genai.GenerateContentResponseUsageMetadata) *llms.ContentResponse {
	var contentResponse llms.ContentResponse
	for _, candidate := range candidates {
		var buf strings.Builder
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part != nil && !part.Thought {
					buf.WriteString(part.Text)
				}
			}
		}

		metadata := map[string]any{
			"Index": candidate.Index,
		}
		if usage != nil {
			metadata["InputTokens"] = usage.PromptTokenCount
			metadata["OutputTokens"] = usage.CandidatesTokenCount
			metadata["TotalTokens"] = usage.TotalTokenCount
		}

		contentResponse.Choices = append(contentResponse.Choices, &llms.ContentChoice{
			Content:        buf.String(),
			StopReason:     string(candidate.FinishReason),
			GenerationInfo: metadata,
		})
	}
	return &contentResponse
}

// modelName strips the vendor prefix used by OpenAI-compatible gateways.
func modelName(model string) string {
	return strings.TrimPrefix(model, "google/")
}
