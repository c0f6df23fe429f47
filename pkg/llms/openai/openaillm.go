package openai

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/pkg/llms"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/quickai/pkg/llms", "openai")

// ErrMissingToken is returned when no API token is configured.
var ErrMissingToken = errors.New("openai: missing API key, set it in the LOVABLE_API_KEY or OPENAI_API_KEY environment variable")

// LLM is a chat model served by an OpenAI-compatible chat-completion endpoint.
type LLM struct {
	client  sdk.Client
	model   string
	baseURL string
}

var _ llms.Model = (*LLM)(nil)

// New returns a new OpenAI-compatible LLM.
func New(opts ...Option) (*LLM, error) {
	o := &options{
		token:        values.StringsCoalesce(os.Getenv(tokenEnvVarName), os.Getenv(openaiTokenEnvVarName)),
		model:        values.StringsCoalesce(os.Getenv(modelEnvVarName), DefaultModel),
		baseURL:      values.StringsCoalesce(os.Getenv(baseURLEnvVarName), DefaultBaseURL),
		organization: os.Getenv(organizationEnvVarName),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.token == "" {
		return nil, ErrMissingToken
	}
	if o.model == "" {
		return nil, errors.New("openai: model is required")
	}

	sdkOpts := []option.RequestOption{
		option.WithAPIKey(o.token),
		option.WithBaseURL(o.baseURL),
		option.WithMaxRetries(o.maxRetries),
	}
	if o.organization != "" {
		sdkOpts = append(sdkOpts, option.WithOrganization(o.organization))
	}
	if o.httpClient != nil {
		sdkOpts = append(sdkOpts, option.WithHTTPClient(o.httpClient))
	}

	return &LLM{
		client:  sdk.NewClient(sdkOpts...),
		model:   o.model,
		baseURL: o.baseURL,
	}, nil
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderOpenAI
}

// GetModelName implements the Model interface.
func (o *LLM) GetModelName() string {
	return o.model
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.NewCallOptions(llms.CallOptions{Model: o.model}, options...)

	chatMsgs, err := toChatMessages(messages)
	if err != nil {
		return nil, err
	}

	params := sdk.ChatCompletionNewParams{
		Model:    sdk.ChatModel(opts.Model),
		Messages: chatMsgs,
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = sdk.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		params.Temperature = sdk.Float(opts.Temperature)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"url", o.baseURL,
		"model", opts.Model,
		"messages", len(chatMsgs),
	)

	result, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "openai: failed to create chat completion")
	}
	if len(result.Choices) == 0 {
		return nil, llms.ErrEmptyResponse
	}

	choices := make([]*llms.ContentChoice, len(result.Choices))
	for i, c := range result.Choices {
		choices[i] = &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: string(c.FinishReason),
			GenerationInfo: map[string]any{
				"ID":           result.ID,
				"Model":        result.Model,
				"InputTokens":  result.Usage.PromptTokens,
				"OutputTokens": result.Usage.CompletionTokens,
				"TotalTokens":  result.Usage.TotalTokens,
			},
		}
	}
	return &llms.ContentResponse{Choices: choices}, nil
}

func toChatMessages(messages []llms.Message) ([]sdk.ChatCompletionMessageParamUnion, error) {
	res := make([]sdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llms.RoleSystem:
			res = append(res, sdk.SystemMessage(m.GetContent()))
		case llms.RoleHuman:
			res = append(res, sdk.UserMessage(m.GetContent()))
		case llms.RoleAI:
			res = append(res, sdk.AssistantMessage(m.GetContent()))
		default:
			return nil, errors.WithMessagef(llms.ErrUnexpectedRole, "openai: %v", m.Role)
		}
	}
	return res, nil
}
