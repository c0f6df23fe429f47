package functions

import (
	"context"

	"github.com/effective-security/quickai/pkg/llms"
)

//go:generate mockgen -source=callback.go -destination=../mocks/mockfunctions/callback_mock.gen.go -package mockfunctions

// Callback receives the events of function invocations.
type Callback interface {
	OnFunctionStart(ctx context.Context, function string, body []byte)
	OnFunctionEnd(ctx context.Context, function string, result []byte)
	OnFunctionError(ctx context.Context, function string, err error)
	OnLLMCallStart(ctx context.Context, function string, llm llms.Model, payload []llms.Message)
	OnLLMCallEnd(ctx context.Context, function string, llm llms.Model, resp *llms.ContentResponse)
}
