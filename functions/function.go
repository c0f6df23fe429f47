package functions

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/callctx"
	"github.com/effective-security/quickai/pkg/llmfactory"
	"github.com/effective-security/quickai/pkg/llms"
	"github.com/effective-security/quickai/pkg/llmutils"
	"github.com/effective-security/quickai/pkg/metricskey"
	"github.com/effective-security/quickai/pkg/prompts"
	"github.com/effective-security/quickai/tools"
	"github.com/effective-security/xlog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/quickai", "functions")

// ErrInvalidRequest is returned when the body is not valid JSON.
var ErrInvalidRequest = errors.New("invalid request body")

// Option configures a Function.
type Option func(*Function)

// WithCallback sets the callback of the function.
func WithCallback(cb Callback) Option {
	return func(f *Function) {
		f.callback = cb
	}
}

// WithCallOptions sets the options of the model call.
func WithCallOptions(opts ...llms.CallOption) Option {
	return func(f *Function) {
		f.callOptions = append(f.callOptions, opts...)
	}
}

// Function is the remote invocation function of a tool.
type Function struct {
	tool        *tools.Tool
	factory     llmfactory.Factory
	prompt      prompts.ChatPromptTemplate
	callback    Callback
	callOptions []llms.CallOption
}

// New returns the function of the tool, the model is resolved by the
// factory from the tool_models mapping on every call.
func New(tool *tools.Tool, factory llmfactory.Factory, opts ...Option) *Function {
	f := &Function{
		tool:    tool,
		factory: factory,
		prompt:  tool.Prompt(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the function name, e.g. generate-article
func (f *Function) Name() string {
	return f.tool.Function
}

// Tool returns the catalog entry of the function.
func (f *Function) Tool() *tools.Tool {
	return f.tool
}

// Invoke runs the function on a JSON body and returns the JSON response,
// e.g. {"article": "..."}. The model is called exactly once.
func (f *Function) Invoke(ctx context.Context, body []byte) ([]byte, error) {
	name := f.Name()
	ctx, cc := callctx.Ensure(ctx, name)

	started := time.Now()
	defer metricskey.PerfFunctionCall.MeasureSince(started, name)

	if f.callback != nil {
		f.callback.OnFunctionStart(ctx, name, body)
	}

	res, err := f.invoke(ctx, body)
	if err != nil {
		metricskey.StatsFunctionCallsFailed.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.ERROR,
			"function", name,
			"request_id", cc.RequestID(),
			"status", "failed",
			"duration", time.Since(started).String(),
			"err", err.Error(),
		)
		if f.callback != nil {
			f.callback.OnFunctionError(ctx, name, err)
		}
		return nil, err
	}

	metricskey.StatsFunctionCallsSucceeded.IncrCounter(1, name)
	logger.ContextKV(ctx, xlog.INFO,
		"function", name,
		"request_id", cc.RequestID(),
		"status", "succeeded",
		"duration", time.Since(started).String(),
	)
	if f.callback != nil {
		f.callback.OnFunctionEnd(ctx, name, res)
	}
	return res, nil
}

func (f *Function) invoke(ctx context.Context, body []byte) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.WithStack(ErrInvalidRequest)
	}

	if f.tool.Stub {
		return f.echo(ctx, body)
	}

	if filename := gjson.GetBytes(body, "filename"); filename.Exists() {
		logger.ContextKV(ctx, xlog.DEBUG,
			"function", f.Name(),
			"filename", filename.String(),
		)
	}

	messages, err := f.prompt.FormatMessages(f.tool.BodyVars(body))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to format prompt")
	}

	text, err := f.generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	var result any = text
	if f.tool.Output == tools.OutputList {
		result = tools.ParseTitles(text)
	}
	return sjson.SetBytes([]byte(`{}`), f.tool.OutputKey, result)
}

func (f *Function) generate(ctx context.Context, messages []llms.Message) (string, error) {
	name := f.Name()
	model, err := f.factory.ToolModel(name)
	if err != nil {
		return "", errors.WithMessage(err, "failed to get model")
	}
	modelName := model.GetModelName()

	if cc := callctx.Get(ctx); cc != nil {
		cc.SetMetadata("model", modelName)
	}
	if f.callback != nil {
		f.callback.OnLLMCallStart(ctx, name, model, messages)
	}

	metricskey.StatsLLMBytesSent.IncrCounter(float64(llmutils.CountMessagesContentSize(messages)), name, modelName)

	resp, err := model.GenerateContent(ctx, messages, f.callOptions...)
	if err != nil {
		return "", err
	}

	if f.callback != nil {
		f.callback.OnLLMCallEnd(ctx, name, model, resp)
	}

	metricskey.StatsLLMBytesReceived.IncrCounter(float64(llmutils.CountResponseContentSize(resp)), name, modelName)
	tokensIn, tokensOut, _ := llmutils.CountTokens(resp)
	metricskey.StatsLLMInputTokens.IncrCounter(float64(tokensIn), name, modelName)
	metricskey.StatsLLMOutputTokens.IncrCounter(float64(tokensOut), name, modelName)

	return resp.FirstContent()
}

// echo returns the submitted file unchanged.
func (f *Function) echo(ctx context.Context, body []byte) ([]byte, error) {
	logger.ContextKV(ctx, xlog.WARNING,
		"function", f.Name(),
		"reason", "stub",
		"message", "the image is returned unchanged",
	)

	var image string
	if f.tool.File != nil {
		image = gjson.GetBytes(body, f.tool.File.Field).String()
	}
	return sjson.SetBytes([]byte(`{}`), f.tool.OutputKey, image)
}
