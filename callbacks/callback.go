package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/effective-security/quickai/functions"
	"github.com/effective-security/quickai/pkg/llms"
	"github.com/effective-security/xlog"
)

// ensure that the callbacks implement the correct interfaces
var (
	_ functions.Callback = (*Noop)(nil)
	_ functions.Callback = (*Printer)(nil)
	_ functions.Callback = (*PackageLogger)(nil)
	_ functions.Callback = (*Fanout)(nil)
	_ functions.Callback = (*Scratchpad)(nil)
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []functions.Callback
}

func NewFanout(callbacks ...functions.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback functions.Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnFunctionStart(ctx context.Context, function string, body []byte) {
	for _, callback := range l.callbacks {
		callback.OnFunctionStart(ctx, function, body)
	}
}

func (l *Fanout) OnFunctionEnd(ctx context.Context, function string, result []byte) {
	for _, callback := range l.callbacks {
		callback.OnFunctionEnd(ctx, function, result)
	}
}

func (l *Fanout) OnFunctionError(ctx context.Context, function string, err error) {
	for _, callback := range l.callbacks {
		callback.OnFunctionError(ctx, function, err)
	}
}

func (l *Fanout) OnLLMCallStart(ctx context.Context, function string, llm llms.Model, payload []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnLLMCallStart(ctx, function, llm, payload)
	}
}

func (l *Fanout) OnLLMCallEnd(ctx context.Context, function string, llm llms.Model, resp *llms.ContentResponse) {
	for _, callback := range l.callbacks {
		callback.OnLLMCallEnd(ctx, function, llm, resp)
	}
}

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnFunctionStart(ctx context.Context, function string, body []byte)  {}
func (l *Noop) OnFunctionEnd(ctx context.Context, function string, result []byte)  {}
func (l *Noop) OnFunctionError(ctx context.Context, function string, err error)    {}
func (l *Noop) OnLLMCallStart(ctx context.Context, function string, llm llms.Model, payload []llms.Message) {
}
func (l *Noop) OnLLMCallEnd(ctx context.Context, function string, llm llms.Model, resp *llms.ContentResponse) {
}

// Printer is a callback handler that prints to the Writer.
type Printer struct {
	Out  io.Writer
	Mode Mode

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{Out: out, Mode: mode}
}

func (l *Printer) OnFunctionStart(ctx context.Context, function string, body []byte) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Function Start: %s\n", function)
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Input: %s\n", body)
	}
}

func (l *Printer) OnFunctionEnd(ctx context.Context, function string, result []byte) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Function End: %s\n", function)
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Output: %s\n", result)
	}
}

func (l *Printer) OnFunctionError(ctx context.Context, function string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Function Error: %s: %s\n", function, err.Error())
}

func (l *Printer) OnLLMCallStart(ctx context.Context, function string, llm llms.Model, payload []llms.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "LLM Call: %s: %s model, %d messages\n", function, llm.GetModelName(), len(payload))
}

func (l *Printer) OnLLMCallEnd(ctx context.Context, function string, llm llms.Model, resp *llms.ContentResponse) {
	l.lock.Lock()
	defer l.lock.Unlock()
	choices := 0
	if resp != nil {
		choices = len(resp.Choices)
	}
	fmt.Fprintf(l.Out, "LLM Call End: %s: %s model, %d choices\n", function, llm.GetModelName(), choices)
}

// PackageLogger is a callback handler that prints to the logger.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnFunctionStart(ctx context.Context, function string, body []byte) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "function_start",
		"function", function,
		"size", len(body),
	)
}

func (l *PackageLogger) OnFunctionEnd(ctx context.Context, function string, result []byte) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "function_end",
		"function", function,
		"size", len(result),
	)
}

func (l *PackageLogger) OnFunctionError(ctx context.Context, function string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "function_error",
		"function", function,
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnLLMCallStart(ctx context.Context, function string, llm llms.Model, payload []llms.Message) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "llm_call_start",
		"function", function,
		"model", llm.GetModelName(),
		"messages", len(payload),
	)
}

func (l *PackageLogger) OnLLMCallEnd(ctx context.Context, function string, llm llms.Model, resp *llms.ContentResponse) {
	choices := 0
	if resp != nil {
		choices = len(resp.Choices)
	}
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "llm_call_end",
		"function", function,
		"model", llm.GetModelName(),
		"choices", choices,
	)
}
