package callbacks

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/effective-security/quickai/callctx"
	"github.com/effective-security/quickai/pkg/llms"
	"github.com/effective-security/quickai/pkg/llmutils"
)

var TimeNowFn = time.Now

// RunStats are the counters of one function invocation.
type RunStats struct {
	RequestID string
	Function  string

	Duration        time.Duration
	TotalMessages   uint32
	LLMCalls        uint32
	LLMBytesOut     uint64
	LLMBytesIn      uint64
	LLMInputTokens  uint64
	LLMOutputTokens uint64
	LLMTotalTokens  uint64
	Succeeded       bool
	Failed          bool
}

// Scratchpad records a transcript and the stats of each invocation,
// keyed by the request ID of the call context.
type Scratchpad struct {
	runs map[string]*run
	mode Mode
	lock sync.Mutex
}

func NewScratchpad(mode Mode) *Scratchpad {
	return &Scratchpad{
		runs: make(map[string]*run),
		mode: mode,
	}
}

// StartRun starts recording the invocation of the call context.
func (l *Scratchpad) StartRun(ctx context.Context) {
	cc := callctx.Get(ctx)
	if cc == nil {
		return
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	r := &run{
		stats: RunStats{
			RequestID: cc.RequestID(),
			Function:  cc.Function(),
		},
		callCtx: cc,
		started: time.Now(),
	}
	l.runs[cc.RequestID()] = r
	r.print("*** Run Started ***")
}

// EndRun stops recording and returns the stats and the transcript.
func (l *Scratchpad) EndRun(ctx context.Context) (*RunStats, []byte) {
	r := l.getRun(ctx)
	if r == nil {
		return nil, nil
	}

	stats := r.stats
	stats.Duration = time.Since(r.started)

	r.print(fmt.Sprintf("LLM calls: %d, Messages: %d, Bytes Out: %d, Bytes In: %d, Input Tokens: %d, Output Tokens: %d, Total Tokens: %d",
		stats.LLMCalls,
		stats.TotalMessages,
		stats.LLMBytesOut,
		stats.LLMBytesIn,
		stats.LLMInputTokens,
		stats.LLMOutputTokens,
		stats.LLMTotalTokens,
	))
	r.print(fmt.Sprintf("*** Run Ended. Duration: %s ***", stats.Duration))

	l.lock.Lock()
	delete(l.runs, r.callCtx.RequestID())
	l.lock.Unlock()

	return &stats, r.w.Bytes()
}

func (l *Scratchpad) getRun(ctx context.Context) *run {
	cc := callctx.Get(ctx)
	if cc == nil {
		return nil
	}

	l.lock.Lock()
	defer l.lock.Unlock()
	return l.runs[cc.RequestID()]
}

func (l *Scratchpad) OnFunctionStart(ctx context.Context, function string, body []byte) {
	r := l.getRun(ctx)
	if r == nil {
		return
	}
	r.print(function, "*** Function Start ***")
	if l.mode == ModeVerbose {
		r.print(function, "Input:", string(body))
	}
}

func (l *Scratchpad) OnFunctionEnd(ctx context.Context, function string, result []byte) {
	r := l.getRun(ctx)
	if r == nil {
		return
	}
	r.lock.Lock()
	r.stats.Succeeded = true
	r.lock.Unlock()

	if l.mode == ModeVerbose {
		r.print(function, "Output:", string(result))
	}
	r.print(function, "*** Function End ***")
}

func (l *Scratchpad) OnFunctionError(ctx context.Context, function string, err error) {
	r := l.getRun(ctx)
	if r == nil {
		return
	}
	r.lock.Lock()
	r.stats.Failed = true
	r.lock.Unlock()

	r.print(function, "*** Error ***", err.Error())
}

func (l *Scratchpad) OnLLMCallStart(ctx context.Context, function string, llm llms.Model, payload []llms.Message) {
	r := l.getRun(ctx)
	if r == nil {
		return
	}

	count := uint32(len(payload))
	atomic.AddUint32(&r.stats.LLMCalls, 1)
	atomic.AddUint32(&r.stats.TotalMessages, count)
	atomic.AddUint64(&r.stats.LLMBytesOut, llmutils.CountMessagesContentSize(payload))

	r.print(function, "*** LLM Call ***", fmt.Sprintf("%s model, %d messages", llm.GetModelName(), count))
	if l.mode == ModeVerbose {
		var buf bytes.Buffer
		llmutils.PrintMessages(&buf, payload)
		r.print(function, buf.String())
	}
}

func (l *Scratchpad) OnLLMCallEnd(ctx context.Context, function string, llm llms.Model, resp *llms.ContentResponse) {
	r := l.getRun(ctx)
	if r == nil {
		return
	}

	tokensIn, tokensOut, tokensTotal := llmutils.CountTokens(resp)
	atomic.AddUint64(&r.stats.LLMBytesIn, llmutils.CountResponseContentSize(resp))
	atomic.AddUint64(&r.stats.LLMInputTokens, uint64(tokensIn))
	atomic.AddUint64(&r.stats.LLMOutputTokens, uint64(tokensOut))
	atomic.AddUint64(&r.stats.LLMTotalTokens, uint64(tokensTotal))

	r.print(function, "*** LLM Call End ***", fmt.Sprintf("%s model, %d input tokens, %d output tokens, %d total tokens", llm.GetModelName(), tokensIn, tokensOut, tokensTotal))
}

type run struct {
	callCtx callctx.CallContext
	w       bytes.Buffer
	started time.Time
	lock    sync.Mutex
	stats   RunStats
}

// print writes the entries to the run's output in the format:
// [timestamp requestID] entry entry\n
func (r *run) print(entries ...string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	ts := TimeNowFn().Format("2006-01-02 15:04:05")

	_, _ = r.w.WriteString(ts)
	_, _ = r.w.WriteString(" ")
	_, _ = r.w.WriteString(r.callCtx.RequestID())
	_, _ = r.w.WriteString(" ")

	for i, entry := range entries {
		if i > 0 {
			_, _ = r.w.WriteString(" ")
		}
		_, _ = r.w.WriteString(entry)
	}
	_, _ = r.w.WriteString("\n")
}
