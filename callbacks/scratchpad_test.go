package callbacks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/effective-security/quickai/callctx"
	"github.com/effective-security/quickai/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct{ name string }

func (m *fakeModel) GetProviderType() llms.ProviderType { return llms.ProviderGoogleAI }
func (m *fakeModel) GetModelName() string               { return m.name }
func (m *fakeModel) GenerateContent(context.Context, []llms.Message, ...llms.CallOption) (*llms.ContentResponse, error) {
	return nil, nil
}

func newTestCallContext() (context.Context, callctx.CallContext) {
	cc := callctx.New("req1", "generate-blog-titles")
	return callctx.WithCallContext(context.Background(), cc), cc
}

func TestScratchpad_StartRun_EndRun(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeVerbose)
	ctx, cc := newTestCallContext()
	sp.StartRun(ctx)

	r := sp.runs[cc.RequestID()]
	require.NotNil(t, r)
	r.stats.LLMCalls = 1
	r.stats.TotalMessages = 2
	r.stats.LLMBytesOut = 10
	r.stats.LLMBytesIn = 11

	stats, buf := sp.EndRun(ctx)
	require.NotNil(t, stats)
	assert.Equal(t, "req1", stats.RequestID)
	assert.Equal(t, "generate-blog-titles", stats.Function)
	assert.Contains(t, string(buf), "Run Started")
	assert.Contains(t, string(buf), "Run Ended")
	assert.Contains(t, string(buf), "LLM calls: 1, Messages: 2, Bytes Out: 10, Bytes In: 11")

	_, ok := sp.runs[cc.RequestID()]
	assert.False(t, ok)

	s2, _ := sp.EndRun(ctx)
	assert.Nil(t, s2)
}

func TestScratchpad_getRun_nil(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeDefault)
	assert.Nil(t, sp.getRun(context.Background()))

	// StartRun without a call context is ignored
	sp.StartRun(context.Background())
	assert.Empty(t, sp.runs)

	ctx, _ := newTestCallContext()
	assert.Nil(t, sp.getRun(ctx))
}

func TestScratchpad_OnCallbacks(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeVerbose)
	ctx, _ := newTestCallContext()
	sp.StartRun(ctx)

	llm := &fakeModel{name: "google/gemini-2.5-flash"}
	payload := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "sys"),
		llms.MessageFromTextParts(llms.RoleHuman, "foo"),
	}
	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:        "1. Foo\n2. Bar",
			GenerationInfo: map[string]any{"InputTokens": 3, "OutputTokens": 4, "TotalTokens": 7},
		}},
	}

	sp.OnFunctionStart(ctx, "generate-blog-titles", []byte(`{"keyword":"go"}`))
	sp.OnLLMCallStart(ctx, "generate-blog-titles", llm, payload)
	sp.OnLLMCallEnd(ctx, "generate-blog-titles", llm, resp)
	sp.OnFunctionEnd(ctx, "generate-blog-titles", []byte(`{"titles":["Foo","Bar"]}`))
	sp.OnFunctionError(ctx, "generate-blog-titles", errors.New("fail"))

	stats, output := sp.EndRun(ctx)
	require.NotNil(t, stats)
	assert.EqualValues(t, 1, stats.LLMCalls)
	assert.EqualValues(t, 2, stats.TotalMessages)
	assert.EqualValues(t, 3, stats.LLMInputTokens)
	assert.EqualValues(t, 4, stats.LLMOutputTokens)
	assert.EqualValues(t, 7, stats.LLMTotalTokens)
	assert.EqualValues(t, len("1. Foo\n2. Bar"), stats.LLMBytesIn)
	assert.True(t, stats.Succeeded)
	assert.True(t, stats.Failed)

	out := string(output)
	assert.Contains(t, out, "Function Start")
	assert.Contains(t, out, `Input: {"keyword":"go"}`)
	assert.Contains(t, out, "LLM Call *** google/gemini-2.5-flash model, 2 messages")
	assert.Contains(t, out, "Human: foo")
	assert.Contains(t, out, "3 input tokens, 4 output tokens, 7 total tokens")
	assert.Contains(t, out, `Output: {"titles":["Foo","Bar"]}`)
	assert.Contains(t, out, "*** Error *** fail")

	// no run: callbacks are ignored
	sp.OnFunctionStart(ctx, "generate-blog-titles", nil)
	sp.OnLLMCallStart(ctx, "generate-blog-titles", llm, nil)
	sp.OnLLMCallEnd(ctx, "generate-blog-titles", llm, nil)
	sp.OnFunctionEnd(ctx, "generate-blog-titles", nil)
	sp.OnFunctionError(ctx, "generate-blog-titles", errors.New("fail2"))
}

func Test_run_print_format(t *testing.T) {
	_, cc := newTestCallContext()
	r := &run{callCtx: cc}
	oldTimeFn := TimeNowFn
	TimeNowFn = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { TimeNowFn = oldTimeFn }()

	r.print("hello", "again")
	lines := strings.Split(r.w.String(), "\n")
	require.NotEmpty(t, lines[0])
	assert.Equal(t, "2024-01-01 12:00:00 req1 hello again", lines[0])
}
