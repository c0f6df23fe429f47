package googleai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/effective-security/quickai/pkg/llms"
	"github.com/effective-security/quickai/pkg/llms/googleai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "env-key")

	llm, err := googleai.New(context.Background(), googleai.WithDefaultModel("google/gemini-2.5-flash"))
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderGoogleAI, llm.GetProviderType())
	assert.Equal(t, "gemini-2.5-flash", llm.GetModelName())
}

func TestGenerateContent(t *testing.T) {
	var (
		path string
		body map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "1. Boost Your Day\n"}, {"text": "2. Work Smarter"}]},
				"finishReason": "STOP"
			}],
			"usageMetadata": {"promptTokenCount": 3, "candidatesTokenCount": 2, "totalTokenCount": 5}
		}`))
	}))
	defer srv.Close()

	llm, err := googleai.New(context.Background(),
		googleai.WithAPIKey("fake-key"),
		googleai.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	resp, err := llm.GenerateContent(context.Background(), []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "You are a creative copywriter."),
		llms.MessageFromTextParts(llms.RoleHuman, "Generate 5 catchy blog titles."),
	}, llms.WithModel("google/gemini-2.5-flash"))
	require.NoError(t, err)

	text, err := resp.FirstContent()
	require.NoError(t, err)
	assert.Equal(t, "1. Boost Your Day\n2. Work Smarter", text)
	assert.Equal(t, "STOP", resp.Choices[0].StopReason)
	assert.EqualValues(t, 5, resp.Choices[0].GenerationInfo["TotalTokens"])

	assert.True(t, strings.HasSuffix(path, "/models/gemini-2.5-flash:generateContent"), path)
	assert.NotNil(t, body["systemInstruction"])
	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	assert.Len(t, contents, 1)
}

func TestGenerateContentErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	llm, err := googleai.New(context.Background(),
		googleai.WithAPIKey("fake-key"),
		googleai.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	_, err = llm.GenerateContent(context.Background(), []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "hello"),
	})
	assert.ErrorIs(t, err, googleai.ErrNoContentInResponse)

	_, err = llm.GenerateContent(context.Background(), []llms.Message{
		{Role: "tool", Parts: []llms.ContentPart{llms.TextPart("x")}},
	})
	assert.ErrorIs(t, err, llms.ErrUnexpectedRole)
}
