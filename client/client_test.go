package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/client"
	"github.com/effective-security/quickai/config"
	"github.com/effective-security/quickai/functions"
	"github.com/effective-security/quickai/mocks/mockllmfactory"
	"github.com/effective-security/quickai/server"
	"github.com/effective-security/quickai/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestInvoke(t *testing.T) {
	title := gofakeit.Sentence(4)

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/functions/v1/generate-article", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		got = nil
		assert.NoError(t, json.Unmarshal(b, &got))
		_, _ = w.Write([]byte(`{"article":"text"}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL+"/", client.WithHTTPClient(srv.Client()), client.WithHeader("Authorization", "Bearer key"))
	res, err := c.Invoke(context.Background(), tools.FunctionGenerateArticle, &tools.ArticleRequest{Title: title, Length: tools.LengthLong})
	require.NoError(t, err)
	assert.JSONEq(t, `{"article":"text"}`, string(res))
	assert.Equal(t, map[string]any{"title": title, "length": "long"}, got)

	res, err = c.Invoke(context.Background(), tools.FunctionGenerateArticle, []byte(`{"title":"raw"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, res)
	assert.Equal(t, "raw", got["title"])

	_, err = c.Invoke(context.Background(), tools.FunctionGenerateArticle, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInvokeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fn/generate-image":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"status 402: payment required"}`))
		case "/fn/remove-object":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("bad gateway\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithBasePath("/fn/"))

	_, err := c.Invoke(context.Background(), tools.FunctionGenerateImage, &tools.ImageRequest{Prompt: "a fox"})
	require.Error(t, err)
	assert.EqualError(t, err, "status 402: payment required")
	var cerr *client.Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, http.StatusInternalServerError, cerr.StatusCode)

	_, err = c.Invoke(context.Background(), tools.FunctionRemoveObject, nil)
	assert.EqualError(t, err, "bad gateway")

	_, err = c.Invoke(context.Background(), "unknown", nil)
	assert.EqualError(t, err, "function returned status Not Found")

	_, err = c.Invoke(context.Background(), tools.FunctionGenerateImage, func() {})
	assert.ErrorContains(t, err, "failed to encode request")
}

func TestTools(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := server.New(config.Server{}, functions.NewRegistry(mockllmfactory.NewMockFactory(ctrl)))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	c := client.New(srv.URL)
	list, err := c.Tools(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 6)

	assert.Equal(t, tools.Article, list[0].Name)
	assert.Equal(t, tools.OutputList, list[1].Output)
	assert.True(t, list[3].Stub)
	require.NotNil(t, list[5].File)
	assert.EqualValues(t, tools.MaxResumeSize, list[5].File.MaxSize)
	require.NotNil(t, list[0].Schema)
	assert.Equal(t, "object", list[0].Schema.Parameters.Type)
}
