// Package client invokes the functions of a QuickAI server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/config"
	"github.com/effective-security/quickai/tools"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/tidwall/gjson"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/quickai", "client")

// Error is returned when the function responds with an error status.
type Error struct {
	StatusCode int
	// Message is the {"error"} value of the response, if any
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "function returned status " + http.StatusText(e.StatusCode)
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithBasePath sets the path prefix of the functions
func WithBasePath(path string) Option {
	return func(cl *Client) {
		cl.basePath = "/" + strings.Trim(path, "/")
	}
}

// WithHeader adds a header to all requests, e.g. authorization
func WithHeader(key, value string) Option {
	return func(cl *Client) {
		cl.headers.Set(key, value)
	}
}

// Client of the functions server
type Client struct {
	baseURL  string
	basePath string
	http     *http.Client
	headers  http.Header
}

// New returns a client for the server URL, e.g. http://localhost:8080
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		basePath: config.DefaultBasePath,
		http:     http.DefaultClient,
		headers:  make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke posts the request to the function and returns the JSON payload.
// The body is sent as is when it is []byte, otherwise it is encoded as JSON.
func (c *Client) Invoke(ctx context.Context, function string, body any) ([]byte, error) {
	var payload []byte
	switch v := body.(type) {
	case []byte:
		payload = v
	case nil:
		payload = []byte(`{}`)
	default:
		js, err := json.Marshal(v)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to encode request")
		}
		payload = js
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"function", function,
		"size", len(payload),
	)

	return c.do(ctx, http.MethodPost, c.basePath+"/"+function, payload)
}

// Tools returns the catalog of the server
func (c *Client) Tools(ctx context.Context) ([]*tools.Descriptor, error) {
	res, err := c.do(ctx, http.MethodGet, c.basePath+"/tools", nil)
	if err != nil {
		return nil, err
	}
	var list []*tools.Descriptor
	if err = json.Unmarshal(res, &list); err != nil {
		return nil, errors.WithMessage(err, "failed to decode tools")
	}
	return list, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	res, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to read response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := ""
		if gjson.ValidBytes(res) {
			msg = gjson.GetBytes(res, "error").String()
		}
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    values.StringsCoalesce(msg, strings.TrimSpace(string(res))),
		}
	}
	return res, nil
}
