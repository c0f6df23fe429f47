package callctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallContext_Basics(t *testing.T) {
	t.Parallel()
	c := New("rid", "generate-article")
	require.NotNil(t, c)
	assert.Equal(t, "rid", c.RequestID())
	assert.Equal(t, "generate-article", c.Function())

	val, ok := c.GetMetadata("not-found")
	assert.Nil(t, val)
	assert.False(t, ok)
	c.SetMetadata("model", "google/gemini-2.5-flash")
	v, ok := c.GetMetadata("model")
	assert.True(t, ok)
	assert.Equal(t, "google/gemini-2.5-flash", v)
}

func TestNew_DefaultID(t *testing.T) {
	t.Parallel()
	c1 := New("", "generate-image")
	c2 := New("", "generate-image")
	assert.NotEmpty(t, c1.RequestID())
	assert.NotEqual(t, c1.RequestID(), c2.RequestID())
}

func TestContextPlumbing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert.Nil(t, Get(ctx))
	assert.Empty(t, GetRequestID(ctx))

	c := New("x", "analyze-resume")
	ctx = WithCallContext(ctx, c)
	assert.Equal(t, c, Get(ctx))
	assert.Equal(t, "x", GetRequestID(ctx))

	ctx2, c2 := Ensure(ctx, "other")
	assert.Equal(t, ctx, ctx2)
	assert.Equal(t, c, c2)

	ctx3, c3 := Ensure(context.Background(), "remove-object")
	assert.Equal(t, "remove-object", c3.Function())
	assert.Equal(t, c3.RequestID(), GetRequestID(ctx3))
}
