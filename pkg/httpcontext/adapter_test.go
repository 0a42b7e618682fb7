package httpcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/breaks/pkg/logger"
)

func newCtx() *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI("/")
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	return ctx
}

func TestAttachPropagatesRequestID(t *testing.T) {
	ctx := newCtx()
	ctx.Request.Header.Set("X-Request-ID", "req-42")

	stdCtx, cancel := NewAdapter(time.Second).Attach(ctx)
	defer cancel()

	assert.Equal(t, "req-42", appLogger.RequestID(stdCtx))
	assert.Equal(t, "req-42", string(ctx.Response.Header.Peek("X-Request-ID")))

	deadline, ok := stdCtx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 200*time.Millisecond)
}

func TestRequestIDGeneratedOnce(t *testing.T) {
	ctx := newCtx()

	first := RequestID(ctx)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, RequestID(ctx))
}

func TestIdentity(t *testing.T) {
	ctx := newCtx()

	userID, username := Identity(ctx)
	assert.Empty(t, userID)
	assert.Empty(t, username)

	SetIdentity(ctx, "sid", "user-1", "alice")
	userID, username = Identity(ctx)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "alice", username)
	assert.Equal(t, "sid", SessionID(ctx))
}
