package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/breaks/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

// User value keys set by the authentication middleware.
const (
	userValueUserID   = "auth.user_id"
	userValueUsername = "auth.username"
	userValueSession  = "auth.session_id"
)

const requestIDHeader = "X-Request-ID"

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := RequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

// RequestID returns the request's ID, assigning one (and echoing it in the
// response header) on first use.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if existing := string(ctx.Response.Header.Peek(requestIDHeader)); existing != "" {
		return existing
	}
	reqID := string(ctx.Request.Header.Peek(requestIDHeader))
	if strings.TrimSpace(reqID) == "" {
		reqID = uuid.NewString()
	}
	ctx.Response.Header.Set(requestIDHeader, reqID)
	return reqID
}

// SetIdentity records the authenticated caller on the request.
func SetIdentity(ctx *fasthttp.RequestCtx, sessionID, userID, username string) {
	ctx.SetUserValue(userValueSession, sessionID)
	ctx.SetUserValue(userValueUserID, userID)
	ctx.SetUserValue(userValueUsername, username)
}

// Identity returns the authenticated caller, or empty strings when the request is anonymous.
func Identity(ctx *fasthttp.RequestCtx) (userID, username string) {
	userID, _ = ctx.UserValue(userValueUserID).(string)
	username, _ = ctx.UserValue(userValueUsername).(string)
	return userID, username
}

// SessionID returns the session backing the current request, if any.
func SessionID(ctx *fasthttp.RequestCtx) string {
	sid, _ := ctx.UserValue(userValueSession).(string)
	return sid
}
