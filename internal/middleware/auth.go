package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/breaks/api/transport"
	"github.com/fastygo/breaks/domain"
	"github.com/fastygo/breaks/pkg/httpcontext"
	"github.com/fastygo/breaks/pkg/sessiontoken"
)

// LoginPath is where anonymous browser requests are sent.
const LoginPath = "/login/"

// SessionLookup resolves a stored session; implemented by the auth use case.
type SessionLookup interface {
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
}

type SessionAuthConfig struct {
	CookieName   string
	CookieSecure bool
	Signer       *sessiontoken.Signer
	Sessions     SessionLookup
	Timeout      time.Duration
	Logger       *zap.Logger
}

// SessionAuth admits requests carrying a valid session cookie whose session
// is still in the store, and records the caller's identity on the request.
func SessionAuth(cfg SessionAuthConfig) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	adapter := httpcontext.NewAdapter(cfg.Timeout)

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			raw := string(ctx.Request.Header.Cookie(cfg.CookieName))
			if raw == "" {
				Unauthenticated(ctx)
				return
			}

			claims, err := cfg.Signer.Parse(raw)
			if err != nil {
				logger.Debug("rejected session token",
					zap.String("request_id", httpcontext.RequestID(ctx)), zap.Error(err))
				Unauthenticated(ctx)
				return
			}

			lookupCtx, cancel := adapter.Attach(ctx)
			session, err := cfg.Sessions.GetSession(lookupCtx, claims.SessionID)
			cancel()
			if err != nil {
				if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
					logger.Error("session lookup failed",
						zap.String("request_id", httpcontext.RequestID(ctx)), zap.Error(err))
				}
				Unauthenticated(ctx)
				return
			}
			if session.UserID != claims.UserID {
				Unauthenticated(ctx)
				return
			}

			if session.ExpiresAt.After(claims.Expiry().Add(time.Second)) {
				reissue(ctx, cfg, session, logger)
			}

			httpcontext.SetIdentity(ctx, session.ID, session.UserID, session.Username)
			next(ctx)
		}
	}
}

// reissue hands out a token matching a session whose expiry was extended.
func reissue(ctx *fasthttp.RequestCtx, cfg SessionAuthConfig, session *domain.Session, logger *zap.Logger) {
	token, err := cfg.Signer.Sign(session)
	if err != nil {
		logger.Warn("session token reissue failed",
			zap.String("request_id", httpcontext.RequestID(ctx)), zap.Error(err))
		return
	}
	httpcontext.SetSessionCookie(ctx, cfg.CookieName, token, session.ExpiresAt, cfg.CookieSecure)
}

// Unauthenticated answers 401 JSON to script clients and redirects browsers to the login page.
func Unauthenticated(ctx *fasthttp.RequestCtx) {
	if wantsJSON(ctx) {
		body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), "authentication required", nil))
		ctx.Response.Header.SetContentType("application/json")
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
		ctx.SetBody(body)
		return
	}
	next := string(ctx.Path())
	ctx.Redirect(LoginPath+"?next="+url.QueryEscape(next), fasthttp.StatusFound)
}

func wantsJSON(ctx *fasthttp.RequestCtx) bool {
	if bytes.EqualFold(ctx.Request.Header.Peek("X-Requested-With"), []byte("XMLHttpRequest")) {
		return true
	}
	return bytes.Contains(ctx.Request.Header.Peek(fasthttp.HeaderAccept), []byte("application/json"))
}
