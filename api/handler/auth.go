package handler

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/breaks/api/transport"
	"github.com/fastygo/breaks/api/view"
	"github.com/fastygo/breaks/domain"
	"github.com/fastygo/breaks/pkg/httpcontext"
	"github.com/fastygo/breaks/pkg/sessiontoken"
)

// Authenticator opens and closes sessions; implemented by the auth use case.
type Authenticator interface {
	Login(ctx context.Context, username, password string, ttl time.Duration) (*domain.Session, error)
	RevokeSession(ctx context.Context, sessionID string) error
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	baseHandler
	uc       Authenticator
	signer   *sessiontoken.Signer
	renderer *view.Renderer
	cookie   CookieConfig
}

func NewAuthHandler(
	uc Authenticator,
	signer *sessiontoken.Signer,
	renderer *view.Renderer,
	cookie CookieConfig,
	adapter *httpcontext.Adapter,
	logger *zap.Logger,
) *AuthHandler {
	if cookie.TTL <= 0 {
		cookie.TTL = 24 * time.Hour
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		signer:      signer,
		renderer:    renderer,
		cookie:      cookie,
	}
}

func (h *AuthHandler) LoginPage(ctx *fasthttp.RequestCtx) {
	next := string(ctx.QueryArgs().Peek("next"))
	h.renderLogin(ctx, http.StatusOK, view.LoginPage{Next: next})
}

// Login verifies the credentials, sets the session cookie and redirects to next.
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	req, err := transport.ParseLogin(ctx)
	if err != nil {
		page := view.LoginPage{Username: req.Username, Error: publicMessage(err)}
		if transport.IsLocalPath(req.Next) {
			page.Next = req.Next
		}
		h.renderLogin(ctx, http.StatusBadRequest, page)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Login(stdCtx, req.Username, req.Password, h.cookie.TTL)
	if err != nil {
		status, _ := mapError(err)
		page := view.LoginPage{Username: req.Username, Next: req.Next, Error: publicMessage(err)}
		if status == http.StatusInternalServerError {
			h.logger.Error("login failed",
				zap.String("request_id", httpcontext.RequestID(ctx)), zap.Error(err))
			page.Error = "login is temporarily unavailable"
		}
		h.renderLogin(ctx, status, page)
		return
	}

	token, err := h.signer.Sign(session)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.setCookie(ctx, token, session.ExpiresAt)

	target := req.Next
	if target == "" {
		target = "/"
	}
	ctx.Redirect(target, http.StatusFound)
}

// Logout drops the session from the store and expires the cookie.
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	if sid := httpcontext.SessionID(ctx); sid != "" {
		stdCtx, cancel := h.requestContext(ctx)
		defer cancel()
		if err := h.uc.RevokeSession(stdCtx, sid); err != nil {
			h.logger.Warn("revoke session",
				zap.String("request_id", httpcontext.RequestID(ctx)), zap.Error(err))
		}
	}
	h.setCookie(ctx, "", fasthttp.CookieExpireDelete)
	ctx.Redirect("/login/", http.StatusFound)
}

func (h *AuthHandler) setCookie(ctx *fasthttp.RequestCtx, value string, expires time.Time) {
	httpcontext.SetSessionCookie(ctx, h.cookie.Name, value, expires, h.cookie.Secure)
}

func (h *AuthHandler) renderLogin(ctx *fasthttp.RequestCtx, status int, page view.LoginPage) {
	h.respondHTML(ctx, status, func(buf *bytes.Buffer) error {
		return h.renderer.Login(buf, page)
	})
}
