package httpcontext

import (
	"time"

	"github.com/valyala/fasthttp"
)

// SetSessionCookie writes the HttpOnly, site-wide session cookie. Pass
// fasthttp.CookieExpireDelete as expires to clear it.
func SetSessionCookie(ctx *fasthttp.RequestCtx, name, value string, expires time.Time, secure bool) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(name)
	cookie.SetValue(value)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(secure)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	cookie.SetExpire(expires)
	ctx.Response.Header.SetCookie(cookie)
}
