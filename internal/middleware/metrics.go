package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/breaks/internal/observability"
	"github.com/fastygo/breaks/pkg/httpcontext"
)

// Instrument counts every response under route and logs it with its request id.
func Instrument(route string, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			reqID := httpcontext.RequestID(ctx)

			next(ctx)

			status := ctx.Response.StatusCode()
			observability.RecordRequest(route, status)
			logger.Debug("request served",
				zap.String("request_id", reqID),
				zap.String("method", string(ctx.Method())),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
	}
}
