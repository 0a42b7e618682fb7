package router

import (
	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"github.com/valyala/fasthttp/pprofhandler"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/breaks/api/handler"
	"github.com/fastygo/breaks/internal/middleware"
)

type Handlers struct {
	Page   *apiHandler.PageHandler
	Break  *apiHandler.BreakHandler
	Video  *apiHandler.VideoHandler
	Auth   *apiHandler.AuthHandler
	Health *apiHandler.HealthHandler
}

type Options struct {
	EnableMetrics bool
	EnablePprof   bool
	Logger        *zap.Logger
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, opts Options) *router.Router {
	r := router.New()
	r.HandleMethodNotAllowed = true

	route := func(path string, h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return middleware.Instrument(path, opts.Logger)(h)
	}
	protected := func(path string, h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return route(path, authMiddleware(h))
	}

	r.GET("/health", route("/health", handlers.Health.Check))

	r.GET("/login/", route("/login/", handlers.Auth.LoginPage))
	r.POST("/login/", route("/login/", handlers.Auth.Login))
	r.POST("/logout/", protected("/logout/", handlers.Auth.Logout))

	r.GET("/", protected("/", handlers.Page.Index))
	r.POST("/create_break/", protected("/create_break/", handlers.Break.Create))
	r.POST("/update_break/", protected("/update_break/", handlers.Break.Update))
	r.POST("/skip_break/", protected("/skip_break/", handlers.Break.Skip))

	video := protected("/get_random_video/", handlers.Video.Random)
	r.GET("/get_random_video/", video)
	r.POST("/get_random_video/", video)

	if opts.EnableMetrics {
		r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))
	}
	if opts.EnablePprof {
		r.GET("/debug/pprof/{profile:*}", pprofhandler.PprofHandler)
	}

	return r
}
