package handler

import (
	"bytes"
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/breaks/api/view"
	"github.com/fastygo/breaks/pkg/httpcontext"
	breaksUC "github.com/fastygo/breaks/usecase/breaks"
)

// DashboardReader loads what the index page shows.
type DashboardReader interface {
	Dashboard(ctx context.Context, userID string) (*breaksUC.Dashboard, error)
}

type PageHandler struct {
	baseHandler
	uc       DashboardReader
	renderer *view.Renderer
}

func NewPageHandler(uc DashboardReader, renderer *view.Renderer, adapter *httpcontext.Adapter, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		renderer:    renderer,
	}
}

// Index renders the activity picker and the caller's recent breaks.
func (h *PageHandler) Index(ctx *fasthttp.RequestCtx) {
	userID, username, ok := h.identity(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	dashboard, err := h.uc.Dashboard(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondHTML(ctx, http.StatusOK, func(buf *bytes.Buffer) error {
		return h.renderer.Index(buf, view.IndexPage{
			Username:   username,
			Activities: dashboard.Activities,
			Breaks:     dashboard.Breaks,
		})
	})
}
