package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/breaks/api/transport"
	"github.com/fastygo/breaks/pkg/httpcontext"
)

type VideoPicker interface {
	Random() string
}

type VideoHandler struct {
	baseHandler
	picker VideoPicker
}

func NewVideoHandler(picker VideoPicker, adapter *httpcontext.Adapter, logger *zap.Logger) *VideoHandler {
	return &VideoHandler{
		baseHandler: newBaseHandler(adapter, logger),
		picker:      picker,
	}
}

func (h *VideoHandler) Random(ctx *fasthttp.RequestCtx) {
	if _, _, ok := h.identity(ctx); !ok {
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.VideoResponse{VideoURL: h.picker.Random()})
}
