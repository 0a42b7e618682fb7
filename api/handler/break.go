package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/breaks/api/transport"
	"github.com/fastygo/breaks/domain"
	"github.com/fastygo/breaks/pkg/httpcontext"
)

const (
	msgBreakCreated = "Break created successfully."
	msgBreakUpdated = "Break updated successfully."
	msgBreakSkipped = "Break skipped successfully."
)

// BreakService is the write side of the break use case.
type BreakService interface {
	CreateBreak(ctx context.Context, userID string, activityID int64) (*domain.Break, error)
	UpdateBreak(ctx context.Context, userID string, breakID int64, done bool) (*domain.Break, error)
	SkipBreak(ctx context.Context, userID string, breakID int64) error
}

type BreakHandler struct {
	baseHandler
	uc BreakService
}

func NewBreakHandler(uc BreakService, adapter *httpcontext.Adapter, logger *zap.Logger) *BreakHandler {
	return &BreakHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

func (h *BreakHandler) Create(ctx *fasthttp.RequestCtx) {
	userID, _, ok := h.identity(ctx)
	if !ok {
		return
	}

	req, err := transport.ParseCreateBreak(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.CreateBreak(stdCtx, userID, req.ActivityID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.MessageResponse{Message: msgBreakCreated})
}

func (h *BreakHandler) Update(ctx *fasthttp.RequestCtx) {
	userID, _, ok := h.identity(ctx)
	if !ok {
		return
	}

	req, err := transport.ParseUpdateBreak(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.UpdateBreak(stdCtx, userID, req.BreakID, req.Done()); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.MessageResponse{Message: msgBreakUpdated})
}

func (h *BreakHandler) Skip(ctx *fasthttp.RequestCtx) {
	userID, _, ok := h.identity(ctx)
	if !ok {
		return
	}

	req, err := transport.ParseSkipBreak(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.SkipBreak(stdCtx, userID, req.BreakID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.MessageResponse{Message: msgBreakSkipped})
}
