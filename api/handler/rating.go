package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/roomly/backend/api/transport"
	"github.com/roomly/backend/pkg/httpcontext"
	ratingUC "github.com/roomly/backend/usecase/rating"
)

type RatingHandler struct {
	baseHandler
	uc *ratingUC.UseCase
}

func NewRatingHandler(uc *ratingUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Rate a roommate
// @Tags ratings
// @Router /api/v1/ratings [post]
func (h *RatingHandler) Create(ctx *fasthttp.RequestCtx) {
	raterID := h.userID(ctx)
	if raterID == "" {
		return
	}

	var req transport.RatingRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.UserID == "" {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	rating, err := h.uc.Rate(stdCtx, raterID, req.UserID, req.Stars, req.Comment)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, rating)
}

// @Summary List ratings received by a user
// @Tags ratings
// @Router /api/v1/users/{id}/ratings [get]
func (h *RatingHandler) ListForUser(ctx *fasthttp.RequestCtx) {
	if h.userID(ctx) == "" {
		return
	}
	userID, _ := ctx.UserValue("id").(string)
	if userID == "" {
		h.respondInvalid(ctx, "missing user id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ratings, summary, err := h.uc.ListForUser(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"ratings": ratings,
		"summary": summary,
	})
}

// @Summary Delete the caller's rating of a user
// @Tags ratings
// @Router /api/v1/users/{id}/ratings [delete]
func (h *RatingHandler) Delete(ctx *fasthttp.RequestCtx) {
	raterID := h.userID(ctx)
	if raterID == "" {
		return
	}
	userID, _ := ctx.UserValue("id").(string)
	if userID == "" {
		h.respondInvalid(ctx, "missing user id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Remove(stdCtx, raterID, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
