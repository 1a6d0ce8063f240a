package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/roomly/backend/api/transport"
	"github.com/roomly/backend/pkg/httpcontext"
	membershipUC "github.com/roomly/backend/usecase/membership"
)

type ApartmentHandler struct {
	baseHandler
	uc *membershipUC.UseCase
}

func NewApartmentHandler(uc *membershipUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ApartmentHandler {
	return &ApartmentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List apartments the caller belongs to
// @Tags apartments
// @Router /api/v1/apartments [get]
func (h *ApartmentHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	apartments, err := h.uc.ListApartments(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, apartments)
}

// @Summary Create an apartment
// @Tags apartments
// @Router /api/v1/apartments [post]
func (h *ApartmentHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.CreateApartmentRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	apartment, err := h.uc.CreateApartment(stdCtx, req.Name, req.Address, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, apartment)
}

// @Summary Get one apartment
// @Tags apartments
// @Router /api/v1/apartments/{id} [get]
func (h *ApartmentHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing apartment id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	apartment, err := h.uc.GetApartment(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, apartment)
}

// @Summary Join an apartment by code
// @Tags apartments
// @Router /api/v1/apartments/join [post]
func (h *ApartmentHandler) Join(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.JoinApartmentRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	apartment, err := h.uc.JoinApartment(stdCtx, req.Code, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, apartment)
}

// @Summary Replace the apartment's join code
// @Tags apartments
// @Router /api/v1/apartments/{id}/code [put]
func (h *ApartmentHandler) SetCode(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing apartment id")
		return
	}

	var req transport.SetCodeRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.SetCode(stdCtx, id, req.Code, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Get the resolved member roster
// @Tags apartments
// @Router /api/v1/apartments/{id}/members [get]
func (h *ApartmentHandler) Roster(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing apartment id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	roster, err := h.uc.Roster(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, roster)
}
