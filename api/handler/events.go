package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/roomly/backend/internal/services/changefeed"
	"github.com/roomly/backend/pkg/httpcontext"
	membershipUC "github.com/roomly/backend/usecase/membership"
)

const streamHeartbeat = 15 * time.Second

// EventsHandler exposes the change feed: a snapshot poll and an SSE stream.
type EventsHandler struct {
	baseHandler
	feed       *changefeed.Service
	membership *membershipUC.UseCase
}

func NewEventsHandler(feed *changefeed.Service, membership *membershipUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		feed:        feed,
		membership:  membership,
	}
}

// @Summary Recent events of an apartment
// @Tags events
// @Router /api/v1/apartments/{id}/events [get]
func (h *EventsHandler) Recent(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	apartmentID, _ := ctx.UserValue("id").(string)
	if apartmentID == "" {
		h.respondInvalid(ctx, "missing apartment id")
		return
	}

	var since time.Time
	if raw := string(ctx.QueryArgs().Peek("since")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.respondInvalid(ctx, "since must be RFC3339")
			return
		}
		since = parsed
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.membership.GetApartment(stdCtx, apartmentID, userID); err != nil {
		h.respondError(ctx, err)
		return
	}

	events, err := h.feed.Recent(apartmentID, since, 100)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, events)
}

// @Summary Live event stream (SSE)
// @Tags events
// @Router /api/v1/apartments/{id}/events/stream [get]
//
// The stream stays open until the client disconnects; dropping the
// connection is the unsubscribe.
func (h *EventsHandler) Stream(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	apartmentID, _ := ctx.UserValue("id").(string)
	if apartmentID == "" {
		h.respondInvalid(ctx, "missing apartment id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()
	if _, err := h.membership.GetApartment(stdCtx, apartmentID, userID); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.Response.Header.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")

	logger := h.logger
	feed := h.feed

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		streamCtx, stop := context.WithCancel(context.Background())
		defer stop()

		events, release := feed.Subscribe(streamCtx, apartmentID)
		defer release()

		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-heartbeat.C:
				// Comment line keeps intermediaries from closing idle streams
				// and detects gone clients.
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					logger.Debug("event stream closed", zap.String("apartment_id", apartmentID))
					return
				}
			}
		}
	})
}
