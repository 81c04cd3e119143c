package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/go-chi/chi"
)

const streamHeartbeat = 15 * time.Second

// streamOrderHandler godoc
//
//	@Summary		Stream order updates
//	@Description	Server-sent events with the current state of the order on every change
//	@Tags			orders
//	@Produce		text/event-stream
//	@Param			order_id	path	string	true	"Order ID"
//	@Success		200
//	@Security		ApiKeyAuth
//	@Router			/orders/{order_id}/stream [get]
func (app *application) streamOrderHandler(w http.ResponseWriter, r *http.Request) {
	updates, err := app.orderService.WatchOrder(r.Context(), chi.URLParam(r, "order_id"), callerIdentity(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.streamOrders(w, r, updates)
}

// streamMyOrdersHandler godoc
//
//	@Summary		Stream the caller's orders
//	@Tags			orders
//	@Produce		text/event-stream
//	@Success		200
//	@Security		ApiKeyAuth
//	@Router			/orders/stream [get]
func (app *application) streamMyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	updates, err := app.orderService.WatchCustomerOrders(r.Context(), callerIdentity(r).UserID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.streamOrders(w, r, updates)
}

func (app *application) streamOrders(w http.ResponseWriter, r *http.Request, updates <-chan domain.Order) {
	rc := http.NewResponseController(w)
	// the server write timeout would cut long-lived streams
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		app.logger.Errorw("streaming unsupported", "path", r.URL.Path, "error", err)
		return
	}

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case o, ok := <-updates:
			if !ok {
				return
			}
			if err := writeEvent(w, "order", o); err != nil {
				app.logger.Warnw("failed to write order event", "order_id", o.ID.Hex(), "error", err)
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}
