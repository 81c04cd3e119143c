package main

import (
	"net/http"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/go-chi/chi"
)

type UpdateLocationRequest struct {
	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon *float64 `json:"lon" validate:"required,min=-180,max=180"`
}

// getTrackingHandler godoc
//
//	@Summary		Get delivery tracking
//	@Description	Latest tracking session of an order with remaining distance and ETA
//	@Tags			tracking
//	@Produce		json
//	@Param			order_id	path		string	true	"Order ID"
//	@Success		200			{object}	domain.TrackingView
//	@Failure		403			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/tracking/{order_id} [get]
func (app *application) getTrackingHandler(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	if _, err := app.orderService.GetOrder(r.Context(), orderID, callerIdentity(r)); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	view, err := app.trackingService.Get(r.Context(), orderID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, view); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateDriverLocationHandler godoc
//
//	@Summary	Report the driver's position
//	@Tags		tracking
//	@Accept		json
//	@Param		order_id	path	string					true	"Order ID"
//	@Param		request		body	UpdateLocationRequest	true	"Position"
//	@Success	204
//	@Failure	404	{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/tracking/{order_id}/location [put]
func (app *application) updateDriverLocationHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateLocationRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	loc := domain.Location{Lat: *req.Lat, Lon: *req.Lon}
	if err := app.trackingService.UpdateDriverLocation(r.Context(), chi.URLParam(r, "order_id"), loc); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
