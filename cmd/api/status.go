package main

import (
	"net/http"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/go-chi/chi"
)

type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required,oneof=pending preparing ready completed delivered cancelled"`
	Reason string             `json:"reason" validate:"max=500"`
}

type AssignDeliveryPersonRequest struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone"`
	VehicleID string `json:"vehicle_id"`
}

// updateOrderStatusHandler godoc
//
//	@Summary		Update order status
//	@Description	Moves an order along its lifecycle. Moving to the current status is a no-op.
//	@Tags			staff
//	@Accept			json
//	@Produce		json
//	@Param			order_id	path		string						true	"Order ID"
//	@Param			request		body		UpdateOrderStatusRequest	true	"New status"
//	@Success		200			{object}	domain.Order
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Failure		409			{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/orders/{order_id}/status [patch]
func (app *application) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStatusRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	o, err := app.statusService.UpdateStatus(r.Context(), chi.URLParam(r, "order_id"), req.Status, req.Reason, callerIdentity(r).UserID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, o); err != nil {
		app.internalServerError(w, r, err)
	}
}

// assignDeliveryPersonHandler godoc
//
//	@Summary	Assign a delivery person
//	@Tags		staff
//	@Accept		json
//	@Produce	json
//	@Param		order_id	path		string						true	"Order ID"
//	@Param		request		body		AssignDeliveryPersonRequest	true	"Delivery person"
//	@Success	200			{object}	domain.Order
//	@Failure	404			{object}	map[string]string
//	@Failure	409			{object}	map[string]string
//	@Failure	422			{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/orders/{order_id}/delivery-person [patch]
func (app *application) assignDeliveryPersonHandler(w http.ResponseWriter, r *http.Request) {
	var req AssignDeliveryPersonRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	person := domain.DeliveryPerson{ID: req.ID, Name: req.Name, Phone: req.Phone, VehicleID: req.VehicleID}

	o, err := app.statusService.AssignDeliveryPerson(r.Context(), chi.URLParam(r, "order_id"), person, callerIdentity(r).UserID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, o); err != nil {
		app.internalServerError(w, r, err)
	}
}
