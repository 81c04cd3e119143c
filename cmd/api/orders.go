package main

import (
	"net/http"
	"time"

	"github.com/Beka01247/brewline/internal/auth"
	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/order"
	"github.com/go-chi/chi"
)

type PlaceOrderRequest struct {
	Name            string           `json:"name"`
	Email           string           `json:"email" validate:"omitempty,email"`
	Phone           string           `json:"phone"`
	OrderType       domain.OrderType `json:"order_type"`
	Address         string           `json:"address"`
	City            string           `json:"city"`
	PostalCode      string           `json:"postal_code"`
	Location        *domain.Location `json:"location"`
	PaymentMethod   string           `json:"payment_method"`
	PickupTime      string           `json:"pickup_time"`
	LoyaltyDiscount float64          `json:"loyalty_discount" validate:"gte=0"`
}

type PickupSlotsResponse struct {
	Slots []string `json:"slots"`
}

// pickupSlotsHandler godoc
//
//	@Summary		List pickup slots
//	@Description	Half-hour slots still available today
//	@Tags			orders
//	@Produce		json
//	@Success		200	{object}	PickupSlotsResponse
//	@Router			/pickup-slots [get]
func (app *application) pickupSlotsHandler(w http.ResponseWriter, r *http.Request) {
	response := PickupSlotsResponse{Slots: order.PickupSlots(order.InZone(time.Now(), app.config.shop.zone))}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// placeOrderHandler godoc
//
//	@Summary		Place an order
//	@Description	Turns the caller's cart into a pending order
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PlaceOrderRequest	true	"Checkout details"
//	@Success		201		{object}	service.PlaceOrderResult
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/orders [post]
func (app *application) placeOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	caller := callerIdentity(r)
	customer := domain.CustomerDetails{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if customer.Name == "" {
		customer.Name = caller.Name
	}
	if customer.Email == "" {
		customer.Email = caller.Email
	}

	result, err := app.orderService.PlaceOrder(r.Context(), order.CheckoutInput{
		CustomerID:      caller.UserID,
		Customer:        customer,
		OrderType:       req.OrderType,
		Address:         req.Address,
		City:            req.City,
		PostalCode:      req.PostalCode,
		Location:        req.Location,
		PaymentMethod:   req.PaymentMethod,
		PickupTime:      req.PickupTime,
		LoyaltyDiscount: req.LoyaltyDiscount,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusCreated, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listOrdersHandler godoc
//
//	@Summary		List orders
//	@Description	Customers get their own orders, newest first. Staff may pass scope=open for the work queue.
//	@Tags			orders
//	@Produce		json
//	@Param			scope	query		string	false	"open"
//	@Success		200		{array}		domain.Order
//	@Security		ApiKeyAuth
//	@Router			/orders [get]
func (app *application) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	caller := callerIdentity(r)

	var (
		orders []domain.Order
		err    error
	)
	if r.URL.Query().Get("scope") == "open" && caller.Role.AtLeast(auth.RoleWaiter) {
		orders, err = app.orderService.ListOpen(r.Context())
	} else {
		orders, err = app.orderService.ListOrders(r.Context(), caller.UserID)
	}
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	if err := app.jsonRespone(w, http.StatusOK, orders); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getOrderHandler godoc
//
//	@Summary	Get order by ID
//	@Tags		orders
//	@Produce	json
//	@Param		order_id	path		string	true	"Order ID"
//	@Success	200			{object}	domain.Order
//	@Failure	403			{object}	map[string]string
//	@Failure	404			{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/orders/{order_id} [get]
func (app *application) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	o, err := app.orderService.GetOrder(r.Context(), chi.URLParam(r, "order_id"), callerIdentity(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, o); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getOrderHistoryHandler godoc
//
//	@Summary	Get the status history of an order
//	@Tags		orders
//	@Produce	json
//	@Param		order_id	path	string	true	"Order ID"
//	@Success	200			{array}	domain.OrderStatusAudit
//	@Security	ApiKeyAuth
//	@Router		/orders/{order_id}/history [get]
func (app *application) getOrderHistoryHandler(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	if _, err := app.orderService.GetOrder(r.Context(), orderID, callerIdentity(r)); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	history, err := app.statusService.History(r.Context(), orderID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if history == nil {
		history = []domain.OrderStatusAudit{}
	}

	if err := app.jsonRespone(w, http.StatusOK, history); err != nil {
		app.internalServerError(w, r, err)
	}
}
