package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/service"
	"github.com/go-chi/chi"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateAddressRequest struct {
	Label      string `json:"label" validate:"required,max=50"`
	Line       string `json:"line" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
}

type CreatePaymentMethodRequest struct {
	Label string `json:"label" validate:"required,max=50"`
	Kind  string `json:"kind" validate:"required,oneof=card cash wallet"`
	Last4 string `json:"last4" validate:"omitempty,len=4,numeric"`
}

// listAddressesHandler godoc
//
//	@Summary	List saved addresses
//	@Tags		profile
//	@Produce	json
//	@Success	200	{array}	domain.Address
//	@Security	ApiKeyAuth
//	@Router		/addresses [get]
func (app *application) listAddressesHandler(w http.ResponseWriter, r *http.Request) {
	addresses, err := app.addressRepo.List(r.Context(), callerIdentity(r).UserID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if addresses == nil {
		addresses = []domain.Address{}
	}

	if err := app.jsonRespone(w, http.StatusOK, addresses); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createAddressHandler godoc
//
//	@Summary	Save an address
//	@Tags		profile
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateAddressRequest	true	"Address"
//	@Success	201		{object}	domain.Address
//	@Failure	400		{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/addresses [post]
func (app *application) createAddressHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateAddressRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	address := &domain.Address{
		UserID:     callerIdentity(r).UserID,
		Label:      strings.TrimSpace(req.Label),
		Line:       strings.TrimSpace(req.Line),
		City:       strings.TrimSpace(req.City),
		PostalCode: strings.TrimSpace(req.PostalCode),
		CreatedAt:  time.Now(),
	}

	if err := app.addressRepo.Create(r.Context(), address); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusCreated, address); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteAddressHandler godoc
//
//	@Summary	Delete a saved address
//	@Tags		profile
//	@Param		address_id	path	string	true	"Address ID"
//	@Success	204
//	@Failure	404	{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/addresses/{address_id} [delete]
func (app *application) deleteAddressHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "address_id"))
	if err != nil {
		app.badRequestResponse(w, r, service.ErrInvalidID)
		return
	}

	if err := app.addressRepo.Delete(r.Context(), callerIdentity(r).UserID, id); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listPaymentMethodsHandler godoc
//
//	@Summary	List saved payment methods
//	@Tags		profile
//	@Produce	json
//	@Success	200	{array}	domain.PaymentMethod
//	@Security	ApiKeyAuth
//	@Router		/payment-methods [get]
func (app *application) listPaymentMethodsHandler(w http.ResponseWriter, r *http.Request) {
	methods, err := app.paymentMethodRepo.List(r.Context(), callerIdentity(r).UserID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if methods == nil {
		methods = []domain.PaymentMethod{}
	}

	if err := app.jsonRespone(w, http.StatusOK, methods); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createPaymentMethodHandler godoc
//
//	@Summary	Save a payment method
//	@Tags		profile
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreatePaymentMethodRequest	true	"Payment method"
//	@Success	201		{object}	domain.PaymentMethod
//	@Failure	400		{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/payment-methods [post]
func (app *application) createPaymentMethodHandler(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentMethodRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	method := &domain.PaymentMethod{
		UserID:    callerIdentity(r).UserID,
		Label:     strings.TrimSpace(req.Label),
		Kind:      req.Kind,
		Last4:     req.Last4,
		CreatedAt: time.Now(),
	}

	if err := app.paymentMethodRepo.Create(r.Context(), method); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusCreated, method); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deletePaymentMethodHandler godoc
//
//	@Summary	Delete a saved payment method
//	@Tags		profile
//	@Param		method_id	path	string	true	"Payment method ID"
//	@Success	204
//	@Failure	404	{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/payment-methods/{method_id} [delete]
func (app *application) deletePaymentMethodHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "method_id"))
	if err != nil {
		app.badRequestResponse(w, r, service.ErrInvalidID)
		return
	}

	if err := app.paymentMethodRepo.Delete(r.Context(), callerIdentity(r).UserID, id); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
