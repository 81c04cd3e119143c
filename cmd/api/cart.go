package main

import (
	"net/http"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/go-chi/chi"
)

type AddCartItemRequest struct {
	MenuItemID     string                 `json:"menu_item_id" validate:"required"`
	Quantity       int                    `json:"quantity" validate:"omitempty,min=1,max=99"`
	Customizations *domain.Customizations `json:"customizations"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=99"`
}

type AddCartItemResponse struct {
	CartItemID string      `json:"cart_item_id"`
	Cart       domain.Cart `json:"cart"`
}

// getCartHandler godoc
//
//	@Summary	Get the caller's cart
//	@Tags		cart
//	@Produce	json
//	@Success	200	{object}	domain.Cart
//	@Failure	401	{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/cart [get]
func (app *application) getCartHandler(w http.ResponseWriter, r *http.Request) {
	cart := app.cartService.Get(r.Context(), callerIdentity(r).UserID)

	if err := app.jsonRespone(w, http.StatusOK, cart); err != nil {
		app.internalServerError(w, r, err)
	}
}

// addCartItemHandler godoc
//
//	@Summary		Add an item to the cart
//	@Description	Lines with the same menu item and customizations are merged
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddCartItemRequest	true	"Item"
//	@Success		201		{object}	AddCartItemResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/cart/items [post]
func (app *application) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cart, lineID, err := app.cartService.AddItem(r.Context(), callerIdentity(r).UserID, req.MenuItemID, req.Customizations, req.Quantity)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusCreated, AddCartItemResponse{CartItemID: lineID, Cart: cart}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateCartItemHandler godoc
//
//	@Summary		Change the quantity of a cart line
//	@Description	A quantity of zero removes the line
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			cart_item_id	path		string					true	"Cart line ID"
//	@Param			request			body		UpdateCartItemRequest	true	"Quantity"
//	@Success		200				{object}	domain.Cart
//	@Failure		404				{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/cart/items/{cart_item_id} [patch]
func (app *application) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartItemRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cart, err := app.cartService.SetQuantity(r.Context(), callerIdentity(r).UserID, chi.URLParam(r, "cart_item_id"), req.Quantity)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, cart); err != nil {
		app.internalServerError(w, r, err)
	}
}

// removeCartItemHandler godoc
//
//	@Summary	Remove a cart line
//	@Tags		cart
//	@Produce	json
//	@Param		cart_item_id	path		string	true	"Cart line ID"
//	@Success	200				{object}	domain.Cart
//	@Security	ApiKeyAuth
//	@Router		/cart/items/{cart_item_id} [delete]
func (app *application) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	cart := app.cartService.RemoveItem(r.Context(), callerIdentity(r).UserID, chi.URLParam(r, "cart_item_id"))

	if err := app.jsonRespone(w, http.StatusOK, cart); err != nil {
		app.internalServerError(w, r, err)
	}
}

// clearCartHandler godoc
//
//	@Summary	Empty the cart
//	@Tags		cart
//	@Produce	json
//	@Success	200	{object}	domain.Cart
//	@Security	ApiKeyAuth
//	@Router		/cart [delete]
func (app *application) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	cart := app.cartService.Clear(r.Context(), callerIdentity(r).UserID)

	if err := app.jsonRespone(w, http.StatusOK, cart); err != nil {
		app.internalServerError(w, r, err)
	}
}
