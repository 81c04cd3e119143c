package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/go-chi/chi"
)

type CreateMenuItemRequest struct {
	Title       string   `json:"title" validate:"required,max=120"`
	Price       float64  `json:"price" validate:"gt=0"`
	Category    string   `json:"category" validate:"required,oneof=breakfast pastries 'hot beverages' 'cold drinks'"`
	Description string   `json:"description" validate:"max=1000"`
	Image       string   `json:"image" validate:"omitempty,url"`
	Allergens   []string `json:"allergens"`
	Available   *bool    `json:"available"`
}

type UpdateMenuItemRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=120"`
	Price       *float64  `json:"price" validate:"omitempty,gt=0"`
	Category    *string   `json:"category" validate:"omitempty,oneof=breakfast pastries 'hot beverages' 'cold drinks'"`
	Description *string   `json:"description" validate:"omitempty,max=1000"`
	Image       *string   `json:"image" validate:"omitempty,url"`
	Allergens   *[]string `json:"allergens"`
	Available   *bool     `json:"available"`
}

// listMenuHandler godoc
//
//	@Summary		List menu items
//	@Description	List menu items, optionally filtered by category
//	@Tags			menu
//	@Produce		json
//	@Param			category	query		string	false	"Category"
//	@Success		200			{array}		domain.MenuItem
//	@Failure		500			{object}	map[string]string
//	@Router			/menu [get]
func (app *application) listMenuHandler(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))

	items, err := app.menuService.List(r.Context(), category)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if items == nil {
		items = []domain.MenuItem{}
	}

	if err := app.jsonRespone(w, http.StatusOK, items); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getMenuItemHandler godoc
//
//	@Summary		Get menu item by ID
//	@Tags			menu
//	@Produce		json
//	@Param			item_id	path		string	true	"Menu item ID"
//	@Success		200		{object}	domain.MenuItem
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/menu/{item_id} [get]
func (app *application) getMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	item, err := app.menuService.Get(r.Context(), chi.URLParam(r, "item_id"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, item); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createMenuItemHandler godoc
//
//	@Summary		Create menu item
//	@Tags			menu
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateMenuItemRequest	true	"Menu item"
//	@Success		201		{object}	domain.MenuItem
//	@Failure		400		{object}	map[string]string
//	@Failure		403		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu [post]
func (app *application) createMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateMenuItemRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	now := time.Now()
	item := &domain.MenuItem{
		Title:       strings.TrimSpace(req.Title),
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
		Allergens:   req.Allergens,
		Available:   req.Available == nil || *req.Available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := app.menuService.Create(r.Context(), item); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusCreated, item); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateMenuItemHandler godoc
//
//	@Summary		Update menu item
//	@Description	Partially update a menu item; omitted fields are unchanged
//	@Tags			menu
//	@Accept			json
//	@Produce		json
//	@Param			item_id	path		string					true	"Menu item ID"
//	@Param			request	body		UpdateMenuItemRequest	true	"Fields to change"
//	@Success		200		{object}	domain.MenuItem
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/{item_id} [patch]
func (app *application) updateMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateMenuItemRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	item, err := app.menuService.Update(r.Context(), chi.URLParam(r, "item_id"), domain.MenuItemPatch{
		Title:       req.Title,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
		Allergens:   req.Allergens,
		Available:   req.Available,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, item); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteMenuItemHandler godoc
//
//	@Summary	Delete menu item
//	@Tags		menu
//	@Param		item_id	path	string	true	"Menu item ID"
//	@Success	204
//	@Failure	404	{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/menu/{item_id} [delete]
func (app *application) deleteMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.menuService.Delete(r.Context(), chi.URLParam(r, "item_id")); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
