package main

import (
	"net/http"

	"github.com/Beka01247/brewline/internal/parser"
	"github.com/Beka01247/brewline/internal/service"
	"github.com/go-chi/chi"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateMenuImportRequest struct {
	SpreadsheetID string `json:"spreadsheet_id" validate:"required"`
	Range         string `json:"range"`
}

// createMenuImportHandler godoc
//
//	@Summary		Create menu import task
//	@Description	Queues an import of menu items from a Google Sheet
//	@Tags			menu
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateMenuImportRequest	true	"Import request"
//	@Success		201		{object}	map[string]string
//	@Failure		400		{object}	map[string]string
//	@Failure		503		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/import [post]
func (app *application) createMenuImportHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateMenuImportRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if req.Range == "" {
		req.Range = parser.DefaultRange
	}

	taskID, err := app.menuImportService.CreateImportTask(r.Context(), req.SpreadsheetID, req.Range)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	response := map[string]string{
		"task_id": taskID.Hex(),
		"status":  "queued",
	}

	if err := app.jsonRespone(w, http.StatusCreated, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getMenuImportHandler godoc
//
//	@Summary		Get menu import task
//	@Description	Get the status of a menu import task
//	@Tags			menu
//	@Produce		json
//	@Param			task_id	path		string	true	"Task ID"
//	@Success		200		{object}	domain.MenuImportTask
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/import/{task_id} [get]
func (app *application) getMenuImportHandler(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "task_id"))
	if err != nil {
		app.badRequestResponse(w, r, service.ErrInvalidID)
		return
	}

	task, err := app.menuImportService.GetTaskStatus(r.Context(), taskID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, task); err != nil {
		app.internalServerError(w, r, err)
	}
}
