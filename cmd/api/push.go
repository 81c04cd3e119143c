package main

import "net/http"

type RegisterPushRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required"`
}

type RegisterPushResponse struct {
	Registered bool `json:"registered"`
}

// registerPushHandler godoc
//
//	@Summary		Register a push token
//	@Description	Native devices store their token. Web clients get registered=false.
//	@Tags			profile
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterPushRequest	true	"Device token"
//	@Success		200		{object}	RegisterPushResponse
//	@Failure		400		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/push/register [post]
func (app *application) registerPushHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterPushRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	registered, err := app.pushService.Register(r.Context(), callerIdentity(r).UserID, req.Token, req.Platform)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, RegisterPushResponse{Registered: registered}); err != nil {
		app.internalServerError(w, r, err)
	}
}
