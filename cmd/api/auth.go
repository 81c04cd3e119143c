package main

import (
	"errors"
	"net/http"

	"github.com/Beka01247/brewline/internal/service"
)

type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// registerUserHandler godoc
//
//	@Summary	Register a customer account
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RegisterUserRequest	true	"Account"
//	@Success	201		{object}	domain.User
//	@Failure	400		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/auth/register [post]
func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.authService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusCreated, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

// loginHandler godoc
//
//	@Summary		Sign in
//	@Description	Returns a bearer token and the optimistic session derived from it
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	service.SignInResult
//	@Failure		401		{object}	map[string]string
//	@Router			/auth/login [post]
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// sessionHandler godoc
//
//	@Summary		Confirm the session
//	@Description	Confirms the token identity against the stored profile
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	auth.State
//	@Failure		401	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/auth/session [get]
func (app *application) sessionHandler(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("no claims in context"))
		return
	}

	state, err := app.authService.Session(r.Context(), claims)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, state); err != nil {
		app.internalServerError(w, r, err)
	}
}

// logoutHandler godoc
//
//	@Summary		Sign out
//	@Description	Saves the caller's cart and ends the session
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	auth.State
//	@Security		ApiKeyAuth
//	@Router			/auth/logout [post]
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	state := app.authService.SignOut(r.Context(), callerIdentity(r).UserID)

	if err := app.jsonRespone(w, http.StatusOK, state); err != nil {
		app.internalServerError(w, r, err)
	}
}
