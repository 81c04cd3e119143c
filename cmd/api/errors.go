package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Beka01247/brewline/internal/auth"
	"github.com/Beka01247/brewline/internal/loyalty"
	"github.com/Beka01247/brewline/internal/media"
	"github.com/Beka01247/brewline/internal/order"
	"github.com/Beka01247/brewline/internal/repo"
	"github.com/Beka01247/brewline/internal/service"
	"github.com/go-playground/validator/v10"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJsonError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJsonError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJsonError(w, http.StatusNotFound, "not found")
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("conflict response", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJsonError(w, http.StatusConflict, err.Error())
}

func (app *application) unprocessableResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unprocessable request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJsonError(w, http.StatusUnprocessableEntity, err.Error())
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJsonError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.logger.Warnw("forbidden", "method", r.Method, "path", r.URL.Path)

	writeJsonError(w, http.StatusForbidden, "forbidden")
}

func (app *application) serviceUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("service unavailable", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJsonError(w, http.StatusServiceUnavailable, err.Error())
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))

	writeJsonError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter.String())
}

// errorResponse maps errors returned by the services to a status code.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *order.ValidationError
	var fieldErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErrs),
		errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrUnsupportedPlatform):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, repo.ErrNotFound):
		app.notFoundError(w, r, err)
	case errors.Is(err, order.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		app.unauthorizedErrorResponse(w, r, err)
	case errors.Is(err, service.ErrForbidden):
		app.forbiddenResponse(w, r)
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, repo.ErrDuplicate):
		app.conflictResponse(w, r, err)
	case errors.Is(err, loyalty.ErrInsufficientPoints),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, service.ErrMenuItemUnavailable),
		errors.Is(err, service.ErrNotDeliveryOrder),
		errors.Is(err, media.ErrNotImage),
		errors.Is(err, media.ErrTooLarge):
		app.unprocessableResponse(w, r, err)
	case errors.Is(err, service.ErrImportUnavailable):
		app.serviceUnavailableResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
