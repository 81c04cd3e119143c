package main

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// healthcheckHandler godoc
//
//	@Summary		Healthcheck
//	@Description	Healthcheck endpoint
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if app.storage == nil || app.storage.Ping(r.Context()) != nil {
		dbStatus = "error"
	}

	// the broker reconnect is not tracked; a running app had a connection at startup
	queueStatus := "ok"
	if app.broker == nil {
		queueStatus = "error"
	}

	mediaStatus := "ok"
	if app.media == nil {
		mediaStatus = "disabled"
	}

	response := HealthResponse{
		Status:    "healthy",
		Version:   version,
		Timestamp: time.Now(),
		Services: map[string]string{
			"database": dbStatus,
			"queue":    queueStatus,
			"media":    mediaStatus,
		},
	}

	if dbStatus != "ok" || queueStatus != "ok" {
		response.Status = "unhealthy"
		if err := writeJson(w, http.StatusServiceUnavailable, response); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := writeJson(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
