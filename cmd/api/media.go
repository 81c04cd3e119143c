package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"regexp"

	"github.com/Beka01247/brewline/internal/media"
)

var folderPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,39}$`)

type MediaUploader interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error)
}

type UploadMediaResponse struct {
	URL string `json:"url"`
}

// uploadMediaHandler godoc
//
//	@Summary		Upload an image
//	@Description	Stores an image under the given folder and returns its public URL
//	@Tags			media
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Image"
//	@Param			folder	formData	string	true	"Folder, e.g. menu"
//	@Success		201		{object}	UploadMediaResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Failure		503		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/media [post]
func (app *application) uploadMediaHandler(w http.ResponseWriter, r *http.Request) {
	if app.media == nil {
		app.serviceUnavailableResponse(w, r, errors.New("media storage is not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.DefaultMaxSize+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			app.unprocessableResponse(w, r, media.ErrTooLarge)
			return
		}
		app.badRequestResponse(w, r, err)
		return
	}

	folder := r.FormValue("folder")
	if !folderPattern.MatchString(folder) {
		app.badRequestResponse(w, r, errors.New("folder: must be lowercase letters, digits, - or _"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	url, err := app.media.Upload(r.Context(), folder, header.Filename, file)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusCreated, UploadMediaResponse{URL: url}); err != nil {
		app.internalServerError(w, r, err)
	}
}
