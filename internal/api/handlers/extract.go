package handlers

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
)

const (
	maxUploadBytes   = 64 << 20 // whole multipart request
	maxImageBytes    = 10 << 20 // single screenshot
	maxScreenshots   = 12
	extractErrorBody = "could not extract addresses from the screenshots"
)

// ExtractHandler accepts uploaded screenshots and replaces the active
// route with the extraction result.
type ExtractHandler struct {
	Extractor ports.StopExtractor
	Engine    *services.RouteState
}

// Extract reads every uploaded image, runs the whole batch through the
// provider, and sets the merged route. Any single extraction failure
// discards the batch; no partial route is ever installed.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeError(w, r, http.StatusBadRequest, "at least one image is required")
		return
	}
	if len(files) > maxScreenshots {
		writeError(w, r, http.StatusBadRequest, "too many images")
		return
	}

	uploads := make([]services.ScreenshotUpload, 0, len(files))
	for _, fh := range files {
		upload, err := readUpload(fh)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		uploads = append(uploads, upload)
	}

	route, err := services.ExtractRoute(r.Context(), h.Extractor, uploads)
	if err != nil {
		log.Printf("extract failed: images=%d err=%v", len(uploads), err)
		writeError(w, r, http.StatusBadGateway, extractErrorBody)
		return
	}

	h.Engine.SetRoute(route)
	snapshot, gen := h.Engine.Snapshot()
	writeJSON(w, r, http.StatusOK, routeResponse(snapshot, gen))
}

func readUpload(fh *multipart.FileHeader) (services.ScreenshotUpload, error) {
	if fh.Size > maxImageBytes {
		return services.ScreenshotUpload{}, errors.New("image exceeds the size limit")
	}

	f, err := fh.Open()
	if err != nil {
		return services.ScreenshotUpload{}, errors.New("unreadable image upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil || len(data) == 0 {
		return services.ScreenshotUpload{}, errors.New("unreadable image upload")
	}
	if len(data) > maxImageBytes {
		return services.ScreenshotUpload{}, errors.New("image exceeds the size limit")
	}

	mime := fh.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return services.ScreenshotUpload{Data: data, MIMEType: mime}, nil
}
