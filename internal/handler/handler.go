// Package handler contains the chi HTTP handlers. Handlers decode and
// validate input, build the acting identity from the request context,
// and translate service errors into the response envelope.
package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/confera/conference-hub/internal/middleware"
	"github.com/confera/conference-hub/internal/service"
	"github.com/google/uuid"
)

func parseIntQuery(val string, fallback int) int {
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// actorFromContext rebuilds the authenticated identity the middleware
// stored from the JWT claims.
func actorFromContext(r *http.Request) service.Actor {
	id, _ := uuid.Parse(middleware.GetUserIDFromContext(r.Context()))
	return service.Actor{
		ID:    id,
		Email: middleware.GetEmailFromContext(r.Context()),
		Role:  middleware.GetRoleFromContext(r.Context()),
	}
}

// readUploadedFile pulls the "file" part out of a multipart form,
// bounded by the storage layer's size limit.
func readUploadedFile(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(12 << 20); err != nil {
		return nil, "", err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	return data, header.Header.Get("Content-Type"), nil
}
