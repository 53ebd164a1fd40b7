package handler

import (
	"errors"
	"net/http"

	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/response"
	"github.com/confera/conference-hub/internal/service"
	"github.com/confera/conference-hub/internal/utils"
	"github.com/go-chi/chi/v5"
)

type SpeakerHandler struct {
	svc service.SpeakerService
}

func NewSpeakerHandler(svc service.SpeakerService) *SpeakerHandler {
	return &SpeakerHandler{svc: svc}
}

// GetAll godoc
// @Summary      List speakers
// @Tags         speakers
// @Produce      json
// @Param        event_id  query  string  false  "Filter by event"
// @Param        search    query  string  false  "Name or title search"
// @Param        page      query  int     false  "Page number"
// @Param        per_page  query  int     false  "Items per page"
// @Success      200  {object}  response.PaginatedResponse
// @Router       /speakers [get]
func (h *SpeakerHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.SpeakerFilter{
		EventID: q.Get("event_id"),
		Search:  q.Get("search"),
		Page:    parseIntQuery(q.Get("page"), 1),
		PerPage: parseIntQuery(q.Get("per_page"), 10),
	}

	speakers, pagination, err := h.svc.GetAll(r.Context(), filter)
	if err != nil {
		response.InternalError(w, "Failed to fetch speakers")
		return
	}

	response.Paginated(w, "Speakers retrieved", speakers, pagination)
}

// GetByID godoc
// @Summary      Get a speaker
// @Tags         speakers
// @Produce      json
// @Param        id  path  string  true  "Speaker ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /speakers/{id} [get]
func (h *SpeakerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	speaker, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrSpeakerNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to fetch speaker")
		return
	}

	response.Success(w, "Speaker retrieved", speaker)
}

// Create godoc
// @Summary      Add a speaker to an event
// @Tags         speakers
// @Accept       json
// @Produce      json
// @Param        request  body  model.CreateSpeakerRequest  true  "Speaker"
// @Security     BearerAuth
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /speakers [post]
func (h *SpeakerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSpeakerRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	errs := utils.ValidationErrors{}
	if req.EventID == "" {
		errs["event_id"] = "Event ID is required"
	}
	if utils.SanitizeString(req.FullName) == "" {
		errs["full_name"] = "Full name is required"
	}
	if errs.HasErrors() {
		response.ValidationError(w, "Validation failed", errs)
		return
	}

	speaker, err := h.svc.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create speaker")
		return
	}

	response.Created(w, "Speaker created", speaker)
}

// Update godoc
// @Summary      Update a speaker
// @Tags         speakers
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Speaker ID"
// @Param        request  body  model.UpdateSpeakerRequest  true  "Changes"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /speakers/{id} [put]
func (h *SpeakerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateSpeakerRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	speaker, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		if errors.Is(err, service.ErrSpeakerNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update speaker")
		return
	}

	response.Success(w, "Speaker updated", speaker)
}

// Delete godoc
// @Summary      Delete a speaker
// @Tags         speakers
// @Produce      json
// @Param        id  path  string  true  "Speaker ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /speakers/{id} [delete]
func (h *SpeakerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, service.ErrSpeakerNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete speaker")
		return
	}

	response.Success(w, "Speaker deleted", nil)
}

// UploadPhoto godoc
// @Summary      Upload a speaker photo
// @Tags         speakers
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Speaker ID"
// @Param        file  formData  file    true  "Photo"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /speakers/{id}/photo [post]
func (h *SpeakerHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := readUploadedFile(r)
	if err != nil {
		response.BadRequest(w, "A file upload named 'file' is required", nil)
		return
	}

	speaker, err := h.svc.UploadPhoto(r.Context(), chi.URLParam(r, "id"), data, contentType)
	if err != nil {
		if errors.Is(err, service.ErrSpeakerNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Success(w, "Photo uploaded", speaker)
}
