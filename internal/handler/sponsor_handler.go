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

type SponsorHandler struct {
	svc service.SponsorService
}

func NewSponsorHandler(svc service.SponsorService) *SponsorHandler {
	return &SponsorHandler{svc: svc}
}

// GetAll godoc
// @Summary      List sponsors
// @Tags         sponsors
// @Produce      json
// @Param        event_id  query  string  false  "Filter by event"
// @Param        tier      query  string  false  "Filter by tier"
// @Param        page      query  int     false  "Page number"
// @Param        per_page  query  int     false  "Items per page"
// @Success      200  {object}  response.PaginatedResponse
// @Router       /sponsors [get]
func (h *SponsorHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.SponsorFilter{
		EventID: q.Get("event_id"),
		Tier:    q.Get("tier"),
		Page:    parseIntQuery(q.Get("page"), 1),
		PerPage: parseIntQuery(q.Get("per_page"), 10),
	}

	sponsors, pagination, err := h.svc.GetAll(r.Context(), filter)
	if err != nil {
		response.InternalError(w, "Failed to fetch sponsors")
		return
	}

	response.Paginated(w, "Sponsors retrieved", sponsors, pagination)
}

// GetByID godoc
// @Summary      Get a sponsor
// @Tags         sponsors
// @Produce      json
// @Param        id  path  string  true  "Sponsor ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /sponsors/{id} [get]
func (h *SponsorHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	sponsor, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrSponsorNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to fetch sponsor")
		return
	}

	response.Success(w, "Sponsor retrieved", sponsor)
}

// Create godoc
// @Summary      Add a sponsor to an event
// @Tags         sponsors
// @Accept       json
// @Produce      json
// @Param        request  body  model.CreateSponsorRequest  true  "Sponsor"
// @Security     BearerAuth
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /sponsors [post]
func (h *SponsorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSponsorRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	errs := utils.ValidationErrors{}
	if req.EventID == "" {
		errs["event_id"] = "Event ID is required"
	}
	if utils.SanitizeString(req.Name) == "" {
		errs["name"] = "Name is required"
	}
	if errs.HasErrors() {
		response.ValidationError(w, "Validation failed", errs)
		return
	}

	sponsor, err := h.svc.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Created(w, "Sponsor created", sponsor)
}

// Update godoc
// @Summary      Update a sponsor
// @Tags         sponsors
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Sponsor ID"
// @Param        request  body  model.UpdateSponsorRequest  true  "Changes"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /sponsors/{id} [put]
func (h *SponsorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateSponsorRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	sponsor, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		if errors.Is(err, service.ErrSponsorNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Success(w, "Sponsor updated", sponsor)
}

// Delete godoc
// @Summary      Delete a sponsor
// @Tags         sponsors
// @Produce      json
// @Param        id  path  string  true  "Sponsor ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /sponsors/{id} [delete]
func (h *SponsorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, service.ErrSponsorNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete sponsor")
		return
	}

	response.Success(w, "Sponsor deleted", nil)
}

// UploadLogo godoc
// @Summary      Upload a sponsor logo
// @Tags         sponsors
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Sponsor ID"
// @Param        file  formData  file    true  "Logo"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /sponsors/{id}/logo [post]
func (h *SponsorHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := readUploadedFile(r)
	if err != nil {
		response.BadRequest(w, "A file upload named 'file' is required", nil)
		return
	}

	sponsor, err := h.svc.UploadLogo(r.Context(), chi.URLParam(r, "id"), data, contentType)
	if err != nil {
		if errors.Is(err, service.ErrSponsorNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Success(w, "Logo uploaded", sponsor)
}
