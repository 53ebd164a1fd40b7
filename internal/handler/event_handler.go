package handler

import (
	"errors"
	"net/http"

	"github.com/confera/conference-hub/internal/middleware"
	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/permission"
	"github.com/confera/conference-hub/internal/response"
	"github.com/confera/conference-hub/internal/service"
	"github.com/confera/conference-hub/internal/utils"
	"github.com/go-chi/chi/v5"
)

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// GetAll godoc
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        published  query  bool    false  "Filter by publication flag"
// @Param        search     query  string  false  "Title search"
// @Param        page       query  int     false  "Page number"
// @Param        per_page   query  int     false  "Items per page"
// @Security     BearerAuth
// @Success      200  {object}  response.PaginatedResponse
// @Router       /events [get]
func (h *EventHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.EventFilter{
		Search:  q.Get("search"),
		Page:    parseIntQuery(q.Get("page"), 1),
		PerPage: parseIntQuery(q.Get("per_page"), 10),
	}
	if p := q.Get("published"); p != "" {
		published := p == "true"
		filter.Published = &published
	}

	// Unpublished events are staff-only. Everyone else gets the
	// published catalog regardless of the filter they asked for.
	if !permission.HasPermission(middleware.GetRoleFromContext(r.Context()), permission.EventsView) {
		published := true
		filter.Published = &published
	}

	tenant := middleware.GetTenantFromContext(r.Context())
	if tenant == nil {
		response.InternalError(w, "Tenant not resolved")
		return
	}

	events, pagination, err := h.svc.GetAll(r.Context(), tenant.ID, filter)
	if err != nil {
		response.InternalError(w, "Failed to fetch events")
		return
	}

	response.Paginated(w, "Events retrieved", events, pagination)
}

// GetByID godoc
// @Summary      Get an event with its pricing tiers
// @Tags         events
// @Produce      json
// @Param        id  path  string  true  "Event ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /events/{id} [get]
func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to fetch event")
		return
	}

	// Hidden from the public until published.
	if !event.IsPublished && !permission.HasPermission(middleware.GetRoleFromContext(r.Context()), permission.EventsView) {
		response.NotFound(w, service.ErrEventNotFound.Error())
		return
	}

	response.Success(w, "Event retrieved", event)
}

// Create godoc
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body  model.CreateEventRequest  true  "Event"
// @Security     BearerAuth
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /events [post]
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	errs := utils.ValidationErrors{}
	if utils.SanitizeString(req.Title) == "" {
		errs["title"] = "Title is required"
	}
	if req.Capacity < 0 {
		errs["capacity"] = "Capacity cannot be negative"
	}
	if errs.HasErrors() {
		response.ValidationError(w, "Validation failed", errs)
		return
	}

	tenant := middleware.GetTenantFromContext(r.Context())
	if tenant == nil {
		response.InternalError(w, "Tenant not resolved")
		return
	}

	createdBy := middleware.GetUserIDFromContext(r.Context())
	event, err := h.svc.Create(r.Context(), tenant.ID, req, createdBy)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEvent) {
			response.Conflict(w, err.Error())
			return
		}
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Created(w, "Event created", event)
}

// Update godoc
// @Summary      Update an event, replacing its pricing tiers
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id       path  string                    true  "Event ID"
// @Param        request  body  model.UpdateEventRequest  true  "Event"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /events/{id} [put]
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	event, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Success(w, "Event updated", event)
}

// Delete godoc
// @Summary      Delete an event and everything attached to it
// @Tags         events
// @Produce      json
// @Param        id  path  string  true  "Event ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /events/{id} [delete]
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete event")
		return
	}

	response.Success(w, "Event deleted", nil)
}

// UploadBanner godoc
// @Summary      Upload the event banner image
// @Tags         events
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Event ID"
// @Param        file  formData  file    true  "Banner image"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /events/{id}/banner [post]
func (h *EventHandler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := readUploadedFile(r)
	if err != nil {
		response.BadRequest(w, "A file upload named 'file' is required", nil)
		return
	}

	event, err := h.svc.UploadBanner(r.Context(), chi.URLParam(r, "id"), data, contentType)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Success(w, "Banner uploaded", event)
}
