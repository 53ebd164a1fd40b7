package handler

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/response"
	"github.com/confera/conference-hub/internal/service"
	"github.com/confera/conference-hub/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type RegistrationHandler struct {
	svc service.RegistrationService
}

func NewRegistrationHandler(svc service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

// GetAll godoc
// @Summary      List registrations
// @Tags         registrations
// @Produce      json
// @Param        event_id        query  string  false  "Filter by event"
// @Param        status          query  string  false  "Filter by status"
// @Param        payment_status  query  string  false  "Filter by payment status"
// @Param        search          query  string  false  "Name or email search"
// @Param        page            query  int     false  "Page number"
// @Param        per_page        query  int     false  "Items per page"
// @Security     BearerAuth
// @Success      200  {object}  response.PaginatedResponse
// @Router       /registrations [get]
func (h *RegistrationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.RegistrationFilter{
		EventID:       q.Get("event_id"),
		Status:        q.Get("status"),
		PaymentStatus: q.Get("payment_status"),
		Search:        q.Get("search"),
		Page:          parseIntQuery(q.Get("page"), 1),
		PerPage:       parseIntQuery(q.Get("per_page"), 10),
	}

	regs, pagination, err := h.svc.GetAll(r.Context(), filter)
	if err != nil {
		response.InternalError(w, "Failed to fetch registrations")
		return
	}

	response.Paginated(w, "Registrations retrieved", regs, pagination)
}

// Export godoc
// @Summary      Export registrations as CSV
// @Tags         registrations
// @Produce      text/csv
// @Param        event_id        query  string  false  "Filter by event"
// @Param        status          query  string  false  "Filter by status"
// @Param        payment_status  query  string  false  "Filter by payment status"
// @Security     BearerAuth
// @Success      200
// @Router       /registrations/export [get]
func (h *RegistrationHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.RegistrationFilter{
		EventID:       q.Get("event_id"),
		Status:        q.Get("status"),
		PaymentStatus: q.Get("payment_status"),
		Search:        q.Get("search"),
	}

	regs, err := h.svc.Export(r.Context(), filter)
	if err != nil {
		response.InternalError(w, "Failed to export registrations")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"email", "full_name", "organization", "event", "status",
		"payment_status", "amount", "currency", "attendance_status",
		"checked_in_at", "registered_at",
	})
	for _, reg := range regs {
		eventTitle := ""
		if reg.EventTitle != nil {
			eventTitle = *reg.EventTitle
		}
		checkedIn := ""
		if reg.CheckedInAt != nil {
			checkedIn = reg.CheckedInAt.Format(time.RFC3339)
		}
		_ = cw.Write([]string{
			reg.Email,
			reg.FullName,
			reg.Organization,
			eventTitle,
			string(reg.Status),
			string(reg.PaymentStatus),
			strconv.FormatFloat(reg.Amount, 'f', 2, 64),
			reg.Currency,
			string(reg.AttendanceStatus),
			checkedIn,
			reg.CreatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
}

// GetByID godoc
// @Summary      Get a registration
// @Tags         registrations
// @Produce      json
// @Param        id  path  string  true  "Registration ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /registrations/{id} [get]
func (h *RegistrationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	reg, err := h.svc.GetByID(r.Context(), actorFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, service.ErrRegistrationNotOwned):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to fetch registration")
		}
		return
	}

	response.Success(w, "Registration retrieved", reg)
}

// Create godoc
// @Summary      Register an attendee (staff)
// @Description  Staff-initiated signup; bypasses the public registration window
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        request  body  model.CreateRegistrationRequest  true  "Registration"
// @Security     BearerAuth
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /registrations [post]
func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, true)
}

// CreatePublic godoc
// @Summary      Register an attendee (public)
// @Description  Unauthenticated signup subject to publication, open flag, and deadline
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        request  body  model.CreateRegistrationRequest  true  "Registration"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /registrations/public [post]
func (h *RegistrationHandler) CreatePublic(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, false)
}

func (h *RegistrationHandler) create(w http.ResponseWriter, r *http.Request, privileged bool) {
	var req model.CreateRegistrationRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	errs := utils.ValidationErrors{}
	if req.EventID == "" {
		errs["event_id"] = "Event ID is required"
	}
	if !utils.IsValidEmail(req.Email) {
		errs["email"] = "A valid email is required"
	}
	if utils.SanitizeString(req.FullName) == "" {
		errs["full_name"] = "Full name is required"
	}
	if req.Amount < 0 {
		errs["amount"] = "Amount cannot be negative"
	}
	if errs.HasErrors() {
		response.ValidationError(w, "Validation failed", errs)
		return
	}

	var registeredBy *uuid.UUID
	if privileged {
		actor := actorFromContext(r)
		if actor.ID != uuid.Nil {
			registeredBy = &actor.ID
		}
	}

	reg, err := h.svc.Create(r.Context(), req, privileged, registeredBy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, service.ErrDuplicateRegistration):
			response.Conflict(w, err.Error())
		case errors.Is(err, service.ErrEventUnpublished),
			errors.Is(err, service.ErrRegistrationClosed),
			errors.Is(err, service.ErrRegistrationDeadline):
			response.BadRequest(w, err.Error(), nil)
		default:
			response.InternalError(w, "Failed to create registration")
		}
		return
	}

	response.Created(w, "Registration created", reg)
}

// Update godoc
// @Summary      Update a registration
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        id       path  string                           true  "Registration ID"
// @Param        request  body  model.UpdateRegistrationRequest  true  "Changes"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /registrations/{id} [put]
func (h *RegistrationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateRegistrationRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	reg, err := h.svc.Update(r.Context(), actorFromContext(r), chi.URLParam(r, "id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, service.ErrRegistrationNotOwned):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to update registration")
		}
		return
	}

	response.Success(w, "Registration updated", reg)
}

// Delete godoc
// @Summary      Delete a registration
// @Description  Rejected while a certificate is still attached
// @Tags         registrations
// @Produce      json
// @Param        id  path  string  true  "Registration ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /registrations/{id} [delete]
func (h *RegistrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, service.ErrRegistrationHasCert):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to delete registration")
		}
		return
	}

	response.Success(w, "Registration deleted", nil)
}

// Bulk godoc
// @Summary      Apply a bulk action to registrations
// @Description  confirm, cancel, mark_attended, mark_paid, or send_email; all-or-nothing precondition on the ID list
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        request  body  model.BulkRegistrationRequest  true  "Batch"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /registrations/bulk [post]
func (h *RegistrationHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req model.BulkRegistrationRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.svc.Bulk(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyBulkSelection),
			errors.Is(err, service.ErrMissingRegistrations),
			errors.Is(err, service.ErrUnknownBulkAction):
			response.BadRequest(w, err.Error(), nil)
		default:
			response.InternalError(w, "Bulk action failed")
		}
		return
	}

	response.Success(w, "Bulk action applied", result)
}
