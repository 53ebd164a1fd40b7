package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/response"
	"github.com/confera/conference-hub/internal/service"
	"github.com/confera/conference-hub/internal/utils"
	"github.com/go-chi/chi/v5"
)

type CertificateHandler struct {
	svc service.CertificateService
}

func NewCertificateHandler(svc service.CertificateService) *CertificateHandler {
	return &CertificateHandler{svc: svc}
}

// createCertificatePayload covers both the single and the batch shape;
// a present registration_ids array selects the batch path.
type createCertificatePayload struct {
	RegistrationID  string   `json:"registration_id"`
	EventID         string   `json:"event_id"`
	RegistrationIDs []string `json:"registration_ids"`
	Title           string   `json:"title"`
	CMECredits      *float64 `json:"cme_credits"`
}

// GetAll godoc
// @Summary      List certificates
// @Tags         certificates
// @Produce      json
// @Param        event_id  query  string  false  "Filter by event"
// @Param        status    query  string  false  "Filter by status"
// @Param        search    query  string  false  "Recipient name or code search"
// @Param        page      query  int     false  "Page number"
// @Param        per_page  query  int     false  "Items per page"
// @Security     BearerAuth
// @Success      200  {object}  response.PaginatedResponse
// @Router       /certificates [get]
func (h *CertificateHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.CertificateFilter{
		EventID: q.Get("event_id"),
		Status:  q.Get("status"),
		Search:  q.Get("search"),
		Page:    parseIntQuery(q.Get("page"), 1),
		PerPage: parseIntQuery(q.Get("per_page"), 10),
	}

	certs, pagination, err := h.svc.GetAll(r.Context(), actorFromContext(r), filter)
	if err != nil {
		response.InternalError(w, "Failed to fetch certificates")
		return
	}

	response.Paginated(w, "Certificates retrieved", certs, pagination)
}

// GetByID godoc
// @Summary      Get a certificate
// @Description  Counts as a download for the record
// @Tags         certificates
// @Produce      json
// @Param        id  path  string  true  "Certificate ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /certificates/{id} [get]
func (h *CertificateHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	cert, err := h.svc.GetByID(r.Context(), actorFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, "Certificate retrieved", cert)
}

// Create godoc
// @Summary      Issue certificates
// @Description  With registration_id issues a single certificate; with a registration_ids array issues in batch for the event's attended registrations
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Param        request  body  handler.createCertificatePayload  true  "Issue request"
// @Security     BearerAuth
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /certificates [post]
func (h *CertificateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createCertificatePayload
	if err := utils.DecodeJSON(r, &payload); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	actor := actorFromContext(r)

	if payload.RegistrationIDs != nil {
		if payload.EventID == "" {
			response.ValidationError(w, "Validation failed", utils.ValidationErrors{"event_id": "Event ID is required"})
			return
		}

		result, err := h.svc.BulkCreate(r.Context(), model.BulkCreateCertificateRequest{
			EventID:         payload.EventID,
			RegistrationIDs: payload.RegistrationIDs,
			Title:           payload.Title,
		}, actor.ID.String())
		if err != nil {
			h.writeError(w, err)
			return
		}

		response.Created(w, fmt.Sprintf("%d certificates issued", result.Created), result)
		return
	}

	if payload.RegistrationID == "" {
		response.ValidationError(w, "Validation failed", utils.ValidationErrors{"registration_id": "Registration ID is required"})
		return
	}

	cert, err := h.svc.Create(r.Context(), model.CreateCertificateRequest{
		RegistrationID: payload.RegistrationID,
		Title:          payload.Title,
		CMECredits:     payload.CMECredits,
	}, actor.ID.String())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, "Certificate issued", cert)
}

// Revoke godoc
// @Summary      Revoke a certificate
// @Description  Terminal; requires a non-empty reason
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Param        id       path  string                           true  "Certificate ID"
// @Param        request  body  model.RevokeCertificateRequest  true  "Revocation"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /certificates/{id}/revoke [post]
func (h *CertificateHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	var req model.RevokeCertificateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.svc.Revoke(r.Context(), chi.URLParam(r, "id"), req.Reason); err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, "Certificate revoked", nil)
}

// Regenerate godoc
// @Summary      Regenerate a certificate
// @Description  Replaces the certificate with a fresh code and issue date; rejected for revoked certificates
// @Tags         certificates
// @Produce      json
// @Param        id  path  string  true  "Certificate ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /certificates/{id}/regenerate [post]
func (h *CertificateHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	cert, err := h.svc.Regenerate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, "Certificate regenerated", cert)
}

// Download godoc
// @Summary      Download a certificate PDF
// @Tags         certificates
// @Produce      application/pdf
// @Param        id  path  string  true  "Certificate ID"
// @Security     BearerAuth
// @Success      200  {file}    byte
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /certificates/{id}/download [get]
func (h *CertificateHandler) Download(w http.ResponseWriter, r *http.Request) {
	pdfBytes, code, err := h.svc.DownloadPDF(r.Context(), actorFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, code))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

// Verify godoc
// @Summary      Verify a certificate by code
// @Description  Public lookup; returns the reduced certificate view with a validity flag
// @Tags         certificates
// @Produce      json
// @Param        code  path  string  true  "Certificate code"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /certificates/verify/{code} [get]
func (h *CertificateHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Verify(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, service.ErrCertificateNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Verification failed")
		return
	}

	response.Success(w, "Certificate verification result", result)
}

func (h *CertificateHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCertificateNotFound),
		errors.Is(err, service.ErrRegistrationNotFound),
		errors.Is(err, service.ErrEventNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, service.ErrCertificateNotOwned):
		response.Forbidden(w, err.Error())
	case errors.Is(err, service.ErrCertificateExists),
		errors.Is(err, service.ErrAlreadyRevoked),
		errors.Is(err, service.ErrCertificateRevoked),
		errors.Is(err, service.ErrCertificateCollision):
		response.Conflict(w, err.Error())
	case errors.Is(err, service.ErrRevokedReasonMissing),
		errors.Is(err, service.ErrNoEligibleTargets):
		response.BadRequest(w, err.Error(), nil)
	default:
		response.InternalError(w, "Certificate operation failed")
	}
}
