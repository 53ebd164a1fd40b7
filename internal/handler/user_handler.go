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

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetAll godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        role      query  string  false  "Filter by role"
// @Param        search    query  string  false  "Name or email search"
// @Param        page      query  int     false  "Page number"
// @Param        per_page  query  int     false  "Items per page"
// @Security     BearerAuth
// @Success      200  {object}  response.PaginatedResponse
// @Router       /users [get]
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.UserFilter{
		Role:    q.Get("role"),
		Search:  q.Get("search"),
		Page:    parseIntQuery(q.Get("page"), 1),
		PerPage: parseIntQuery(q.Get("per_page"), 10),
	}

	users, pagination, err := h.svc.GetAll(r.Context(), filter)
	if err != nil {
		response.InternalError(w, "Failed to fetch users")
		return
	}

	responses := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}

	response.Paginated(w, "Users retrieved", responses, pagination)
}

// GetByID godoc
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetByID(r.Context(), actorFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, "User retrieved", user.ToResponse())
}

// Update godoc
// @Summary      Update a user
// @Description  Role and active-status changes are reserved for super admins; nobody may change their own role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path  string                   true  "User ID"
// @Param        request  body  model.UpdateUserRequest  true  "Changes"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	user, err := h.svc.Update(r.Context(), actorFromContext(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, "User updated", user)
}

// UpdateMe godoc
// @Summary      Update the caller's own profile
// @Description  Role and active status stay out of reach here
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body  model.UpdateUserRequest  true  "Profile fields"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	actor := actorFromContext(r)
	user, err := h.svc.Update(r.Context(), actor, actor.ID.String(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, "Profile updated", user)
}

// Delete godoc
// @Summary      Delete a user
// @Description  Self-deletion is always rejected
// @Tags         users
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), actorFromContext(r), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, "User deleted", nil)
}

func (h *UserHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, service.ErrUserNotOwned),
		errors.Is(err, service.ErrRoleChangeDenied),
		errors.Is(err, service.ErrOwnRoleChange):
		response.Forbidden(w, err.Error())
	case errors.Is(err, service.ErrSelfDelete),
		errors.Is(err, service.ErrUnknownRole):
		response.BadRequest(w, err.Error(), nil)
	case errors.Is(err, service.ErrEmailAlreadyExists):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, "User operation failed")
	}
}
