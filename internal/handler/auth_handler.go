package handler

import (
	"errors"
	"net/http"

	"github.com/confera/conference-hub/internal/middleware"
	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/response"
	"github.com/confera/conference-hub/internal/service"
	"github.com/confera/conference-hub/internal/utils"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary      Log in
// @Description  Authenticate with email and password, returns a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	errs := utils.ValidationErrors{}
	if req.Email == "" {
		errs["email"] = "Email is required"
	}
	if req.Password == "" {
		errs["password"] = "Password is required"
	}
	if errs.HasErrors() {
		response.ValidationError(w, "Validation failed", errs)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrAccountDisabled) {
			response.Unauthorized(w, err.Error())
			return
		}
		response.InternalError(w, "Login failed")
		return
	}

	response.Success(w, "Login successful", result)
}

// RegisterPublic godoc
// @Summary      Sign up
// @Description  Self-service account creation; the account is always an attendee
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      service.RegisterRequest  true  "New account"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) RegisterPublic(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, false)
}

// Register godoc
// @Summary      Create a user account
// @Description  Create a staff or attendee account (super admin only)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      service.RegisterRequest  true  "New user"
// @Security     BearerAuth
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /users [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, true)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, allowRole bool) {
	var req service.RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Self-signup never picks its own role.
	if !allowRole {
		req.Role = model.RoleAttendee
	}

	errs := utils.ValidationErrors{}
	if req.Name == "" {
		errs["name"] = "Name is required"
	}
	if !utils.IsValidEmail(req.Email) {
		errs["email"] = "A valid email is required"
	}
	if !utils.IsValidPassword(req.Password) {
		errs["password"] = "Password needs at least 8 characters with a letter and a digit"
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

	user, err := h.authService.Register(r.Context(), tenant.ID, req)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			response.Conflict(w, err.Error())
			return
		}
		if errors.Is(err, service.ErrUnknownRole) {
			response.BadRequest(w, err.Error(), nil)
			return
		}
		response.InternalError(w, "Failed to create user")
		return
	}

	response.Created(w, "User created", user)
}

// RefreshToken godoc
// @Summary      Refresh the token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      service.RefreshTokenRequest  true  "Refresh token"
// @Success      200      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req service.RefreshTokenRequest
	if err := utils.DecodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		response.BadRequest(w, "Refresh token is required", nil)
		return
	}

	pair, err := h.authService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	response.Success(w, "Token refreshed", pair)
}

// Me godoc
// @Summary      Current user profile with permissions
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	me, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		response.Unauthorized(w, "Account not found")
		return
	}

	response.Success(w, "Profile retrieved", me)
}
