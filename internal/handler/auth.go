package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/madan1440/svlf-software/internal/domain"
	"github.com/madan1440/svlf-software/internal/service"
	"github.com/madan1440/svlf-software/pkg/response"
)

type AuthHandler struct {
	userService *service.UserService
	validator   *validator.Validate
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	result, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, result)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	token := bearerToken(r)

	if err := h.userService.Logout(r.Context(), session, token); err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Logged out"})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	response.Success(w, SessionFromContext(r.Context()))
}
