package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=job_seeker employer"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterRoutes mounts the public auth endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
}

// RegisterPrivateRoutes mounts endpoints behind RequireAuth.
func (h *Handler) RegisterPrivateRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.me)
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Please provide a valid name, email, password and role")
		return
	}
	user, token, err := h.Svc.Register(c.Request.Context(), RegisterInput(req))
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusBadRequest, "email_taken", "User already exists")
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			respond.Internal(c, "Server error", err)
		}
		return
	}
	respond.Data(c, http.StatusCreated, sessionResponse{Token: token, User: user})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Please provide an email and password")
		return
	}
	user, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredential) {
			respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
			return
		}
		respond.Internal(c, "Server error", err)
		return
	}
	respond.Data(c, http.StatusOK, sessionResponse{Token: token, User: user})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "User not found")
			return
		}
		respond.Internal(c, "Server error", err)
		return
	}
	respond.Data(c, http.StatusOK, user)
}
