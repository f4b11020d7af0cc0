package applications

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/authz"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches application routes. All of them need an authenticated caller.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.apply)
	rg.GET("/applications/my-applications", h.mine)
	rg.GET("/applications/job/:jobId", h.forJob)
	rg.PUT("/applications/:id/status", h.setStatus)
}

type applyRequest struct {
	JobID       string `json:"jobId" binding:"required"`
	CoverLetter string `json:"coverLetter"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobId is required")
		return
	}
	c.Set("jobId", req.JobID)
	view, err := h.Svc.Apply(c.Request.Context(), subjectFrom(c), req.JobID, req.CoverLetter)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			respond.Error(c, http.StatusBadRequest, "duplicate_application", "You have already applied for this job")
			return
		}
		writeError(c, err, "Failed to submit application")
		return
	}
	c.Set("applicationId", view.ID)
	respond.Data(c, http.StatusCreated, toResponse(view))
}

func (h *Handler) mine(c *gin.Context) {
	views, err := h.Svc.ListMine(c.Request.Context(), subjectFrom(c))
	if err != nil {
		writeError(c, err, "Failed to fetch applications")
		return
	}
	respond.List(c, toResponses(views), len(views))
}

func (h *Handler) forJob(c *gin.Context) {
	jobID := c.Param("jobId")
	c.Set("jobId", jobID)
	views, err := h.Svc.ListForJob(c.Request.Context(), jobID, subjectFrom(c))
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			respond.Error(c, http.StatusForbidden, "forbidden", "Not authorized to view applications for this job")
			return
		}
		writeError(c, err, "Failed to fetch applications")
		return
	}
	respond.List(c, toResponses(views), len(views))
}

func (h *Handler) setStatus(c *gin.Context) {
	id := c.Param("id")
	c.Set("applicationId", id)
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "status is required")
		return
	}
	view, previous, err := h.Svc.SetStatus(c.Request.Context(), id, subjectFrom(c), req.Status)
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			respond.Error(c, http.StatusForbidden, "forbidden", "Not authorized to update this application")
			return
		}
		writeError(c, err, "Failed to update application")
		return
	}
	c.Set("jobId", view.JobID)
	c.Set("statusTransition", previous+"->"+view.Status)
	respond.Data(c, http.StatusOK, toResponse(view))
}

func writeError(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, jobs.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Job not found")
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Application not found")
	case errors.Is(err, jobs.ErrInvalidInput), errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, authz.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "Access denied. Insufficient permissions.")
	default:
		respond.Internal(c, internalMsg, err)
	}
}

func subjectFrom(c *gin.Context) authz.Subject {
	id, _ := middleware.IdentityFromContext(c)
	return authz.Subject{ID: id.ID, Role: id.Role}
}
