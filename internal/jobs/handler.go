package jobs

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/authz"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

const maxBodySize = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the unauthenticated job routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
	rg.GET("/jobs-count", h.count)
}

// RegisterRoutes attaches routes that need an authenticated caller.
// employerOnly guards the routes restricted to the employer role.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, employerOnly gin.HandlerFunc) {
	rg.POST("/jobs", employerOnly, h.create)
	rg.PUT("/jobs/:id", h.update)
	rg.DELETE("/jobs/:id", h.delete)
	rg.GET("/jobs/employer/my-jobs", employerOnly, h.mine)
}

func (h *Handler) list(c *gin.Context) {
	q := Query{
		Filter: Filter{
			Keyword:    c.Query("keyword"),
			Category:   c.Query("category"),
			Type:       c.Query("type"),
			Experience: c.Query("experience"),
			Location:   c.Query("location"),
		},
		Sort:  ParseSort(c.Query("sort")),
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}.Normalize()

	views, total, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		respond.Internal(c, "Failed to fetch jobs", err)
		return
	}
	respond.Page(c, toResponses(views), len(views), total, respond.Pagination{
		Page:  q.Page,
		Pages: Pages(total, q.Limit),
		Limit: q.Limit,
	})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("jobId", id)
	view, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch job")
		return
	}
	respond.Data(c, http.StatusOK, toResponse(view))
}

func (h *Handler) count(c *gin.Context) {
	n, err := h.Svc.Count(c.Request.Context())
	if err != nil {
		respond.Internal(c, "Failed to get job count", err)
		return
	}
	respond.JSON(c, http.StatusOK, respond.Envelope{Success: true, Count: &n})
}

func (h *Handler) create(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}
	view, err := h.Svc.Create(c.Request.Context(), subjectFrom(c), raw)
	if err != nil {
		writeError(c, err, "Failed to create job")
		return
	}
	c.Set("jobId", view.ID)
	respond.Data(c, http.StatusCreated, toResponse(view))
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set("jobId", id)
	raw, ok := readBody(c)
	if !ok {
		return
	}
	view, err := h.Svc.Update(c.Request.Context(), id, subjectFrom(c), raw)
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			respond.Error(c, http.StatusForbidden, "forbidden", "Not authorized to update this job")
			return
		}
		writeError(c, err, "Failed to update job")
		return
	}
	respond.Data(c, http.StatusOK, toResponse(view))
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("jobId", id)
	if err := h.Svc.Delete(c.Request.Context(), id, subjectFrom(c)); err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			respond.Error(c, http.StatusForbidden, "forbidden", "Not authorized to delete this job")
			return
		}
		writeError(c, err, "Failed to delete job")
		return
	}
	respond.Message(c, http.StatusOK, "Job deleted successfully")
}

func (h *Handler) mine(c *gin.Context) {
	views, err := h.Svc.ListMine(c.Request.Context(), subjectFrom(c))
	if err != nil {
		writeError(c, err, "Failed to fetch jobs")
		return
	}
	respond.List(c, toResponses(views), len(views))
}

func writeError(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Job not found")
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, authz.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "Access denied. Insufficient permissions.")
	default:
		respond.Internal(c, internalMsg, err)
	}
}

func readBody(c *gin.Context) ([]byte, bool) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Unable to read request body")
		return nil, false
	}
	if len(raw) > maxBodySize {
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "Request body too large")
		return nil, false
	}
	return raw, true
}

func subjectFrom(c *gin.Context) authz.Subject {
	id, _ := middleware.IdentityFromContext(c)
	return authz.Subject{ID: id.ID, Role: id.Role}
}

func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
