package resumes

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/extract"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

// multipartOverhead is the allowance for boundaries and part headers on top of MaxSize.
const multipartOverhead = 1 << 20

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches résumé routes. All of them need an authenticated caller.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/upload", h.upload)
	rg.GET("/resumes/my-resume", h.mine)
	rg.GET("/resumes/my-resume/text", h.text)
	rg.GET("/resumes/download/:filename", h.download)
	rg.DELETE("/resumes/delete", h.delete)
}

type textResponse struct {
	Text string `json:"text"`
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxSize+multipartOverhead)
	header, err := c.FormFile("resume")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respond.Error(c, http.StatusBadRequest, "file_too_large", "File too large. Maximum size is 5MB")
			return
		}
		respond.Error(c, http.StatusBadRequest, "missing_file", "Please upload a file")
		return
	}
	if !AllowedMimeType(header.Header.Get("Content-Type")) {
		respond.Error(c, http.StatusBadRequest, "unsupported_type", "Only PDF, DOC, and DOCX files are allowed")
		return
	}
	if header.Size > MaxSize {
		respond.Error(c, http.StatusBadRequest, "file_too_large", "File too large. Maximum size is 5MB")
		return
	}

	res, err := h.uploadPart(c, header)
	if err != nil {
		writeError(c, err, "Failed to upload resume")
		return
	}
	respond.JSON(c, http.StatusOK, respond.Envelope{
		Success: true,
		Message: "Resume uploaded successfully",
		Data:    toResponse(res),
	})
}

func (h *Handler) uploadPart(c *gin.Context, header *multipart.FileHeader) (Resume, error) {
	f, err := header.Open()
	if err != nil {
		return Resume{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return h.Svc.Upload(c.Request.Context(), UploadInput{
		UserID:       middleware.UserIDFromContext(c),
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
		Body:         f,
	})
}

func (h *Handler) mine(c *gin.Context) {
	res, err := h.Svc.GetMine(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "Failed to fetch resume")
		return
	}
	respond.Data(c, http.StatusOK, toResponse(res))
}

func (h *Handler) text(c *gin.Context) {
	text, err := h.Svc.Text(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) {
			respond.Error(c, http.StatusBadRequest, "unsupported_type", "Text preview is only available for PDF and DOCX files")
			return
		}
		writeError(c, err, "Failed to read resume")
		return
	}
	respond.Data(c, http.StatusOK, textResponse{Text: text})
}

func (h *Handler) download(c *gin.Context) {
	filename := c.Param("filename")
	body, contentType, err := h.Svc.Open(c.Request.Context(), filename)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "File not found")
			return
		}
		writeError(c, err, "Failed to download file")
		return
	}
	defer body.Close()
	c.DataFromReader(http.StatusOK, -1, contentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
	})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c)); err != nil {
		writeError(c, err, "Failed to delete resume")
		return
	}
	respond.Message(c, http.StatusOK, "Resume deleted successfully")
}

func writeError(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "No resume found")
	case errors.Is(err, ErrInvalidFileName):
		respond.Error(c, http.StatusBadRequest, "invalid_filename", "Invalid filename")
	case errors.Is(err, ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, "unsupported_type", "Only PDF, DOC, and DOCX files are allowed")
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusBadRequest, "file_too_large", "File too large. Maximum size is 5MB")
	case errors.Is(err, ErrNoFile):
		respond.Error(c, http.StatusBadRequest, "missing_file", "Please upload a file")
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", "Another upload is in progress, please retry")
	default:
		respond.Internal(c, internalMsg, err)
	}
}
