package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the response shape shared by every endpoint.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Total      *int        `json:"total,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Data       any         `json:"data,omitempty"`
}

// Pagination describes the current page and the number of pages.
type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Data writes {success:true, data}.
func Data(c *gin.Context, status int, data any) {
	JSON(c, status, Envelope{Success: true, Data: data})
}

// List writes {success:true, count, data} for unpaginated collections.
func List(c *gin.Context, data any, count int) {
	JSON(c, http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// Page writes a paginated collection.
func Page(c *gin.Context, data any, count, total int, page Pagination) {
	JSON(c, http.StatusOK, Envelope{
		Success:    true,
		Count:      &count,
		Total:      &total,
		Pagination: &page,
		Data:       data,
	})
}

// Message writes {success:true, message}.
func Message(c *gin.Context, status int, message string) {
	JSON(c, status, Envelope{Success: true, Message: message})
}
