package helper

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gopress-cms/models"
)

// Pagination is the envelope block returned with every list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Paginate computes the pagination block, with pages = ceil(total / limit).
func Paginate(page, limit int, total int64) *Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return &Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, response{Success: true, Data: data})
}

func SendCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, response{Success: true, Data: data})
}

func SendMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, response{Success: true, Message: message})
}

func SendList(c *gin.Context, data interface{}, pagination *Pagination) {
	c.JSON(http.StatusOK, response{Success: true, Data: data, Pagination: pagination})
}

func SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, response{Success: false, Message: message})
}

// SendError converts a service error into the envelope, mapping the error
// kind to an HTTP status. Unknown errors surface as a generic server error
// without leaking internals.
func SendError(c *gin.Context, err error) {
	c.JSON(StatusCode(err), response{Success: false, Message: ErrorMessage(err)})
}

func StatusCode(err error) int {
	var (
		validationErr *models.ValidationError
		notFoundErr   *models.NotFoundError
		conflictErr   *models.ConflictError
		upstreamErr   *models.UpstreamError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func ErrorMessage(err error) string {
	var upstreamErr *models.UpstreamError
	if errors.As(err, &upstreamErr) {
		return "upstream service failure"
	}
	var (
		validationErr *models.ValidationError
		notFoundErr   *models.NotFoundError
		conflictErr   *models.ConflictError
	)
	if errors.As(err, &validationErr) || errors.As(err, &notFoundErr) || errors.As(err, &conflictErr) {
		return err.Error()
	}
	return "internal server error"
}

// QueryInt reads an integer query parameter, falling back to def when the
// parameter is absent or does not parse. Malformed paging input defaults
// rather than erroring.
func QueryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
