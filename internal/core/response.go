// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"sync/atomic"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

var errorDetail atomic.Bool

// SetErrorDetail controls whether the underlying cause of a failure is
// copied into the envelope's error field. Disabled in production.
func SetErrorDetail(enabled bool) {
	errorDetail.Store(enabled)
}

func JSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func OKWithMessage(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func JSONError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError(err)
	}

	body := Response{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Errors,
	}

	if errorDetail.Load() && appErr.Err != nil {
		body.Error = appErr.Err.Error()
	}

	JSON(w, appErr.StatusCode, body)
}

func BadRequest(w http.ResponseWriter, message string, fieldErrors ...string) {
	JSONError(w, ValidationError(message, fieldErrors...))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func InternalServerError(w http.ResponseWriter, err error) {
	JSONError(w, InternalError(err))
}

// Pagination is the metadata block attached to every list response.
type Pagination struct {
	Page        int  `json:"paginaActual"`
	TotalPages  int  `json:"totalPaginas"`
	Total       int  `json:"totalElementos"`
	Limit       int  `json:"limite"`
	HasNext     bool `json:"tieneSiguiente"`
	HasPrevious bool `json:"tieneAnterior"`
}

// ClampPage bounds page to [1, math.MaxInt/pageSize] so the row offset
// (page-1)*pageSize never overflows.
func ClampPage(page, pageSize int) int {
	if page < 1 {
		return 1
	}
	if pageSize > 0 && page > math.MaxInt/pageSize {
		return math.MaxInt / pageSize
	}
	return page
}

func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Pagination{
		Page:        page,
		TotalPages:  totalPages,
		Total:       total,
		Limit:       limit,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
