// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/servicios-api/internal/core"
	"github.com/carterperez-dev/servicios-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts /auth. loginLimiter may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	loginLimiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if loginLimiter != nil {
				r.Use(loginLimiter)
			}
			r.Post("/login", h.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
		})
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Datos de entrada inválidos", core.FormatValidationError(err)...)
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.Unauthorized(w, "Credenciales inválidas")
			return
		}
		middleware.LoggerFromContext(r.Context()).Error("login failed", "error", err)
		core.SetSpanError(r.Context(), err)
		core.InternalServerError(w, err)
		return
	}

	core.OKWithMessage(w, "Inicio de sesión exitoso", resp)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetCurrentUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUnauthorized):
			core.Unauthorized(w, "")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "Usuario")
		default:
			middleware.LoggerFromContext(r.Context()).Error("get current user failed", "error", err)
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, resp)
}
