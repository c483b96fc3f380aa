// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/servicios-api/internal/core"
	"github.com/carterperez-dev/servicios-api/internal/geo"
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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.Register)
		r.Get("/", h.ListUsers)
		r.Get("/{userID}", h.GetUser)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Put("/{userID}", h.UpdateUser)
			r.Put("/{userID}/password", h.ChangePassword)
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Datos de entrada inválidos", core.FormatValidationError(err)...)
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Created(w, "Usuario creado exitosamente", map[string]any{
		"user": ToUserResponse(user),
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	near, err := geo.ParseNear(q.Get("ubicacion"), q.Get("radio"))
	if err != nil {
		core.BadRequest(w, geo.Message(err))
		return
	}

	params := ListUsersParams{
		Page:     core.ParseIntQuery(r, "page", 1),
		PageSize: core.ParseIntQuery(r, "limit", DefaultPageSize),
		Role:     q.Get("rol"),
		Near:     near,
	}
	params.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, UserListResponse{
		Users:      ToUserResponseList(users),
		Pagination: core.NewPagination(params.Page, params.PageSize, total),
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Datos de entrada inválidos", core.FormatValidationError(err)...)
		return
	}

	user, err := h.service.UpdateUser(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "userID"),
		req,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OKWithMessage(w, "Usuario actualizado exitosamente", ToUserResponse(user))
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Datos de entrada inválidos", core.FormatValidationError(err)...)
		return
	}

	err := h.service.ChangePassword(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "userID"),
		req,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OKWithMessage(w, "Contraseña actualizada exitosamente", nil)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "Usuario")
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.DuplicateError("email"))
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "Solo puedes modificar tu propia cuenta")
	default:
		middleware.LoggerFromContext(r.Context()).Error("user request failed",
			"error", err,
		)
		core.SetSpanError(r.Context(), err)
		core.InternalServerError(w, err)
	}
}

func ToUserResponseList(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}
