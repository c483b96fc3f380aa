// AngelaMos | 2026
// handler.go

package listing

import (
	"errors"
	"net/http"
	"strings"

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
		validator: newValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/services", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{serviceID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", h.Create)
			r.Put("/{serviceID}", h.Update)
			r.Patch("/{serviceID}/estado", h.ChangeStatus)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Datos de entrada inválidos", core.FormatValidationError(err)...)
		return
	}

	l, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Created(w, "Servicio creado exitosamente", ToListingResponse(l))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	near, err := geo.ParseNear(q.Get("ubicacion"), q.Get("radio"))
	if err != nil {
		core.BadRequest(w, geo.Message(err))
		return
	}

	params := ListParams{
		Page:     core.ParseIntQuery(r, "page", 1),
		PageSize: core.ParseIntQuery(r, "limit", DefaultPageSize),
		Category: q.Get("categoria"),
		Near:     near,
		SortBy:   q.Get("ordenarPor"),
		Order:    strings.ToLower(q.Get("orden")),
	}

	if raw := q.Get("estado"); raw != "" {
		status, ok := ParseStatus(raw)
		if !ok {
			core.BadRequest(w, "Estado inválido",
				"estado debe ser uno de: pendiente, en progreso, completado")
			return
		}
		params.Status = status
	}

	listings, total, err := h.service.List(r.Context(), params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	params.Normalize()
	core.OK(w, ListingListResponse{
		Listings:   ToListingResponseList(listings),
		Pagination: core.NewPagination(params.Page, params.PageSize, total),
		Filters:    params.Filters(),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Get(r.Context(), chi.URLParam(r, "serviceID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, ToListingResponse(l))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateListingRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Datos de entrada inválidos", core.FormatValidationError(err)...)
		return
	}

	l, err := h.service.Update(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "serviceID"),
		req,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OKWithMessage(w, "Servicio actualizado exitosamente", ToListingResponse(l))
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req ChangeStatusRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Datos de entrada inválidos", core.FormatValidationError(err)...)
		return
	}

	l, err := h.service.ChangeStatus(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "serviceID"),
		req.NewStatus,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OKWithMessage(w, "Estado actualizado a '"+string(l.Status)+"'", ToListingResponse(l))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "Servicio")
	case errors.Is(err, ErrOwnerNotFound):
		core.Unauthorized(w, "Usuario del token no encontrado")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "Solo el creador del servicio puede modificarlo")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "Datos de entrada inválidos")
	default:
		middleware.LoggerFromContext(r.Context()).Error("service request failed",
			"error", err,
		)
		core.SetSpanError(r.Context(), err)
		core.InternalServerError(w, err)
	}
}
