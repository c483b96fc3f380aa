// AngelaMos | 2026
// service.go

package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/servicios-api/internal/core"
	"github.com/carterperez-dev/servicios-api/internal/geo"
	"github.com/carterperez-dev/servicios-api/internal/middleware"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new pending listing owned by ownerID. Omitted commercial
// terms take their defaults.
func (s *Service) Create(
	ctx context.Context,
	ownerID string,
	req CreateListingRequest,
) (*Listing, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("create listing: %w", core.ErrUnauthorized)
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, core.ValidationError(
			"Datos de entrada inválidos",
			"titulo y descripcion son obligatorios",
		)
	}

	location, err := req.Location.PointForCreate()
	if err != nil {
		return nil, core.ValidationError(geo.Message(err))
	}

	l := &Listing{
		ID:                uuid.New().String(),
		Title:             title,
		Description:       description,
		Category:          req.Category,
		Status:            StatusPending,
		OwnerID:           ownerID,
		Location:          location,
		Price:             0,
		Currency:          DefaultCurrency,
		EstimatedDuration: DefaultDuration,
		DurationUnit:      DefaultDurationUnit,
	}

	if req.Price != nil {
		l.Price = *req.Price
	}
	if req.Currency != nil {
		l.Currency = *req.Currency
	}
	if req.EstimatedDuration != nil {
		l.EstimatedDuration = *req.EstimatedDuration
	}
	if req.DurationUnit != nil {
		l.DurationUnit = *req.DurationUnit
	}

	if err := validateTerms(l); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, l.ID)
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]Listing, int, error) {
	if params.Category != "" && !ValidCategory(params.Category) {
		return nil, 0, core.ValidationError(
			"Categoría inválida",
			"categoria debe ser uno de: "+strings.Join(Categories, ", "),
		)
	}
	if params.SortBy != "" {
		if _, ok := sortColumns[params.SortBy]; !ok {
			return nil, 0, core.ValidationError(
				"Campo de ordenamiento inválido",
				"ordenarPor no admite '"+params.SortBy+"'",
			)
		}
	}
	if params.Order != "" && params.Order != SortAsc && params.Order != SortDesc {
		return nil, 0, core.ValidationError(
			"Orden inválido",
			"orden debe ser asc o desc",
		)
	}

	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id string) (*Listing, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("get listing: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

// Update edits the content of a pending listing. Ownership is checked
// before the status, so a stranger always gets ErrForbidden.
func (s *Service) Update(
	ctx context.Context,
	requesterID, id string,
	req UpdateListingRequest,
) (*Listing, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("update listing: %w", core.ErrNotFound)
	}

	err := s.repo.Mutate(ctx, id, func(l *Listing) error {
		if !l.IsOwnedBy(requesterID) {
			return fmt.Errorf("update listing: %w", core.ErrForbidden)
		}
		if !l.Editable() {
			return core.ConflictError(fmt.Sprintf(
				"Solo se pueden editar servicios en estado '%s' (estado actual: '%s')",
				StatusPending, l.Status,
			))
		}
		return applyUpdate(l, req)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func applyUpdate(l *Listing, req UpdateListingRequest) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return core.ValidationError(
				"Datos de entrada inválidos",
				"titulo no puede estar vacío",
			)
		}
		l.Title = title
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return core.ValidationError(
				"Datos de entrada inválidos",
				"descripcion no puede estar vacía",
			)
		}
		l.Description = description
	}

	if req.Category != nil {
		l.Category = *req.Category
	}
	if req.Price != nil {
		l.Price = *req.Price
	}
	if req.Currency != nil {
		l.Currency = *req.Currency
	}
	if req.EstimatedDuration != nil {
		l.EstimatedDuration = *req.EstimatedDuration
	}
	if req.DurationUnit != nil {
		l.DurationUnit = *req.DurationUnit
	}

	if req.Location.Set {
		location, err := req.Location.Input.Point()
		if err != nil {
			return core.ValidationError(geo.Message(err))
		}
		l.Location = location
	}

	return validateTerms(l)
}

// ChangeStatus moves a listing through the status machine. The requested
// value is checked first, then existence, then ownership.
func (s *Service) ChangeStatus(
	ctx context.Context,
	requesterID, id, requested string,
) (*Listing, error) {
	to, ok := ParseStatus(requested)
	if !ok {
		return nil, core.ValidationError(
			"Estado inválido",
			"nuevoEstado debe ser uno de: pendiente, en progreso, completado",
		)
	}

	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("change status: %w", core.ErrNotFound)
	}

	var from Status
	err := s.repo.Mutate(ctx, id, func(l *Listing) error {
		if !l.IsOwnedBy(requesterID) {
			return fmt.Errorf("change status: %w", core.ErrForbidden)
		}
		if err := l.Status.TransitionTo(to); err != nil {
			return err
		}
		from = l.Status
		l.Status = to
		return nil
	})
	if err != nil {
		var te *TransitionError
		if errors.As(err, &te) {
			return nil, core.ConflictError(
				"No se puede cambiar el estado de '" + string(te.From) +
					"' a '" + string(te.To) + "'",
			)
		}
		return nil, err
	}

	middleware.LoggerFromContext(ctx).Info("listing status changed",
		"listing_id", id,
		"from", string(from),
		"to", string(to),
	)
	core.AddSpanEvent(ctx, "listing.status_changed",
		attribute.String("listing.id", id),
		attribute.String("listing.status.from", string(from)),
		attribute.String("listing.status.to", string(to)),
	)

	return s.repo.GetByID(ctx, id)
}

func validateTerms(l *Listing) error {
	var problems []string
	if l.Price < 0 {
		problems = append(problems, "precio no puede ser negativo")
	}
	if l.EstimatedDuration < 1 {
		problems = append(problems, "duracionEstimada debe ser al menos 1")
	}
	if len(problems) > 0 {
		return core.ValidationError("Datos de entrada inválidos", problems...)
	}
	return nil
}
