// AngelaMos | 2026
// dto.go

package listing

import (
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/servicios-api/internal/core"
	"github.com/carterperez-dev/servicios-api/internal/geo"
)

type CreateListingRequest struct {
	Title             string     `json:"titulo"           validate:"required,max=100"`
	Description       string     `json:"descripcion"      validate:"required,max=1000"`
	Category          string     `json:"categoria"        validate:"required,category"`
	Location          *geo.Input `json:"ubicacion"`
	Price             *float64   `json:"precio"           validate:"omitempty,gte=0"`
	Currency          *string    `json:"moneda"           validate:"omitempty,currency"`
	EstimatedDuration *int       `json:"duracionEstimada" validate:"omitempty,gte=1"`
	DurationUnit      *string    `json:"unidadDuracion"   validate:"omitempty,duration_unit"`
}

type UpdateListingRequest struct {
	Title             *string   `json:"titulo"           validate:"omitempty,max=100"`
	Description       *string   `json:"descripcion"      validate:"omitempty,max=1000"`
	Category          *string   `json:"categoria"        validate:"omitempty,category"`
	Location          geo.Field `json:"ubicacion"`
	Price             *float64  `json:"precio"           validate:"omitempty,gte=0"`
	Currency          *string   `json:"moneda"           validate:"omitempty,currency"`
	EstimatedDuration *int      `json:"duracionEstimada" validate:"omitempty,gte=1"`
	DurationUnit      *string   `json:"unidadDuracion"   validate:"omitempty,duration_unit"`
}

// newValidator extends the shared validator with the listing vocabularies
// so request tags and entity constants cannot drift apart.
func newValidator() *validator.Validate {
	v := core.NewValidator()
	//nolint:errcheck // tag names and funcs are static
	_ = v.RegisterValidation("category", oneOf(Categories))
	//nolint:errcheck // tag names and funcs are static
	_ = v.RegisterValidation("currency", oneOf(Currencies))
	//nolint:errcheck // tag names and funcs are static
	_ = v.RegisterValidation("duration_unit", oneOf(DurationUnits))
	return v
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}

type ChangeStatusRequest struct {
	NewStatus string `json:"nuevoEstado" validate:"required"`
}

type OwnerResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"nombre"`
	Email string  `json:"email"`
	Phone *string `json:"telefono,omitempty"`
	Role  string  `json:"rol"`
}

type ListingResponse struct {
	ID                string        `json:"id"`
	Title             string        `json:"titulo"`
	Description       string        `json:"descripcion"`
	Category          string        `json:"categoria"`
	Status            Status        `json:"estado"`
	Owner             OwnerResponse `json:"creadoPor"`
	Location          *geo.Point    `json:"ubicacion,omitempty"`
	Price             float64       `json:"precio"`
	Currency          string        `json:"moneda"`
	EstimatedDuration int           `json:"duracionEstimada"`
	DurationUnit      string        `json:"unidadDuracion"`
	PublishedAt       time.Time     `json:"fechaPublicacion"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// Filters echoes the applied query back to the client.
type Filters struct {
	Category string     `json:"categoria,omitempty"`
	Status   Status     `json:"estado,omitempty"`
	Location *geo.Point `json:"ubicacion,omitempty"`
	RadiusKm *float64   `json:"radio,omitempty"`
	SortBy   string     `json:"ordenarPor"`
	Order    string     `json:"orden"`
}

type ListingListResponse struct {
	Listings   []ListingResponse `json:"servicios"`
	Pagination core.Pagination   `json:"paginacion"`
	Filters    Filters           `json:"filtros"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	SortAsc  = "asc"
	SortDesc = "desc"

	DefaultSortField = "fechaPublicacion"
)

// sortColumns whitelists the sortable wire fields.
var sortColumns = map[string]string{
	"fechaPublicacion": "s.published_at",
	"precio":           "s.price",
	"titulo":           "s.title",
	"estado":           "s.status",
	"categoria":        "s.category",
	"duracionEstimada": "s.estimated_duration",
	"updatedAt":        "s.updated_at",
}

type ListParams struct {
	Page     int
	PageSize int
	Category string
	Status   Status
	Near     *geo.Near
	SortBy   string
	Order    string
}

func (p *ListParams) Normalize() {
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.Page = core.ClampPage(p.Page, p.PageSize)
	if p.SortBy == "" {
		p.SortBy = DefaultSortField
	}
	if p.Order == "" {
		p.Order = SortDesc
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p *ListParams) Filters() Filters {
	f := Filters{
		Category: p.Category,
		Status:   p.Status,
		SortBy:   p.SortBy,
		Order:    p.Order,
	}
	if p.Near != nil {
		point := p.Near.Point
		radius := p.Near.RadiusKm
		f.Location = &point
		f.RadiusKm = &radius
	}
	return f
}

func ToListingResponse(l *Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Status:      l.Status,
		Owner: OwnerResponse{
			ID:    l.Owner.ID,
			Name:  l.Owner.Name,
			Email: l.Owner.Email,
			Phone: l.Owner.Phone,
			Role:  l.Owner.Role,
		},
		Location:          l.Location,
		Price:             l.Price,
		Currency:          l.Currency,
		EstimatedDuration: l.EstimatedDuration,
		DurationUnit:      l.DurationUnit,
		PublishedAt:       l.PublishedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

func ToListingResponseList(listings []Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, ToListingResponse(&listings[i]))
	}
	return out
}
