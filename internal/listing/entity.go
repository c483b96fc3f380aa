// AngelaMos | 2026
// entity.go

package listing

import (
	"slices"
	"time"

	"github.com/carterperez-dev/servicios-api/internal/geo"
)

type Listing struct {
	ID                string     `db:"id"`
	Title             string     `db:"title"`
	Description       string     `db:"description"`
	Category          string     `db:"category"`
	Status            Status     `db:"status"`
	OwnerID           string     `db:"owner_id"`
	Location          *geo.Point `db:"location"`
	Price             float64    `db:"price"`
	Currency          string     `db:"currency"`
	EstimatedDuration int        `db:"estimated_duration"`
	DurationUnit      string     `db:"duration_unit"`
	PublishedAt       time.Time  `db:"published_at"`
	UpdatedAt         time.Time  `db:"updated_at"`

	Owner Owner `db:"owner"`
}

// Owner is the creator's public profile, joined on reads.
type Owner struct {
	ID    string  `db:"id"`
	Name  string  `db:"name"`
	Email string  `db:"email"`
	Phone *string `db:"phone"`
	Role  string  `db:"role"`
}

func (l *Listing) IsOwnedBy(userID string) bool {
	return userID != "" && l.OwnerID == userID
}

// Editable reports whether the content may still change.
func (l *Listing) Editable() bool {
	return l.Status == StatusPending
}

var Categories = []string{
	"plomeria",
	"electricidad",
	"carpinteria",
	"limpieza",
	"jardineria",
	"pintura",
	"mudanzas",
	"reparaciones",
	"tecnologia",
	"clases",
	"otros",
}

const (
	CurrencyMXN = "MXN"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"

	UnitHours = "horas"
	UnitDays  = "dias"
	UnitWeeks = "semanas"

	DefaultCurrency     = CurrencyMXN
	DefaultDurationUnit = UnitHours
	DefaultDuration     = 1
)

var (
	Currencies    = []string{CurrencyMXN, CurrencyUSD, CurrencyEUR}
	DurationUnits = []string{UnitHours, UnitDays, UnitWeeks}
)

func ValidCategory(c string) bool {
	return slices.Contains(Categories, c)
}
