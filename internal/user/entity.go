// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/lib/pq"

	"github.com/carterperez-dev/servicios-api/internal/geo"
)

type User struct {
	ID           string         `db:"id"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Name         string         `db:"name"`
	Phone        *string        `db:"phone"`
	Role         string         `db:"role"`
	Skills       pq.StringArray `db:"skills"`
	Location     *geo.Point     `db:"location"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

const (
	RoleProvider  = "oferente"
	RoleRequester = "solicitante"
)

func ValidRole(role string) bool {
	return role == RoleProvider || role == RoleRequester
}
