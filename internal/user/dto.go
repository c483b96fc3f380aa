// AngelaMos | 2026
// dto.go

package user

import (
	"strings"
	"time"

	"github.com/carterperez-dev/servicios-api/internal/core"
	"github.com/carterperez-dev/servicios-api/internal/geo"
)

type CreateUserRequest struct {
	Name     string     `json:"nombre"      validate:"required,max=100"`
	Email    string     `json:"email"       validate:"required,email,max=255"`
	Password string     `json:"password"    validate:"required,min=6,max=128"`
	Role     string     `json:"rol"         validate:"required,oneof=oferente solicitante"`
	Phone    string     `json:"telefono"    validate:"omitempty,phone"`
	Skills   []string   `json:"habilidades" validate:"omitempty,max=50,dive,max=50"`
	Location *geo.Input `json:"ubicacion"`
}

// UpdateUserRequest has no password field, so a password sent to the
// profile endpoint is dropped by the decoder.
type UpdateUserRequest struct {
	Name     *string   `json:"nombre"      validate:"omitempty,max=100"`
	Email    *string   `json:"email"       validate:"omitempty,email,max=255"`
	Phone    *string   `json:"telefono"`
	Role     *string   `json:"rol"         validate:"omitempty,oneof=oferente solicitante"`
	Skills   *[]string `json:"habilidades" validate:"omitempty,max=50,dive,max=50"`
	Location geo.Field `json:"ubicacion"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6,max=128"`
}

type UserResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"nombre"`
	Email     string     `json:"email"`
	Phone     *string    `json:"telefono,omitempty"`
	Role      string     `json:"rol"`
	Skills    []string   `json:"habilidades"`
	Location  *geo.Point `json:"ubicacion,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type UserListResponse struct {
	Users      []UserResponse  `json:"usuarios"`
	Pagination core.Pagination `json:"paginacion"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type ListUsersParams struct {
	Page     int
	PageSize int
	Role     string
	Near     *geo.Near
}

func (p *ListUsersParams) Normalize() {
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.Page = core.ClampPage(p.Page, p.PageSize)
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	skills := []string(u.Skills)
	if skills == nil {
		skills = []string{}
	}

	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Skills:    skills,
		Location:  u.Location,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// cleanSkills trims every tag and drops the empty ones.
func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
