// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/carterperez-dev/servicios-api/internal/user"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type AuthResponse struct {
	User      user.UserResponse `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
}
