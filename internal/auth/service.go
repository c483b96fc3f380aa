// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/servicios-api/internal/core"
	"github.com/carterperez-dev/servicios-api/internal/middleware"
	"github.com/carterperez-dev/servicios-api/internal/user"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetUser(ctx context.Context, id string) (*user.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	jwt          *JWTManager
	userProvider UserProvider
}

func NewService(jwt *JWTManager, userProvider UserProvider) *Service {
	return &Service{
		jwt:          jwt,
		userProvider: userProvider,
	}
}

// Login answers every failure with ErrInvalidCredentials and spends the
// same hashing work whether or not the email exists.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	u, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.BurnPasswordCheck(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	check, err := core.CheckPassword(req.Password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !check.Match {
		return nil, ErrInvalidCredentials
	}

	if check.Rehash != "" {
		if err := s.userProvider.UpdatePassword(ctx, u.ID, check.Rehash); err != nil {
			middleware.LoggerFromContext(ctx).Warn("password rehash failed",
				"user_id", u.ID,
				"error", err,
			)
		}
	}

	token, err := s.jwt.CreateAccessToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &AuthResponse{
		User:      user.ToUserResponse(u),
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*user.UserResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("get current user: %w", core.ErrUnauthorized)
	}

	u, err := s.userProvider.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := user.ToUserResponse(u)
	return &resp, nil
}

var _ UserProvider = (*user.Service)(nil)
