// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

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

// Register creates an account. The email is stored lowercased and the
// password only as an argon2id hash.
func (s *Service) Register(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, core.ValidationError(
			"Datos de entrada inválidos",
			"nombre es obligatorio",
		)
	}

	location, err := req.Location.PointForCreate()
	if err != nil {
		return nil, core.ValidationError(geo.Message(err))
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(req.Email),
		PasswordHash: passwordHash,
		Name:         name,
		Phone:        trimOptional(&req.Phone),
		Role:         req.Role,
		Skills:       cleanSkills(req.Skills),
		Location:     location,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	if params.Role != "" && !ValidRole(params.Role) {
		return nil, 0, core.ValidationError(
			"Rol inválido",
			"rol debe ser uno de: oferente, solicitante",
		)
	}
	return s.repo.List(ctx, params)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	if !isUUID(id) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

// GetByEmail returns the stored record including its password hash.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// UpdateUser applies a partial profile update. Only the account owner may
// edit the profile.
func (s *Service) UpdateUser(
	ctx context.Context,
	requesterID, id string,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if requesterID != user.ID {
		return nil, fmt.Errorf("update user: %w", core.ErrForbidden)
	}

	if err := applyUpdate(user, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func applyUpdate(user *User, req UpdateUserRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return core.ValidationError(
				"Datos de entrada inválidos",
				"nombre no puede estar vacío",
			)
		}
		user.Name = name
	}

	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}

	if req.Phone != nil {
		phone := trimOptional(req.Phone)
		if phone != nil && !core.ValidPhone(*phone) {
			return core.ValidationError(
				"Datos de entrada inválidos",
				"telefono no tiene un formato válido",
			)
		}
		user.Phone = phone
	}

	if req.Role != nil {
		user.Role = *req.Role
	}

	if req.Skills != nil {
		user.Skills = cleanSkills(*req.Skills)
	}

	if req.Location.Set {
		location, err := req.Location.Input.Point()
		if err != nil {
			return core.ValidationError(geo.Message(err))
		}
		user.Location = location
	}

	return nil
}

// ChangePassword re-verifies the current password before storing the new
// one. A wrong current password is a validation failure: the caller is
// already authenticated.
func (s *Service) ChangePassword(
	ctx context.Context,
	requesterID, id string,
	req ChangePasswordRequest,
) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if requesterID != user.ID {
		return fmt.Errorf("change password: %w", core.ErrForbidden)
	}

	valid, err := core.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return core.ValidationError("La contraseña actual es incorrecta")
	}

	passwordHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, user.ID, passwordHash)
}

func (s *Service) ResolveIdentity(
	ctx context.Context,
	userID string,
) (*middleware.Identity, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &middleware.Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, nil
}

var _ middleware.IdentityResolver = (*Service)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// trimOptional trims the value and maps an empty result to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func isUUID(id string) bool {
	return uuid.Validate(id) == nil
}
