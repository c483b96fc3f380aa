// AngelaMos | 2026
// fake_test.go

package user

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/carterperez-dev/servicios-api/internal/core"
)

type memoryRepo struct {
	mu    sync.Mutex
	users map[string]User
	order []string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[string]User{}}
}

func (m *memoryRepo) emailTaken(email, exceptID string) bool {
	for id, u := range m.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (m *memoryRepo) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.emailTaken(user.Email, "") {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	m.users[user.ID] = *user
	m.order = append(m.order, user.ID)
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return &u, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (m *memoryRepo) Update(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if m.emailTaken(user.Email, user.ID) {
		return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
	}
	user.UpdatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *memoryRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	m.users[id] = u
	return nil
}

func (m *memoryRepo) List(_ context.Context, params ListUsersParams) ([]User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	params.Normalize()
	var matched []User
	for _, id := range m.order {
		u := m.users[id]
		if params.Role != "" && u.Role != params.Role {
			continue
		}
		matched = append(matched, u)
	}

	total := len(matched)
	start := min(params.Offset(), total)
	end := min(start+params.PageSize, total)
	return matched[start:end], total, nil
}

func (m *memoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
