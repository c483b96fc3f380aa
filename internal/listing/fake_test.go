// AngelaMos | 2026
// fake_test.go

package listing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carterperez-dev/servicios-api/internal/core"
)

// memoryRepo serializes Mutate calls the way a row lock would.
type memoryRepo struct {
	mu       sync.Mutex
	listings map[string]Listing
	order    []string
	owners   map[string]Owner
}

func newMemoryRepo(owners ...Owner) *memoryRepo {
	m := &memoryRepo{
		listings: map[string]Listing{},
		owners:   map[string]Owner{},
	}
	for _, o := range owners {
		m.owners[o.ID] = o
	}
	return m
}

func (m *memoryRepo) Create(_ context.Context, l *Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.owners[l.OwnerID]; !ok {
		return fmt.Errorf("create listing: %w", ErrOwnerNotFound)
	}
	now := time.Now()
	l.PublishedAt, l.UpdatedAt = now, now
	m.listings[l.ID] = *l
	m.order = append(m.order, l.ID)
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.listings[id]
	if !ok {
		return nil, fmt.Errorf("get listing: %w", core.ErrNotFound)
	}
	l.Owner = m.owners[l.OwnerID]
	return &l, nil
}

func (m *memoryRepo) List(_ context.Context, params ListParams) ([]Listing, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	params.Normalize()
	var matched []Listing
	for _, id := range m.order {
		l := m.listings[id]
		if params.Category != "" && l.Category != params.Category {
			continue
		}
		if params.Status != "" && l.Status != params.Status {
			continue
		}
		l.Owner = m.owners[l.OwnerID]
		matched = append(matched, l)
	}

	total := len(matched)
	start := min(params.Offset(), total)
	end := min(start+params.PageSize, total)
	return matched[start:end], total, nil
}

func (m *memoryRepo) Mutate(_ context.Context, id string, fn func(*Listing) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.listings[id]
	if !ok {
		return fmt.Errorf("lock listing: %w", core.ErrNotFound)
	}
	if err := fn(&l); err != nil {
		return err
	}
	l.UpdatedAt = time.Now()
	m.listings[id] = l
	return nil
}
