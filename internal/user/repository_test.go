// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/servicios-api/internal/core"
	"github.com/carterperez-dev/servicios-api/internal/geo"
	"github.com/carterperez-dev/servicios-api/internal/testutil"
)

func newStoredUser(email, role string, loc *geo.Point) *User {
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test",
		Role:         role,
		Skills:       pq.StringArray{"plomeria"},
		Location:     loc,
	}
}

func TestRepositoryPostGIS(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	zocalo := &geo.Point{Lon: -99.1332, Lat: 19.4326}
	coyoacan := &geo.Point{Lon: -99.1620, Lat: 19.3500}
	madrid := &geo.Point{Lon: -3.7038, Lat: 40.4168}

	near := newStoredUser("near@x.com", RoleProvider, zocalo)
	mid := newStoredUser("mid@x.com", RoleRequester, coyoacan)
	far := newStoredUser("far@x.com", RoleProvider, madrid)
	nowhere := newStoredUser("nowhere@x.com", RoleProvider, nil)

	for _, u := range []*User{near, mid, far, nowhere} {
		require.NoError(t, repo.Create(ctx, u))
	}

	t.Run("duplicate email differs only in case", func(t *testing.T) {
		err := repo.Create(ctx, newStoredUser("NEAR@x.com", RoleProvider, nil))
		assert.ErrorIs(t, err, core.ErrDuplicateKey)
	})

	t.Run("location round trip", func(t *testing.T) {
		got, err := repo.GetByID(ctx, near.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Location)
		assert.InDelta(t, zocalo.Lon, got.Location.Lon, 1e-9)
		assert.InDelta(t, zocalo.Lat, got.Location.Lat, 1e-9)
		assert.Equal(t, []string{"plomeria"}, []string(got.Skills))

		got, err = repo.GetByID(ctx, nowhere.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Location)
	})

	t.Run("radius filter", func(t *testing.T) {
		users, total, err := repo.List(ctx, ListUsersParams{
			Near: &geo.Near{Point: *zocalo, RadiusKm: 5},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, users, 1)
		assert.Equal(t, near.ID, users[0].ID)

		_, total, err = repo.List(ctx, ListUsersParams{
			Near: &geo.Near{Point: *zocalo, RadiusKm: 15},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("role filter and paging", func(t *testing.T) {
		users, total, err := repo.List(ctx, ListUsersParams{
			Role:     RoleProvider,
			Page:     1,
			PageSize: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, users, 2)
	})

	t.Run("update clears location", func(t *testing.T) {
		u, err := repo.GetByID(ctx, mid.ID)
		require.NoError(t, err)
		u.Location = nil
		require.NoError(t, repo.Update(ctx, u))

		got, err := repo.GetByEmail(ctx, "MID@x.com")
		require.NoError(t, err)
		assert.Nil(t, got.Location)
	})

	t.Run("missing rows", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New().String())
		assert.ErrorIs(t, err, core.ErrNotFound)

		err = repo.UpdatePassword(ctx, uuid.New().String(), "x")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}
