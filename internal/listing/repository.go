// AngelaMos | 2026
// repository.go

package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/servicios-api/internal/core"
	"github.com/carterperez-dev/servicios-api/internal/geo"
)

// ErrOwnerNotFound is returned by Create when the owning account is gone.
var ErrOwnerNotFound = fmt.Errorf("listing owner not found: %w", core.ErrUnauthorized)

type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id string) (*Listing, error)
	List(ctx context.Context, params ListParams) ([]Listing, int, error)
	// Mutate loads the row under a lock, lets fn change it and writes it
	// back in the same transaction. An error from fn aborts the write.
	Mutate(ctx context.Context, id string, fn func(*Listing) error) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

var listingColumns = `s.id, s.title, s.description, s.category, s.status, s.owner_id, ` +
	geo.Column("s.location", "location") + `, s.price, s.currency,
	s.estimated_duration, s.duration_unit, s.published_at, s.updated_at`

const ownerColumns = `u.id AS "owner.id", u.name AS "owner.name",
	u.email AS "owner.email", u.phone AS "owner.phone", u.role AS "owner.role"`

func (r *repository) Create(ctx context.Context, l *Listing) error {
	query := `
		INSERT INTO services (id, title, description, category, status, owner_id,
		                      location, price, currency, estimated_duration, duration_unit)
		VALUES ($1, $2, $3, $4, $5, $6, ` + geo.Placeholder(7) + `, $8, $9, $10, $11)
		RETURNING published_at, updated_at`

	err := r.db.GetContext(ctx, l, query,
		l.ID,
		l.Title,
		l.Description,
		l.Category,
		l.Status,
		l.OwnerID,
		geo.SQLValue(l.Location),
		l.Price,
		l.Currency,
		l.EstimatedDuration,
		l.DurationUnit,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("create listing: %w", ErrOwnerNotFound)
		}
		return fmt.Errorf("create listing: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Listing, error) {
	query := `
		SELECT ` + listingColumns + `, ` + ownerColumns + `
		FROM services s
		JOIN users u ON u.id = s.owner_id
		WHERE s.id = $1`

	var l Listing
	err := r.db.GetContext(ctx, &l, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get listing: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}

	return &l, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Listing, int, error) {
	params.Normalize()

	sortColumn, ok := sortColumns[params.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("list listings: sort field %q: %w",
			params.SortBy, core.ErrInvalidInput)
	}
	direction := "DESC"
	if params.Order == SortAsc {
		direction = "ASC"
	}

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Category != "" {
		conditions = append(conditions, fmt.Sprintf("s.category = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	if params.Near != nil {
		clause, nearArgs := params.Near.Clause("s.location", argIdx)
		conditions = append(conditions, clause)
		args = append(args, nearArgs...)
		argIdx += len(nearArgs)
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) FROM services s WHERE " + whereClause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM services s
		JOIN users u ON u.id = s.owner_id
		WHERE %s
		ORDER BY %s %s, s.id
		LIMIT $%d OFFSET $%d`,
		listingColumns, ownerColumns, whereClause,
		sortColumn, direction, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	listings := []Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}

	return listings, total, nil
}

func (r *repository) Mutate(
	ctx context.Context,
	id string,
	fn func(*Listing) error,
) error {
	lockQuery := `SELECT ` + listingColumns + ` FROM services s WHERE s.id = $1 FOR UPDATE`

	updateQuery := `
		UPDATE services
		SET title = $2, description = $3, category = $4, status = $5,
		    location = ` + geo.Placeholder(6) + `, price = $7, currency = $8,
		    estimated_duration = $9, duration_unit = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var l Listing
		err := tx.GetContext(ctx, &l, lockQuery, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lock listing: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock listing: %w", err)
		}

		if err := fn(&l); err != nil {
			return err
		}

		err = tx.GetContext(ctx, &l.UpdatedAt, updateQuery,
			l.ID,
			l.Title,
			l.Description,
			l.Category,
			l.Status,
			geo.SQLValue(l.Location),
			l.Price,
			l.Currency,
			l.EstimatedDuration,
			l.DurationUnit,
		)
		if err != nil {
			return fmt.Errorf("update listing: %w", err)
		}

		return nil
	})
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
