package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediavault/mediavault/pkg/mediavault"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements mediavault.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// handlePostgresError maps constraint violations onto the domain error set.
// Unique violations carry the constraint name, which tells duplicate names
// apart from duplicate locations.
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "name") {
				return mediavault.ErrDuplicateName
			}
			if strings.Contains(pgErr.ConstraintName, "location") {
				return mediavault.ErrDuplicateLocation
			}
			return fmt.Errorf("duplicate entry")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// CreateMedia inserts a record and reads back its generated ID. Uniqueness
// on name and location is enforced by database constraints, so concurrent
// inserts of the same file cannot both commit.
func (r *Repository) CreateMedia(ctx context.Context, media *mediavault.Media) error {
	query := `
		INSERT INTO media (name, title, kind, description, location, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		media.Name, media.Title, media.Kind, media.Description,
		media.Location, media.Status, media.CreatedAt).Scan(&media.ID)

	if err != nil {
		return r.handlePostgresError("create media", err)
	}

	return nil
}

func (r *Repository) GetMedia(ctx context.Context, id int64) (*mediavault.Media, error) {
	query := `
		SELECT id, name, title, kind, description, location, status, created_at
		FROM media WHERE id = $1`

	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetMediaByName(ctx context.Context, name string) (*mediavault.Media, error) {
	query := `
		SELECT id, name, title, kind, description, location, status, created_at
		FROM media WHERE name = $1`

	return r.scanOne(r.db.QueryRow(ctx, query, name))
}

func (r *Repository) GetMediaByLocation(ctx context.Context, location string) (*mediavault.Media, error) {
	query := `
		SELECT id, name, title, kind, description, location, status, created_at
		FROM media WHERE location = $1`

	return r.scanOne(r.db.QueryRow(ctx, query, location))
}

func (r *Repository) UpdateMedia(ctx context.Context, media *mediavault.Media) error {
	query := `
		UPDATE media SET
			name = $2, title = $3, kind = $4, description = $5,
			location = $6, status = $7
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		media.ID, media.Name, media.Title, media.Kind,
		media.Description, media.Location, media.Status)
	if err != nil {
		return r.handlePostgresError("update media", err)
	}
	if tag.RowsAffected() == 0 {
		return mediavault.ErrMediaNotFound
	}

	return nil
}

func (r *Repository) DeleteMedia(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete media", err)
	}
	if tag.RowsAffected() == 0 {
		return mediavault.ErrMediaNotFound
	}

	return nil
}

func (r *Repository) ListMedia(ctx context.Context) ([]*mediavault.Media, error) {
	query := `
		SELECT id, name, title, kind, description, location, status, created_at
		FROM media ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*mediavault.Media
	for rows.Next() {
		var media mediavault.Media
		if err := rows.Scan(
			&media.ID, &media.Name, &media.Title, &media.Kind,
			&media.Description, &media.Location, &media.Status,
			&media.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &media)
	}

	return result, rows.Err()
}

func (r *Repository) scanOne(row pgx.Row) (*mediavault.Media, error) {
	var media mediavault.Media
	err := row.Scan(
		&media.ID, &media.Name, &media.Title, &media.Kind,
		&media.Description, &media.Location, &media.Status, &media.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mediavault.ErrMediaNotFound
		}
		return nil, err
	}

	return &media, nil
}
