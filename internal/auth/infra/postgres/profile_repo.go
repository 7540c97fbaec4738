package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johdel/machinery/internal/auth"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// Role returns the role claim for a user, or auth.ErrNoSession when no
// profile row exists.
func (r *ProfileRepo) Role(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.pool.QueryRow(ctx, `SELECT role FROM profiles WHERE id = $1`, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", auth.ErrNoSession
		}
		return "", err
	}
	return role, nil
}

func (r *ProfileRepo) List(ctx context.Context, limit int) ([]auth.Profile, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, email, role FROM profiles ORDER BY email LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []auth.Profile
	for rows.Next() {
		var p auth.Profile
		if err := rows.Scan(&p.UserID, &p.Email, &p.Role); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
