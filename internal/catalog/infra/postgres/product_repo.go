package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johdel/machinery/internal/catalog/app"
	"github.com/johdel/machinery/internal/catalog/domain"
)

type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

const productColumns = `id, name, description, unit_amount, category, stock, image_url, featured, created_at, updated_at`

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, description, unit_amount, category, stock, image_url, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+productColumns,
		p.ID, p.Name, p.Description, p.UnitAmount, p.Category, p.Stock, p.ImageURL, p.Featured,
	)
	return scanProduct(row)
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, unit_amount = $4, category = $5,
		    stock = $6, image_url = $7, featured = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		p.ID, p.Name, p.Description, p.UnitAmount, p.Category, p.Stock, p.ImageURL, p.Featured,
	)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, app.ErrNotFound
		}
		return domain.Product{}, err
	}
	return updated, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, app.ErrNotFound
		}
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context, filter app.ListFilter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += ` AND category = $` + strconv.Itoa(len(args))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		query += ` AND featured = $` + strconv.Itoa(len(args))
	}
	args = append(args, filter.Limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// AdjustStock applies the delta atomically; the stock CHECK constraint
// turns an oversell into ErrOutOfStock.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta int) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		id, delta,
	)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, app.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return domain.Product{}, app.ErrOutOfStock
		}
		return domain.Product{}, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.UnitAmount, &p.Category,
		&p.Stock, &p.ImageURL, &p.Featured, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
