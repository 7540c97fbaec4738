package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johdel/machinery/internal/order/app"
	"github.com/johdel/machinery/internal/order/domain"
)

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `id, user_id, user_email, shipping_address, items, shipping_method, status, total_amount, payment_reference, created_at, updated_at`

func (r *OrderRepo) Insert(ctx context.Context, order domain.Order) (domain.Order, error) {
	addr, items, err := encodeJSON(order)
	if err != nil {
		return domain.Order{}, err
	}

	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, user_email, shipping_address, items, shipping_method, status, total_amount, payment_reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+orderColumns,
		order.ID, order.UserID, order.UserEmail, addr, items,
		string(order.ShippingMethod), string(order.Status), order.TotalAmount, order.PaymentReference,
	)
	return scanOrder(row)
}

func (r *OrderRepo) Update(ctx context.Context, order domain.Order) (domain.Order, error) {
	addr, items, err := encodeJSON(order)
	if err != nil {
		return domain.Order{}, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE orders
		SET user_email = $2,
		    shipping_address = $3,
		    items = $4,
		    shipping_method = $5,
		    total_amount = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns,
		order.ID, order.UserEmail, addr, items, string(order.ShippingMethod), order.TotalAmount,
	)
	return scanOrder(row)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status domain.Status, paymentRef string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET status = $2,
		    payment_reference = CASE WHEN $3 <> '' THEN $3 ELSE payment_reference END,
		    updated_at = now()
		WHERE id = $1`,
		id, string(status), paymentRef,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, app.ErrNotFound
		}
		return domain.Order{}, err
	}
	return order, nil
}

func (r *OrderRepo) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *OrderRepo) ListAll(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func encodeJSON(order domain.Order) (addr, items []byte, err error) {
	addr, err = json.Marshal(order.ShippingAddress)
	if err != nil {
		return nil, nil, fmt.Errorf("encode shipping address: %w", err)
	}
	items, err = json.Marshal(order.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("encode items: %w", err)
	}
	return addr, items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		o              domain.Order
		addr, items    []byte
		method, status string
	)
	err := row.Scan(&o.ID, &o.UserID, &o.UserEmail, &addr, &items,
		&method, &status, &o.TotalAmount, &o.PaymentReference, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}

	if err := json.Unmarshal(addr, &o.ShippingAddress); err != nil {
		return domain.Order{}, fmt.Errorf("decode shipping address: %w", err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return domain.Order{}, fmt.Errorf("decode items: %w", err)
	}

	o.ShippingMethod = domain.ShippingMethod(method)
	o.Status = domain.Status(status)
	return o, nil
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
