package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase/interfaces"
)

const customerColumns = `id, owner_id, name, email, phone, address, created_at, updated_at`

type customerRepo struct {
	q querier
}

var _ interfaces.ICustomerRepository = (*customerRepo)(nil)

func (r *customerRepo) Create(ctx context.Context, c entities.Customer) (entities.Customer, error) {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO customers (`+customerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Name, c.Email, c.Phone, c.Address, formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return entities.Customer{}, storeError("insert customer", err)
	}
	return c, nil
}

func (r *customerRepo) GetByID(ctx context.Context, ownerID, id string) (entities.Customer, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ? AND owner_id = ?`, id, ownerID)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Customer{}, nil
	}
	if err != nil {
		return entities.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *customerRepo) List(ctx context.Context, ownerID string, filter interfaces.CustomerFilter) ([]entities.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE owner_id = ?`
	args := []any{ownerID}
	if filter.Search != "" {
		query += ` AND (name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\')`
		p := likePattern(filter.Search)
		args = append(args, p, p, p)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	out := make([]entities.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *customerRepo) Update(ctx context.Context, c entities.Customer) (entities.Customer, error) {
	_, err := r.q.ExecContext(ctx,
		`UPDATE customers SET name = ?, email = ?, phone = ?, address = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		c.Name, c.Email, c.Phone, c.Address, formatTime(c.UpdatedAt), c.ID, c.OwnerID)
	if err != nil {
		return entities.Customer{}, storeError("update customer", err)
	}
	return c, nil
}

func (r *customerRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM customers WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		return storeError("delete customer", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(s scanner) (entities.Customer, error) {
	var (
		c                    entities.Customer
		createdAt, updatedAt string
	)
	if err := s.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone, &c.Address, &createdAt, &updatedAt); err != nil {
		return entities.Customer{}, err
	}
	var tc timeColumns
	c.CreatedAt = tc.parse("created_at", createdAt)
	c.UpdatedAt = tc.parse("updated_at", updatedAt)
	if tc.err != nil {
		return entities.Customer{}, tc.err
	}
	return c, nil
}
