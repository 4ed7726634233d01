package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase/interfaces"
)

const paymentColumns = `id, owner_id, invoice_id, amount, paid_at, method, status, notes, provider_reference,
	created_at, updated_at`

type paymentRepo struct {
	q querier
}

var _ interfaces.IPaymentRepository = (*paymentRepo)(nil)

func (r *paymentRepo) Create(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO payments (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.InvoiceID, p.Amount, formatTime(p.PaidAt), string(p.Method), string(p.Status),
		p.Notes, p.ProviderReference, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return entities.Payment{}, storeError("insert payment", err)
	}
	return p, nil
}

func (r *paymentRepo) GetByID(ctx context.Context, ownerID, id string) (entities.Payment, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ? AND owner_id = ?`, id, ownerID)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Payment{}, nil
	}
	if err != nil {
		return entities.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *paymentRepo) ListByInvoiceID(ctx context.Context, invoiceID string) ([]entities.Payment, error) {
	return r.collect(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE invoice_id = ? ORDER BY paid_at, id`, invoiceID)
}

func (r *paymentRepo) List(ctx context.Context, ownerID string, filter interfaces.PaymentFilter) ([]entities.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE owner_id = ?`
	args := []any{ownerID}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.InvoiceID != "" {
		query += ` AND invoice_id = ?`
		args = append(args, filter.InvoiceID)
	}
	if filter.Search != "" {
		query += ` AND invoice_id IN (
			SELECT i.id FROM invoices i JOIN customers c ON c.id = i.customer_id
			WHERE i.owner_id = ? AND (i.invoice_number LIKE ? ESCAPE '\' OR c.name LIKE ? ESCAPE '\'))`
		p := likePattern(filter.Search)
		args = append(args, ownerID, p, p)
	}
	query += ` ORDER BY paid_at DESC, id DESC`
	return r.collect(ctx, query, args...)
}

func (r *paymentRepo) collect(ctx context.Context, query string, args ...any) ([]entities.Payment, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	out := make([]entities.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *paymentRepo) Update(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	_, err := r.q.ExecContext(ctx,
		`UPDATE payments SET amount = ?, paid_at = ?, method = ?, status = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		p.Amount, formatTime(p.PaidAt), string(p.Method), string(p.Status), p.Notes, formatTime(p.UpdatedAt),
		p.ID, p.OwnerID)
	if err != nil {
		return entities.Payment{}, storeError("update payment", err)
	}
	return p, nil
}

func (r *paymentRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM payments WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		return storeError("delete payment", err)
	}
	return nil
}

func scanPayment(s scanner) (entities.Payment, error) {
	var (
		p                            entities.Payment
		method, status               string
		paidAt, createdAt, updatedAt string
	)
	err := s.Scan(&p.ID, &p.OwnerID, &p.InvoiceID, &p.Amount, &paidAt, &method, &status, &p.Notes,
		&p.ProviderReference, &createdAt, &updatedAt)
	if err != nil {
		return entities.Payment{}, err
	}
	var tc timeColumns
	p.PaidAt = tc.parse("paid_at", paidAt)
	p.Method = entities.PaymentMethod(method)
	p.Status = entities.PaymentStatus(status)
	p.CreatedAt = tc.parse("created_at", createdAt)
	p.UpdatedAt = tc.parse("updated_at", updatedAt)
	if tc.err != nil {
		return entities.Payment{}, tc.err
	}
	return p, nil
}
