package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase/interfaces"
)

const invoiceColumns = `id, owner_id, customer_id, quote_id, invoice_number, status, issued_at, due_date,
	subtotal, tax, total, paid_amount, notes, version, created_at, updated_at`

type invoiceRepo struct {
	q querier
}

var _ interfaces.IInvoiceRepository = (*invoiceRepo)(nil)

func (r *invoiceRepo) Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO invoices (`+invoiceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.OwnerID, inv.CustomerID, nullString(inv.QuoteID), inv.InvoiceNumber, string(inv.Status),
		formatTime(inv.IssuedAt), formatTime(inv.DueDate), inv.Subtotal, inv.Tax, inv.Total, inv.PaidAmount,
		inv.Notes, inv.Version, formatTime(inv.CreatedAt), formatTime(inv.UpdatedAt))
	if err != nil {
		return entities.Invoice{}, storeError("insert invoice", err)
	}
	if err := invoiceItems.insert(ctx, r.q, inv.ID, inv.Items); err != nil {
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, ownerID, id string) (entities.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = ? AND owner_id = ?`, id, ownerID)
}

func (r *invoiceRepo) FindByQuoteID(ctx context.Context, quoteID string) (entities.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE quote_id = ?`, quoteID)
}

func (r *invoiceRepo) getOne(ctx context.Context, query string, args ...any) (entities.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Invoice{}, nil
	}
	if err != nil {
		return entities.Invoice{}, fmt.Errorf("get invoice: %w", err)
	}
	if inv.Items, err = invoiceItems.load(ctx, r.q, inv.ID); err != nil {
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, ownerID string, filter interfaces.InvoiceFilter) ([]entities.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE owner_id = ?`
	args := []any{ownerID}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Search != "" {
		query += ` AND (invoice_number LIKE ? ESCAPE '\' OR notes LIKE ? ESCAPE '\')`
		p := likePattern(filter.Search)
		args = append(args, p, p)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	invoices, err := r.collect(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if invoices[i].Items, err = invoiceItems.load(ctx, r.q, invoices[i].ID); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

func (r *invoiceRepo) collect(ctx context.Context, query string, args ...any) ([]entities.Invoice, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	out := make([]entities.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invoiceRepo) UpdateState(ctx context.Context, inv entities.Invoice, expectedVersion int64) (entities.Invoice, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE invoices SET status = ?, paid_amount = ?, updated_at = ?, version = version + 1
		 WHERE id = ? AND owner_id = ? AND version = ?`,
		string(inv.Status), inv.PaidAmount, formatTime(inv.UpdatedAt), inv.ID, inv.OwnerID, expectedVersion)
	if err != nil {
		return entities.Invoice{}, storeError("update invoice state", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return entities.Invoice{}, fmt.Errorf("update invoice state: %w", err)
	} else if n == 0 {
		return entities.Invoice{}, fmt.Errorf("update invoice %s: %w", inv.ID, interfaces.ErrVersionConflict)
	}
	inv.Version = expectedVersion + 1
	return inv, nil
}

// Delete removes the invoice; its items and payments go with it through ON DELETE CASCADE.
func (r *invoiceRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM invoices WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		return storeError("delete invoice", err)
	}
	return nil
}

func (r *invoiceRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM invoices WHERE invoice_number = ?)`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return exists, nil
}

func scanInvoice(s scanner) (entities.Invoice, error) {
	var (
		inv                                     entities.Invoice
		quoteID                                 sql.NullString
		status                                  string
		issuedAt, dueDate, createdAt, updatedAt string
	)
	err := s.Scan(&inv.ID, &inv.OwnerID, &inv.CustomerID, &quoteID, &inv.InvoiceNumber, &status, &issuedAt, &dueDate,
		&inv.Subtotal, &inv.Tax, &inv.Total, &inv.PaidAmount, &inv.Notes, &inv.Version, &createdAt, &updatedAt)
	if err != nil {
		return entities.Invoice{}, err
	}
	inv.QuoteID = quoteID.String
	inv.Status = entities.InvoiceStatus(status)
	var tc timeColumns
	inv.IssuedAt = tc.parse("issued_at", issuedAt)
	inv.DueDate = tc.parse("due_date", dueDate)
	inv.CreatedAt = tc.parse("created_at", createdAt)
	inv.UpdatedAt = tc.parse("updated_at", updatedAt)
	if tc.err != nil {
		return entities.Invoice{}, tc.err
	}
	return inv, nil
}
