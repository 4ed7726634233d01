package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase/interfaces"
)

const quoteColumns = `id, owner_id, customer_id, quote_number, status, issued_at, valid_until,
	subtotal, tax, total, notes, version, created_at, updated_at`

type quoteRepo struct {
	q querier
}

var _ interfaces.IQuoteRepository = (*quoteRepo)(nil)

func (r *quoteRepo) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	var validUntil sql.NullString
	if q.ValidUntil != nil {
		validUntil = nullString(formatTime(*q.ValidUntil))
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO quotes (`+quoteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.OwnerID, q.CustomerID, q.QuoteNumber, string(q.Status), formatTime(q.IssuedAt), validUntil,
		q.Subtotal, q.Tax, q.Total, q.Notes, q.Version, formatTime(q.CreatedAt), formatTime(q.UpdatedAt))
	if err != nil {
		return entities.Quote{}, storeError("insert quote", err)
	}
	if err := quoteItems.insert(ctx, r.q, q.ID, q.Items); err != nil {
		return entities.Quote{}, err
	}
	return q, nil
}

func (r *quoteRepo) GetByID(ctx context.Context, ownerID, id string) (entities.Quote, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = ? AND owner_id = ?`, id, ownerID)
	q, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Quote{}, nil
	}
	if err != nil {
		return entities.Quote{}, fmt.Errorf("get quote: %w", err)
	}
	if q.Items, err = quoteItems.load(ctx, r.q, q.ID); err != nil {
		return entities.Quote{}, err
	}
	return q, nil
}

func (r *quoteRepo) List(ctx context.Context, ownerID string, filter interfaces.QuoteFilter) ([]entities.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE owner_id = ?`
	args := []any{ownerID}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Search != "" {
		query += ` AND (quote_number LIKE ? ESCAPE '\' OR notes LIKE ? ESCAPE '\')`
		p := likePattern(filter.Search)
		args = append(args, p, p)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	quotes, err := r.collect(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for i := range quotes {
		if quotes[i].Items, err = quoteItems.load(ctx, r.q, quotes[i].ID); err != nil {
			return nil, err
		}
	}
	return quotes, nil
}

func (r *quoteRepo) collect(ctx context.Context, query string, args ...any) ([]entities.Quote, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	out := make([]entities.Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *quoteRepo) UpdateStatus(ctx context.Context, q entities.Quote, expectedVersion int64) (entities.Quote, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE quotes SET status = ?, updated_at = ?, version = version + 1
		 WHERE id = ? AND owner_id = ? AND version = ?`,
		string(q.Status), formatTime(q.UpdatedAt), q.ID, q.OwnerID, expectedVersion)
	if err != nil {
		return entities.Quote{}, storeError("update quote status", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return entities.Quote{}, fmt.Errorf("update quote status: %w", err)
	} else if n == 0 {
		return entities.Quote{}, fmt.Errorf("update quote %s: %w", q.ID, interfaces.ErrVersionConflict)
	}
	q.Version = expectedVersion + 1
	return q, nil
}

func (r *quoteRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM quotes WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		return storeError("delete quote", err)
	}
	return nil
}

func (r *quoteRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM quotes WHERE quote_number = ?)`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check quote number: %w", err)
	}
	return exists, nil
}

func scanQuote(s scanner) (entities.Quote, error) {
	var (
		q                              entities.Quote
		status                         string
		issuedAt, createdAt, updatedAt string
		validUntil                     sql.NullString
	)
	err := s.Scan(&q.ID, &q.OwnerID, &q.CustomerID, &q.QuoteNumber, &status, &issuedAt, &validUntil,
		&q.Subtotal, &q.Tax, &q.Total, &q.Notes, &q.Version, &createdAt, &updatedAt)
	if err != nil {
		return entities.Quote{}, err
	}
	q.Status = entities.QuoteStatus(status)
	var tc timeColumns
	q.IssuedAt = tc.parse("issued_at", issuedAt)
	if validUntil.Valid {
		t := tc.parse("valid_until", validUntil.String)
		q.ValidUntil = &t
	}
	q.CreatedAt = tc.parse("created_at", createdAt)
	q.UpdatedAt = tc.parse("updated_at", updatedAt)
	if tc.err != nil {
		return entities.Quote{}, tc.err
	}
	return q, nil
}
