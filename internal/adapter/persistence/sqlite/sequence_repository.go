package sqlite

import (
	"context"
	"fmt"

	"invoice_management/internal/usecase/interfaces"
)

type sequenceRepo struct {
	q querier
}

var _ interfaces.ISequenceRepository = (*sequenceRepo)(nil)

func (r *sequenceRepo) Next(ctx context.Context, scope string) (int64, error) {
	var value int64
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO sequences (scope, value) VALUES (?, 1)
		 ON CONFLICT(scope) DO UPDATE SET value = value + 1
		 RETURNING value`, scope).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", scope, err)
	}
	return value, nil
}
