package sqlite

import (
	"context"
	"fmt"

	"invoice_management/internal/domain/entities"
)

// itemTable names the line item table of a document kind and its parent column.
type itemTable struct {
	table  string
	parent string
}

var (
	quoteItems   = itemTable{table: "quote_items", parent: "quote_id"}
	invoiceItems = itemTable{table: "invoice_items", parent: "invoice_id"}
)

func (t itemTable) insert(ctx context.Context, q querier, parentID string, items []entities.LineItem) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, %s, position, name, description, quantity, unit_price, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, t.table, t.parent)
	for i, it := range items {
		if _, err := q.ExecContext(ctx, query,
			it.ID, parentID, i, it.Name, it.Description, it.Quantity, it.UnitPrice, it.Amount); err != nil {
			return storeError("insert "+t.table, err)
		}
	}
	return nil
}

func (t itemTable) load(ctx context.Context, q querier, parentID string) ([]entities.LineItem, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, position, name, description, quantity, unit_price, amount FROM %s WHERE %s = ? ORDER BY position`,
		t.table, t.parent), parentID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", t.table, err)
	}
	defer rows.Close()

	items := make([]entities.LineItem, 0)
	for rows.Next() {
		var it entities.LineItem
		if err := rows.Scan(&it.ID, &it.Position, &it.Name, &it.Description, &it.Quantity, &it.UnitPrice, &it.Amount); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
