package repository

import "invoice_management/internal/domain/entities"

type lineItemRecord struct {
	ID          string `dynamodbav:"id"`
	Name        string `dynamodbav:"name"`
	Description string `dynamodbav:"description,omitempty"`
	Quantity    int64  `dynamodbav:"quantity"`
	UnitPrice   int64  `dynamodbav:"unit_price"`
	Amount      int64  `dynamodbav:"amount"`
}

// Items are embedded in list order; the position is the list index.
func toLineItemRecords(items []entities.LineItem) []lineItemRecord {
	out := make([]lineItemRecord, len(items))
	for i, it := range items {
		out[i] = lineItemRecord{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		}
	}
	return out
}

func fromLineItemRecords(recs []lineItemRecord) []entities.LineItem {
	out := make([]entities.LineItem, len(recs))
	for i, r := range recs {
		out[i] = entities.LineItem{
			ID:          r.ID,
			Position:    i,
			Name:        r.Name,
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			Amount:      r.Amount,
		}
	}
	return out
}
