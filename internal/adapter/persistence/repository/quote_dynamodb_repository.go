package repository

import (
	"context"
	"strconv"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type quoteItem struct {
	ID          string           `dynamodbav:"id"`
	OwnerID     string           `dynamodbav:"owner_id"`
	CustomerID  string           `dynamodbav:"customer_id"`
	QuoteNumber string           `dynamodbav:"quote_number"`
	Status      string           `dynamodbav:"status"`
	IssuedAt    string           `dynamodbav:"issued_at"`
	ValidUntil  string           `dynamodbav:"valid_until,omitempty"`
	Subtotal    int64            `dynamodbav:"subtotal"`
	Tax         int64            `dynamodbav:"tax"`
	Total       int64            `dynamodbav:"total"`
	Notes       string           `dynamodbav:"notes,omitempty"`
	Items       []lineItemRecord `dynamodbav:"items"`
	Version     int64            `dynamodbav:"version"`
	CreatedAt   string           `dynamodbav:"created_at"`
	UpdatedAt   string           `dynamodbav:"updated_at"`
}

// QuoteDynamoRepository persists quotes with embedded items. The quote number is claimed
// in the uniques table in the same transaction as the quote itself.
type QuoteDynamoRepository struct {
	tx *txn
}

var _ interfaces.IQuoteRepository = (*QuoteDynamoRepository)(nil)

func (r *QuoteDynamoRepository) Create(_ context.Context, q entities.Quote) (entities.Quote, error) {
	err := r.tx.put(r.tx.tables.Quotes, toQuoteItem(q),
		"attribute_not_exists(#id)", map[string]string{"#id": "id"}, nil, nil)
	if err != nil {
		return entities.Quote{}, err
	}
	if err := r.tx.claim(quoteNumberKey(q.QuoteNumber), q.ID, interfaces.ErrDuplicateNumber); err != nil {
		return entities.Quote{}, err
	}
	return q, nil
}

func (r *QuoteDynamoRepository) GetByID(ctx context.Context, ownerID, id string) (entities.Quote, error) {
	var it quoteItem
	found, err := r.tx.getItem(ctx, r.tx.tables.Quotes, idKey(id), &it)
	if err != nil {
		return entities.Quote{}, err
	}
	if !found || it.OwnerID != ownerID {
		return entities.Quote{}, nil
	}
	return fromQuoteItem(it)
}

func (r *QuoteDynamoRepository) List(ctx context.Context, ownerID string, filter interfaces.QuoteFilter) ([]entities.Quote, error) {
	in := ownerQuery(r.tx.tables.Quotes, ownerID, map[string]string{"status": string(filter.Status)})
	var items []quoteItem
	if err := r.tx.queryAll(ctx, in, &items); err != nil {
		return nil, err
	}
	out := make([]entities.Quote, 0, len(items))
	for _, it := range items {
		if !matchesSearch(filter.Search, it.QuoteNumber, it.Notes) {
			continue
		}
		q, err := fromQuoteItem(it)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (r *QuoteDynamoRepository) UpdateStatus(_ context.Context, q entities.Quote, expectedVersion int64) (entities.Quote, error) {
	r.tx.update(r.tx.tables.Quotes, idKey(q.ID),
		"SET #status = :status, #updated_at = :updated_at, #version = :next",
		"attribute_exists(#id) AND #version = :expected",
		map[string]string{"#status": "status", "#updated_at": "updated_at", "#version": "version"},
		map[string]types.AttributeValue{
			":status":     str(string(q.Status)),
			":updated_at": str(formatTime(q.UpdatedAt)),
			":expected":   numberAttr(expectedVersion),
			":next":       numberAttr(expectedVersion + 1),
		},
		interfaces.ErrVersionConflict)
	q.Version = expectedVersion + 1
	return q, nil
}

// Delete removes the quote unless it changed since it was read or an invoice claimed it
// in the meantime.
func (r *QuoteDynamoRepository) Delete(ctx context.Context, ownerID, id string) error {
	q, err := r.GetByID(ctx, ownerID, id)
	if err != nil || q.ID == "" {
		return err
	}
	r.tx.requireFree(invoiceQuoteKey(id), interfaces.ErrQuoteAlreadyInvoiced)
	r.tx.deleteVersion(r.tx.tables.Quotes, idKey(id), q.Version)
	r.tx.release(quoteNumberKey(q.QuoteNumber))
	return nil
}

func (r *QuoteDynamoRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	ref, err := r.tx.lookup(ctx, quoteNumberKey(number))
	return ref != "", err
}

func numberAttr(v int64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}
}

func toQuoteItem(q entities.Quote) quoteItem {
	it := quoteItem{
		ID:          q.ID,
		OwnerID:     q.OwnerID,
		CustomerID:  q.CustomerID,
		QuoteNumber: q.QuoteNumber,
		Status:      string(q.Status),
		IssuedAt:    formatTime(q.IssuedAt),
		Subtotal:    q.Subtotal,
		Tax:         q.Tax,
		Total:       q.Total,
		Notes:       q.Notes,
		Items:       toLineItemRecords(q.Items),
		Version:     q.Version,
		CreatedAt:   formatTime(q.CreatedAt),
		UpdatedAt:   formatTime(q.UpdatedAt),
	}
	if q.ValidUntil != nil {
		it.ValidUntil = formatTime(*q.ValidUntil)
	}
	return it
}

func fromQuoteItem(it quoteItem) (entities.Quote, error) {
	var tc timeColumns
	q := entities.Quote{
		ID:          it.ID,
		OwnerID:     it.OwnerID,
		CustomerID:  it.CustomerID,
		QuoteNumber: it.QuoteNumber,
		Status:      entities.QuoteStatus(it.Status),
		IssuedAt:    tc.parse("issued_at", it.IssuedAt),
		Subtotal:    it.Subtotal,
		Tax:         it.Tax,
		Total:       it.Total,
		Notes:       it.Notes,
		Items:       fromLineItemRecords(it.Items),
		Version:     it.Version,
		CreatedAt:   tc.parse("created_at", it.CreatedAt),
		UpdatedAt:   tc.parse("updated_at", it.UpdatedAt),
	}
	if it.ValidUntil != "" {
		t := tc.parse("valid_until", it.ValidUntil)
		q.ValidUntil = &t
	}
	if tc.err != nil {
		return entities.Quote{}, tc.err
	}
	return q, nil
}
