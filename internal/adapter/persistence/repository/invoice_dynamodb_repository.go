package repository

import (
	"context"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type invoiceItem struct {
	ID            string           `dynamodbav:"id"`
	OwnerID       string           `dynamodbav:"owner_id"`
	CustomerID    string           `dynamodbav:"customer_id"`
	QuoteID       string           `dynamodbav:"quote_id,omitempty"`
	InvoiceNumber string           `dynamodbav:"invoice_number"`
	Status        string           `dynamodbav:"status"`
	IssuedAt      string           `dynamodbav:"issued_at"`
	DueDate       string           `dynamodbav:"due_date"`
	Subtotal      int64            `dynamodbav:"subtotal"`
	Tax           int64            `dynamodbav:"tax"`
	Total         int64            `dynamodbav:"total"`
	PaidAmount    int64            `dynamodbav:"paid_amount"`
	Notes         string           `dynamodbav:"notes,omitempty"`
	Items         []lineItemRecord `dynamodbav:"items"`
	Version       int64            `dynamodbav:"version"`
	CreatedAt     string           `dynamodbav:"created_at"`
	UpdatedAt     string           `dynamodbav:"updated_at"`
}

// InvoiceDynamoRepository persists invoices with embedded items.
//
// The invoice number and, for converted invoices, the quote reference are claimed in the
// uniques table together with the invoice, which makes a racing second conversion fail
// with ErrQuoteAlreadyInvoiced. A conversion also checks that its quote is still stored
// and ACCEPTED, so it cannot commit alongside a delete of that quote.
type InvoiceDynamoRepository struct {
	tx *txn
}

var _ interfaces.IInvoiceRepository = (*InvoiceDynamoRepository)(nil)

func (r *InvoiceDynamoRepository) Create(_ context.Context, inv entities.Invoice) (entities.Invoice, error) {
	err := r.tx.put(r.tx.tables.Invoices, toInvoiceItem(inv),
		"attribute_not_exists(#id)", map[string]string{"#id": "id"}, nil, nil)
	if err != nil {
		return entities.Invoice{}, err
	}
	if err := r.tx.claim(invoiceNumberKey(inv.InvoiceNumber), inv.ID, interfaces.ErrDuplicateNumber); err != nil {
		return entities.Invoice{}, err
	}
	if inv.QuoteID != "" {
		if err := r.tx.claim(invoiceQuoteKey(inv.QuoteID), inv.ID, interfaces.ErrQuoteAlreadyInvoiced); err != nil {
			return entities.Invoice{}, err
		}
		r.tx.check(r.tx.tables.Quotes, idKey(inv.QuoteID),
			"attribute_exists(#id) AND #owner_id = :owner_id AND #status = :accepted",
			map[string]string{"#id": "id", "#owner_id": "owner_id", "#status": "status"},
			map[string]types.AttributeValue{
				":owner_id": str(inv.OwnerID),
				":accepted": str(string(entities.QuoteStatusAccepted)),
			},
			interfaces.ErrVersionConflict)
	}
	return inv, nil
}

func (r *InvoiceDynamoRepository) GetByID(ctx context.Context, ownerID, id string) (entities.Invoice, error) {
	inv, err := r.get(ctx, id)
	if err != nil || inv.OwnerID != ownerID {
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceDynamoRepository) FindByQuoteID(ctx context.Context, quoteID string) (entities.Invoice, error) {
	invoiceID, err := r.tx.lookup(ctx, invoiceQuoteKey(quoteID))
	if err != nil || invoiceID == "" {
		return entities.Invoice{}, err
	}
	return r.get(ctx, invoiceID)
}

func (r *InvoiceDynamoRepository) get(ctx context.Context, id string) (entities.Invoice, error) {
	var it invoiceItem
	found, err := r.tx.getItem(ctx, r.tx.tables.Invoices, idKey(id), &it)
	if err != nil || !found {
		return entities.Invoice{}, err
	}
	return fromInvoiceItem(it)
}

func (r *InvoiceDynamoRepository) List(ctx context.Context, ownerID string, filter interfaces.InvoiceFilter) ([]entities.Invoice, error) {
	in := ownerQuery(r.tx.tables.Invoices, ownerID, map[string]string{"status": string(filter.Status)})
	var items []invoiceItem
	if err := r.tx.queryAll(ctx, in, &items); err != nil {
		return nil, err
	}
	out := make([]entities.Invoice, 0, len(items))
	for _, it := range items {
		if !matchesSearch(filter.Search, it.InvoiceNumber, it.Notes) {
			continue
		}
		inv, err := fromInvoiceItem(it)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *InvoiceDynamoRepository) UpdateState(_ context.Context, inv entities.Invoice, expectedVersion int64) (entities.Invoice, error) {
	r.tx.update(r.tx.tables.Invoices, idKey(inv.ID),
		"SET #status = :status, #paid_amount = :paid_amount, #updated_at = :updated_at, #version = :next",
		"attribute_exists(#id) AND #version = :expected",
		map[string]string{
			"#status":      "status",
			"#paid_amount": "paid_amount",
			"#updated_at":  "updated_at",
			"#version":     "version",
		},
		map[string]types.AttributeValue{
			":status":      str(string(inv.Status)),
			":paid_amount": numberAttr(inv.PaidAmount),
			":updated_at":  str(formatTime(inv.UpdatedAt)),
			":expected":    numberAttr(expectedVersion),
			":next":        numberAttr(expectedVersion + 1),
		},
		interfaces.ErrVersionConflict)
	inv.Version = expectedVersion + 1
	return inv, nil
}

// Delete removes the invoice, its payments and every uniqueness claim they hold. Payment
// mutations always bump the invoice version, so the version condition on the invoice
// keeps a payment recorded after the read from being left behind.
func (r *InvoiceDynamoRepository) Delete(ctx context.Context, ownerID, id string) error {
	inv, err := r.GetByID(ctx, ownerID, id)
	if err != nil || inv.ID == "" {
		return err
	}

	var payments []paymentItem
	err = r.tx.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tx.tables.Payments),
		KeyConditionExpression: aws.String("invoice_id = :iid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":iid": str(id),
		},
		ConsistentRead: aws.Bool(true),
	}, &payments)
	if err != nil {
		return err
	}
	for _, p := range payments {
		r.tx.delete(r.tx.tables.Payments, paymentItemKey(p.InvoiceID, p.ID))
		r.tx.release(paymentKey(p.ID))
	}

	r.tx.deleteVersion(r.tx.tables.Invoices, idKey(id), inv.Version)
	r.tx.release(invoiceNumberKey(inv.InvoiceNumber))
	if inv.QuoteID != "" {
		r.tx.release(invoiceQuoteKey(inv.QuoteID))
	}
	return nil
}

func (r *InvoiceDynamoRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	ref, err := r.tx.lookup(ctx, invoiceNumberKey(number))
	return ref != "", err
}

func toInvoiceItem(inv entities.Invoice) invoiceItem {
	return invoiceItem{
		ID:            inv.ID,
		OwnerID:       inv.OwnerID,
		CustomerID:    inv.CustomerID,
		QuoteID:       inv.QuoteID,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        string(inv.Status),
		IssuedAt:      formatTime(inv.IssuedAt),
		DueDate:       formatTime(inv.DueDate),
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		PaidAmount:    inv.PaidAmount,
		Notes:         inv.Notes,
		Items:         toLineItemRecords(inv.Items),
		Version:       inv.Version,
		CreatedAt:     formatTime(inv.CreatedAt),
		UpdatedAt:     formatTime(inv.UpdatedAt),
	}
}

func fromInvoiceItem(it invoiceItem) (entities.Invoice, error) {
	var tc timeColumns
	inv := entities.Invoice{
		ID:            it.ID,
		OwnerID:       it.OwnerID,
		CustomerID:    it.CustomerID,
		QuoteID:       it.QuoteID,
		InvoiceNumber: it.InvoiceNumber,
		Status:        entities.InvoiceStatus(it.Status),
		IssuedAt:      tc.parse("issued_at", it.IssuedAt),
		DueDate:       tc.parse("due_date", it.DueDate),
		Subtotal:      it.Subtotal,
		Tax:           it.Tax,
		Total:         it.Total,
		PaidAmount:    it.PaidAmount,
		Notes:         it.Notes,
		Items:         fromLineItemRecords(it.Items),
		Version:       it.Version,
		CreatedAt:     tc.parse("created_at", it.CreatedAt),
		UpdatedAt:     tc.parse("updated_at", it.UpdatedAt),
	}
	if tc.err != nil {
		return entities.Invoice{}, tc.err
	}
	return inv, nil
}
