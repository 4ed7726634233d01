package repository

import (
	"context"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type paymentItem struct {
	InvoiceID         string `dynamodbav:"invoice_id"`
	ID                string `dynamodbav:"id"`
	OwnerID           string `dynamodbav:"owner_id"`
	Amount            int64  `dynamodbav:"amount"`
	PaidAt            string `dynamodbav:"paid_at"`
	Method            string `dynamodbav:"method"`
	Status            string `dynamodbav:"status"`
	Notes             string `dynamodbav:"notes,omitempty"`
	ProviderReference string `dynamodbav:"provider_reference,omitempty"`
	CreatedAt         string `dynamodbav:"created_at"`
	UpdatedAt         string `dynamodbav:"updated_at"`
}

// PaymentDynamoRepository persists payments keyed by (invoice_id, id), so the payment set
// of an invoice is read with a strongly consistent query during reconciliation. A
// payment#id entry in the uniques table locates the invoice of a payment.
type PaymentDynamoRepository struct {
	tx *txn
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func (r *PaymentDynamoRepository) Create(_ context.Context, p entities.Payment) (entities.Payment, error) {
	err := r.tx.put(r.tx.tables.Payments, toPaymentItem(p),
		"attribute_not_exists(#id)", map[string]string{"#id": "id"}, nil, nil)
	if err != nil {
		return entities.Payment{}, err
	}
	if err := r.tx.claim(paymentKey(p.ID), p.InvoiceID, nil); err != nil {
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) GetByID(ctx context.Context, ownerID, id string) (entities.Payment, error) {
	invoiceID, err := r.tx.lookup(ctx, paymentKey(id))
	if err != nil || invoiceID == "" {
		return entities.Payment{}, err
	}
	var it paymentItem
	found, err := r.tx.getItem(ctx, r.tx.tables.Payments, paymentItemKey(invoiceID, id), &it)
	if err != nil {
		return entities.Payment{}, err
	}
	if !found || it.OwnerID != ownerID {
		return entities.Payment{}, nil
	}
	return fromPaymentItem(it)
}

func (r *PaymentDynamoRepository) ListByInvoiceID(ctx context.Context, invoiceID string) ([]entities.Payment, error) {
	var items []paymentItem
	err := r.tx.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tx.tables.Payments),
		KeyConditionExpression: aws.String("invoice_id = :iid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":iid": str(invoiceID),
		},
		ConsistentRead: aws.Bool(true),
	}, &items)
	if err != nil {
		return nil, err
	}
	return fromPaymentItems(items)
}

func (r *PaymentDynamoRepository) List(ctx context.Context, ownerID string, filter interfaces.PaymentFilter) ([]entities.Payment, error) {
	in := ownerQuery(r.tx.tables.Payments, ownerID, map[string]string{
		"status":     string(filter.Status),
		"invoice_id": filter.InvoiceID,
	})
	var items []paymentItem
	if err := r.tx.queryAll(ctx, in, &items); err != nil {
		return nil, err
	}
	if filter.Search != "" {
		matched, err := r.invoicesMatching(ctx, ownerID, filter.Search)
		if err != nil {
			return nil, err
		}
		kept := items[:0]
		for _, it := range items {
			if matched[it.InvoiceID] {
				kept = append(kept, it)
			}
		}
		items = kept
	}
	return fromPaymentItems(items)
}

// invoicesMatching returns the ids of the owner's invoices whose number or customer name
// contains search.
func (r *PaymentDynamoRepository) invoicesMatching(ctx context.Context, ownerID, search string) (map[string]bool, error) {
	var invoices []invoiceItem
	if err := r.tx.queryAll(ctx, ownerQuery(r.tx.tables.Invoices, ownerID, nil), &invoices); err != nil {
		return nil, err
	}
	var customers []customerItem
	if err := r.tx.queryAll(ctx, ownerQuery(r.tx.tables.Customers, ownerID, nil), &customers); err != nil {
		return nil, err
	}
	names := make(map[string]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}
	matched := make(map[string]bool)
	for _, inv := range invoices {
		if matchesSearch(search, inv.InvoiceNumber, names[inv.CustomerID]) {
			matched[inv.ID] = true
		}
	}
	return matched, nil
}

func (r *PaymentDynamoRepository) Update(_ context.Context, p entities.Payment) (entities.Payment, error) {
	err := r.tx.put(r.tx.tables.Payments, toPaymentItem(p),
		"attribute_exists(#id) AND #owner_id = :owner_id",
		map[string]string{"#id": "id", "#owner_id": "owner_id"},
		map[string]types.AttributeValue{":owner_id": str(p.OwnerID)},
		interfaces.ErrVersionConflict)
	if err != nil {
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) Delete(ctx context.Context, ownerID, id string) error {
	p, err := r.GetByID(ctx, ownerID, id)
	if err != nil || p.ID == "" {
		return err
	}
	r.tx.delete(r.tx.tables.Payments, paymentItemKey(p.InvoiceID, p.ID))
	r.tx.release(paymentKey(p.ID))
	return nil
}

func paymentItemKey(invoiceID, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"invoice_id": str(invoiceID),
		"id":         str(id),
	}
}

func toPaymentItem(p entities.Payment) paymentItem {
	return paymentItem{
		InvoiceID:         p.InvoiceID,
		ID:                p.ID,
		OwnerID:           p.OwnerID,
		Amount:            p.Amount,
		PaidAt:            formatTime(p.PaidAt),
		Method:            string(p.Method),
		Status:            string(p.Status),
		Notes:             p.Notes,
		ProviderReference: p.ProviderReference,
		CreatedAt:         formatTime(p.CreatedAt),
		UpdatedAt:         formatTime(p.UpdatedAt),
	}
}

func fromPaymentItem(it paymentItem) (entities.Payment, error) {
	var tc timeColumns
	p := entities.Payment{
		ID:                it.ID,
		OwnerID:           it.OwnerID,
		InvoiceID:         it.InvoiceID,
		Amount:            it.Amount,
		PaidAt:            tc.parse("paid_at", it.PaidAt),
		Method:            entities.PaymentMethod(it.Method),
		Status:            entities.PaymentStatus(it.Status),
		Notes:             it.Notes,
		ProviderReference: it.ProviderReference,
		CreatedAt:         tc.parse("created_at", it.CreatedAt),
		UpdatedAt:         tc.parse("updated_at", it.UpdatedAt),
	}
	if tc.err != nil {
		return entities.Payment{}, tc.err
	}
	return p, nil
}

func fromPaymentItems(items []paymentItem) ([]entities.Payment, error) {
	out := make([]entities.Payment, 0, len(items))
	for _, it := range items {
		p, err := fromPaymentItem(it)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
