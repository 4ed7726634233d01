package repository

import (
	"context"
	"fmt"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type customerItem struct {
	ID        string `dynamodbav:"id"`
	OwnerID   string `dynamodbav:"owner_id"`
	Name      string `dynamodbav:"name"`
	Email     string `dynamodbav:"email,omitempty"`
	Phone     string `dynamodbav:"phone,omitempty"`
	Address   string `dynamodbav:"address,omitempty"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// CustomerDynamoRepository persists customers in the customers table.
type CustomerDynamoRepository struct {
	tx *txn
}

var _ interfaces.ICustomerRepository = (*CustomerDynamoRepository)(nil)

func (r *CustomerDynamoRepository) Create(_ context.Context, c entities.Customer) (entities.Customer, error) {
	err := r.tx.put(r.tx.tables.Customers, toCustomerItem(c),
		"attribute_not_exists(#id)", map[string]string{"#id": "id"}, nil, nil)
	if err != nil {
		return entities.Customer{}, err
	}
	return c, nil
}

func (r *CustomerDynamoRepository) GetByID(ctx context.Context, ownerID, id string) (entities.Customer, error) {
	var it customerItem
	found, err := r.tx.getItem(ctx, r.tx.tables.Customers, idKey(id), &it)
	if err != nil {
		return entities.Customer{}, err
	}
	if !found || it.OwnerID != ownerID {
		return entities.Customer{}, nil
	}
	return fromCustomerItem(it)
}

func (r *CustomerDynamoRepository) List(ctx context.Context, ownerID string, filter interfaces.CustomerFilter) ([]entities.Customer, error) {
	var items []customerItem
	if err := r.tx.queryAll(ctx, ownerQuery(r.tx.tables.Customers, ownerID, nil), &items); err != nil {
		return nil, err
	}
	out := make([]entities.Customer, 0, len(items))
	for _, it := range items {
		if !matchesSearch(filter.Search, it.Name, it.Email, it.Phone) {
			continue
		}
		c, err := fromCustomerItem(it)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *CustomerDynamoRepository) Update(_ context.Context, c entities.Customer) (entities.Customer, error) {
	err := r.tx.put(r.tx.tables.Customers, toCustomerItem(c),
		"attribute_exists(#id) AND #owner_id = :owner_id",
		map[string]string{"#id": "id", "#owner_id": "owner_id"},
		map[string]types.AttributeValue{":owner_id": str(c.OwnerID)},
		interfaces.ErrVersionConflict)
	if err != nil {
		return entities.Customer{}, err
	}
	return c, nil
}

// Delete refuses to remove a customer that quotes or invoices still point at. The check
// reads the customer_id indexes, which are eventually consistent.
func (r *CustomerDynamoRepository) Delete(ctx context.Context, ownerID, id string) error {
	for _, table := range []string{r.tx.tables.Quotes, r.tx.tables.Invoices} {
		used, err := r.tx.referenced(ctx, table, id)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("customer %s: %w", id, interfaces.ErrReferenced)
		}
	}
	r.tx.delete(r.tx.tables.Customers, idKey(id))
	return nil
}

func toCustomerItem(c entities.Customer) customerItem {
	return customerItem{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

func fromCustomerItem(it customerItem) (entities.Customer, error) {
	var tc timeColumns
	c := entities.Customer{
		ID:        it.ID,
		OwnerID:   it.OwnerID,
		Name:      it.Name,
		Email:     it.Email,
		Phone:     it.Phone,
		Address:   it.Address,
		CreatedAt: tc.parse("created_at", it.CreatedAt),
		UpdatedAt: tc.parse("updated_at", it.UpdatedAt),
	}
	if tc.err != nil {
		return entities.Customer{}, tc.err
	}
	return c, nil
}
