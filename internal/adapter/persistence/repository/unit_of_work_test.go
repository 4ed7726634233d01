package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

// fakeClient serves GetItem from a fixed item set and records every write.
type fakeClient struct {
	items        map[string]map[string]types.AttributeValue
	queryItems   []map[string]types.AttributeValue
	queryTables  map[string][]map[string]types.AttributeValue
	queries      []*dynamodb.QueryInput
	updates      []*dynamodb.UpdateItemInput
	updateOut    map[string]types.AttributeValue
	transactions []*dynamodb.TransactWriteItemsInput
	transactErr  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: map[string]map[string]types.AttributeValue{}}
}

func itemKey(table string, key map[string]types.AttributeValue) string {
	parts := make([]string, 0, len(key))
	for name, v := range key {
		if s, ok := v.(*types.AttributeValueMemberS); ok {
			parts = append(parts, name+"="+s.Value)
		}
	}
	sort.Strings(parts)
	return table + "|" + strings.Join(parts, ",")
}

func (f *fakeClient) store(t *testing.T, table string, key map[string]types.AttributeValue, record any) {
	t.Helper()
	av, err := attributevalue.MarshalMap(record)
	require.NoError(t, err)
	f.items[itemKey(table, key)] = av
}

func (f *fakeClient) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[itemKey(aws.ToString(in.TableName), in.Key)]}, nil
}

func (f *fakeClient) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, in)
	items := f.queryItems
	if byTable, ok := f.queryTables[aws.ToString(in.TableName)]; ok {
		items = byTable
	}
	return &dynamodb.QueryOutput{Items: items, Count: int32(len(items))}, nil
}

func (f *fakeClient) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	return &dynamodb.UpdateItemOutput{Attributes: f.updateOut}, nil
}

func (f *fakeClient) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.transactions = append(f.transactions, in)
	if f.transactErr != nil {
		return nil, f.transactErr
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func testInvoice(quoteID string) entities.Invoice {
	return entities.Invoice{
		ID:            "inv-1",
		OwnerID:       "owner-1",
		CustomerID:    "cust-1",
		QuoteID:       quoteID,
		InvoiceNumber: "INV-20261018-001",
		Status:        entities.InvoiceStatusDraft,
		IssuedAt:      testNow,
		DueDate:       testNow.AddDate(0, 0, 30),
		Subtotal:      100000,
		Tax:           10000,
		Total:         110000,
		Items:         []entities.LineItem{{ID: "li-1", Name: "Design", Quantity: 1, UnitPrice: 100000, Amount: 100000}},
		Version:       1,
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
}

func marshalItems(t *testing.T, records ...any) []map[string]types.AttributeValue {
	t.Helper()
	out := make([]map[string]types.AttributeValue, 0, len(records))
	for _, r := range records {
		av, err := attributevalue.MarshalMap(r)
		require.NoError(t, err)
		out = append(out, av)
	}
	return out
}

func uniqueKeyOf(t *testing.T, w types.TransactWriteItem) string {
	t.Helper()
	require.NotNil(t, w.Put)
	var rec uniqueRecord
	require.NoError(t, attributevalue.UnmarshalMap(w.Put.Item, &rec))
	return rec.Key
}

func TestDo_DiscardsWritesWhenFnFails(t *testing.T) {
	client := newFakeClient()
	uow := NewDynamoUnitOfWork(client, DefaultTables())
	boom := errors.New("boom")

	err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
		if _, err := repos.Invoices.Create(ctx, testInvoice("")); err != nil {
			return err
		}
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Empty(t, client.transactions, "nothing may be written for a failed unit of work")
}

func TestDo_CommitsInvoiceWithUniquenessClaims(t *testing.T) {
	client := newFakeClient()
	uow := NewDynamoUnitOfWork(client, DefaultTables())

	err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
		_, err := repos.Invoices.Create(ctx, testInvoice("q-1"))
		return err
	})
	require.NoError(t, err)
	require.Len(t, client.transactions, 1)

	items := client.transactions[0].TransactItems
	require.Len(t, items, 4)
	assert.Equal(t, "invoices", aws.ToString(items[0].Put.TableName))
	assert.Equal(t, "invoice_number#INV-20261018-001", uniqueKeyOf(t, items[1]))
	assert.Equal(t, "invoice_quote#q-1", uniqueKeyOf(t, items[2]))
	assert.Equal(t, "attribute_not_exists(#key)", aws.ToString(items[2].Put.ConditionExpression))

	check := items[3].ConditionCheck
	require.NotNil(t, check, "a conversion must hold its quote")
	assert.Equal(t, "quotes", aws.ToString(check.TableName))
	assert.Equal(t, str("q-1"), check.Key["id"])
	assert.Equal(t, "attribute_exists(#id) AND #owner_id = :owner_id AND #status = :accepted", aws.ToString(check.ConditionExpression))
	assert.Equal(t, str("ACCEPTED"), check.ExpressionAttributeValues[":accepted"])

	var stored invoiceItem
	require.NoError(t, attributevalue.UnmarshalMap(items[0].Put.Item, &stored))
	assert.Equal(t, int64(110000), stored.Total)
	assert.Len(t, stored.Items, 1)
}

func TestDo_MapsCancelledConditionsToConflicts(t *testing.T) {
	tests := []struct {
		name    string
		failed  int
		wantErr error
	}{
		{"invoice number taken", 1, interfaces.ErrDuplicateNumber},
		{"quote already invoiced", 2, interfaces.ErrQuoteAlreadyInvoiced},
		{"quote deleted meanwhile", 3, interfaces.ErrVersionConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reasons := make([]types.CancellationReason, 4)
			for i := range reasons {
				reasons[i].Code = aws.String("None")
			}
			reasons[tt.failed].Code = aws.String("ConditionalCheckFailed")

			client := newFakeClient()
			client.transactErr = &types.TransactionCanceledException{
				Message:             aws.String("Transaction cancelled"),
				CancellationReasons: reasons,
			}
			uow := NewDynamoUnitOfWork(client, DefaultTables())

			err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
				_, err := repos.Invoices.Create(ctx, testInvoice("q-1"))
				return err
			})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInvoiceUpdateState_ComparesVersion(t *testing.T) {
	client := newFakeClient()
	client.transactErr = &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{{Code: aws.String("ConditionalCheckFailed")}},
	}
	uow := NewDynamoUnitOfWork(client, DefaultTables())

	inv := testInvoice("")
	inv.Status = entities.InvoiceStatusPaid
	inv.PaidAmount = 110000
	err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
		updated, err := repos.Invoices.UpdateState(ctx, inv, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(5), updated.Version)
		return nil
	})
	require.ErrorIs(t, err, interfaces.ErrVersionConflict)

	update := client.transactions[0].TransactItems[0].Update
	require.NotNil(t, update)
	assert.Equal(t, "attribute_exists(#id) AND #version = :expected", aws.ToString(update.ConditionExpression))
	assert.Equal(t, "id", update.ExpressionAttributeNames["#id"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "4"}, update.ExpressionAttributeValues[":expected"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "PAID"}, update.ExpressionAttributeValues[":status"])
}

func TestGetByID_HidesOtherOwners(t *testing.T) {
	client := newFakeClient()
	tables := DefaultTables()
	client.store(t, tables.Invoices, idKey("inv-1"), toInvoiceItem(testInvoice("")))
	uow := NewDynamoUnitOfWork(client, tables)

	err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
		mine, err := repos.Invoices.GetByID(ctx, "owner-1", "inv-1")
		require.NoError(t, err)
		assert.Equal(t, "INV-20261018-001", mine.InvoiceNumber)
		assert.True(t, mine.IssuedAt.Equal(testNow))
		require.Len(t, mine.Items, 1)

		theirs, err := repos.Invoices.GetByID(ctx, "owner-2", "inv-1")
		require.NoError(t, err)
		assert.Empty(t, theirs.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestPaymentLookupThroughLocator(t *testing.T) {
	client := newFakeClient()
	tables := DefaultTables()
	p := entities.Payment{
		ID: "pay-1", OwnerID: "owner-1", InvoiceID: "inv-1", Amount: 60000, PaidAt: testNow,
		Method: entities.PaymentMethodCash, Status: entities.PaymentStatusReconciled,
	}
	client.store(t, tables.Uniques, map[string]types.AttributeValue{"key": str(paymentKey("pay-1"))},
		uniqueRecord{Key: paymentKey("pay-1"), Ref: "inv-1"})
	client.store(t, tables.Payments, paymentItemKey("inv-1", "pay-1"), toPaymentItem(p))
	uow := NewDynamoUnitOfWork(client, tables)

	err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
		got, err := repos.Payments.GetByID(ctx, "owner-1", "pay-1")
		require.NoError(t, err)
		assert.Equal(t, int64(60000), got.Amount)
		return repos.Payments.Delete(ctx, "owner-1", "pay-1")
	})
	require.NoError(t, err)

	items := client.transactions[0].TransactItems
	require.Len(t, items, 2)
	assert.Equal(t, "payments", aws.ToString(items[0].Delete.TableName))
	assert.Equal(t, "uniques", aws.ToString(items[1].Delete.TableName))
}

func TestQuoteDelete_ConflictsWithConcurrentConversion(t *testing.T) {
	client := newFakeClient()
	tables := DefaultTables()
	q := entities.Quote{
		ID: "q-1", OwnerID: "owner-1", CustomerID: "cust-1", QuoteNumber: "QT-2026-0001",
		Status: entities.QuoteStatusAccepted, IssuedAt: testNow, Version: 3, CreatedAt: testNow, UpdatedAt: testNow,
	}
	client.store(t, tables.Quotes, idKey("q-1"), toQuoteItem(q))
	client.transactErr = &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed")},
			{Code: aws.String("None")},
			{Code: aws.String("None")},
		},
	}
	uow := NewDynamoUnitOfWork(client, tables)

	err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
		return repos.Quotes.Delete(ctx, "owner-1", "q-1")
	})
	require.ErrorIs(t, err, interfaces.ErrQuoteAlreadyInvoiced)

	items := client.transactions[0].TransactItems
	require.Len(t, items, 3)
	require.NotNil(t, items[0].ConditionCheck)
	assert.Equal(t, "uniques", aws.ToString(items[0].ConditionCheck.TableName))
	assert.Equal(t, str("invoice_quote#q-1"), items[0].ConditionCheck.Key["key"])
	assert.Equal(t, "attribute_not_exists(#key)", aws.ToString(items[0].ConditionCheck.ConditionExpression))

	del := items[1].Delete
	require.NotNil(t, del)
	assert.Equal(t, "quotes", aws.ToString(del.TableName))
	assert.Equal(t, "attribute_exists(#id) AND #version = :expected", aws.ToString(del.ConditionExpression))
	assert.Equal(t, numberAttr(3), del.ExpressionAttributeValues[":expected"])
}

func TestInvoiceDelete_ConditionsOnVersion(t *testing.T) {
	client := newFakeClient()
	tables := DefaultTables()
	inv := testInvoice("")
	inv.Version = 7
	client.store(t, tables.Invoices, idKey("inv-1"), toInvoiceItem(inv))
	pay := entities.Payment{
		ID: "pay-1", OwnerID: "owner-1", InvoiceID: "inv-1", Amount: 60000, PaidAt: testNow,
		Method: entities.PaymentMethodCash, Status: entities.PaymentStatusReconciled,
	}
	av, err := attributevalue.MarshalMap(toPaymentItem(pay))
	require.NoError(t, err)
	client.queryItems = []map[string]types.AttributeValue{av}
	uow := NewDynamoUnitOfWork(client, tables)

	err = uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
		return repos.Invoices.Delete(ctx, "owner-1", "inv-1")
	})
	require.NoError(t, err)

	var invoiceDelete *types.Delete
	for _, it := range client.transactions[0].TransactItems {
		if it.Delete != nil && aws.ToString(it.Delete.TableName) == "invoices" {
			invoiceDelete = it.Delete
		}
	}
	require.NotNil(t, invoiceDelete)
	assert.Equal(t, "attribute_exists(#id) AND #version = :expected", aws.ToString(invoiceDelete.ConditionExpression))
	assert.Equal(t, numberAttr(7), invoiceDelete.ExpressionAttributeValues[":expected"])

	t.Run("payment recorded after the read", func(t *testing.T) {
		client.transactions = nil
		reasons := make([]types.CancellationReason, 4)
		for i := range reasons {
			reasons[i].Code = aws.String("None")
		}
		reasons[2].Code = aws.String("ConditionalCheckFailed")
		client.transactErr = &types.TransactionCanceledException{CancellationReasons: reasons}

		err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
			return repos.Invoices.Delete(ctx, "owner-1", "inv-1")
		})
		require.ErrorIs(t, err, interfaces.ErrVersionConflict)
	})
}

func TestCustomerDelete_RefusesReferencedCustomer(t *testing.T) {
	client := newFakeClient()
	client.queryItems = []map[string]types.AttributeValue{{"id": str("q-1")}}
	uow := NewDynamoUnitOfWork(client, DefaultTables())

	err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
		return repos.Customers.Delete(ctx, "owner-1", "cust-1")
	})
	require.ErrorIs(t, err, interfaces.ErrReferenced)
	assert.Equal(t, customerIDIndex, aws.ToString(client.queries[0].IndexName))
	assert.Empty(t, client.transactions)
}

func TestSequenceNext(t *testing.T) {
	client := newFakeClient()
	client.updateOut = map[string]types.AttributeValue{"value": &types.AttributeValueMemberN{Value: "3"}}
	uow := NewDynamoUnitOfWork(client, DefaultTables())

	err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
		v, err := repos.Sequences.Next(ctx, "invoice:owner-1:20261018")
		require.NoError(t, err)
		assert.Equal(t, int64(3), v)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, client.updates, 1)
	assert.Equal(t, "ADD #value :one", aws.ToString(client.updates[0].UpdateExpression))
	assert.Empty(t, client.transactions, "sequence reservations are not buffered")
}

func TestCommit_RejectsOversizedTransactions(t *testing.T) {
	client := newFakeClient()
	uow := NewDynamoUnitOfWork(client, DefaultTables())

	err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
		for i := 0; i <= maxTransactItems; i++ {
			c := entities.Customer{ID: fmt.Sprintf("c-%d", i), OwnerID: "owner-1", Name: "n"}
			if _, err := repos.Customers.Create(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
	require.ErrorIs(t, err, ErrTooManyWrites)
	assert.Empty(t, client.transactions)
}

func TestOwnerQuery_FiltersAreDeterministic(t *testing.T) {
	in := ownerQuery("payments", "owner-1", map[string]string{"status": "RECONCILED", "invoice_id": "inv-1", "method": ""})

	assert.Equal(t, ownerIDIndex, aws.ToString(in.IndexName))
	assert.False(t, aws.ToBool(in.ScanIndexForward))
	assert.Equal(t, "#invoice_id = :invoice_id AND #status = :status", aws.ToString(in.FilterExpression))
	assert.Equal(t, str("owner-1"), in.ExpressionAttributeValues[":oid"])

	bare := ownerQuery("customers", "owner-1", nil)
	assert.Nil(t, bare.FilterExpression)
}

func TestMatchesSearch(t *testing.T) {
	assert.True(t, matchesSearch("", "anything"))
	assert.True(t, matchesSearch("inv-2026", "INV-20261018-001"))
	assert.False(t, matchesSearch("qt", "INV-20261018-001", "kitchen"))
}

func TestPaymentList_SearchesInvoiceNumberAndCustomerName(t *testing.T) {
	client := newFakeClient()
	tables := DefaultTables()
	inv1 := testInvoice("")
	inv2 := testInvoice("")
	inv2.ID, inv2.InvoiceNumber, inv2.CustomerID = "inv-2", "INV-20261018-002", "cust-2"
	payment := func(id, invoiceID string) paymentItem {
		return toPaymentItem(entities.Payment{
			ID: id, OwnerID: "owner-1", InvoiceID: invoiceID, Amount: 1000, PaidAt: testNow,
			Method: entities.PaymentMethodCash, Status: entities.PaymentStatusRecorded,
		})
	}
	client.queryTables = map[string][]map[string]types.AttributeValue{
		tables.Payments:  marshalItems(t, payment("pay-1", "inv-1"), payment("pay-2", "inv-2")),
		tables.Invoices:  marshalItems(t, toInvoiceItem(inv1), toInvoiceItem(inv2)),
		tables.Customers: marshalItems(t, customerItem{ID: "cust-1", OwnerID: "owner-1", Name: "Acme"}, customerItem{ID: "cust-2", OwnerID: "owner-1", Name: "Globex"}),
	}
	uow := NewDynamoUnitOfWork(client, tables)

	err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
		byName, err := repos.Payments.List(ctx, "owner-1", interfaces.PaymentFilter{Search: "globex"})
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, "pay-2", byName[0].ID)

		byNumber, err := repos.Payments.List(ctx, "owner-1", interfaces.PaymentFilter{Search: "-001"})
		require.NoError(t, err)
		require.Len(t, byNumber, 1)
		assert.Equal(t, "pay-1", byNumber[0].ID)

		all, err := repos.Payments.List(ctx, "owner-1", interfaces.PaymentFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
		return nil
	})
	require.NoError(t, err)
}

func TestCustomerList_SearchMatchesPhone(t *testing.T) {
	client := newFakeClient()
	client.queryItems = marshalItems(t,
		customerItem{ID: "cust-1", OwnerID: "owner-1", Name: "Acme", Phone: "+81 3-1234-5678"},
		customerItem{ID: "cust-2", OwnerID: "owner-1", Name: "Globex"},
	)
	uow := NewDynamoUnitOfWork(client, DefaultTables())

	err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
		found, err := repos.Customers.List(ctx, "owner-1", interfaces.CustomerFilter{Search: "1234"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "cust-1", found[0].ID)
		return nil
	})
	require.NoError(t, err)
}

func TestGetByID_ReportsCorruptTimestamps(t *testing.T) {
	client := newFakeClient()
	tables := DefaultTables()
	it := toInvoiceItem(testInvoice(""))
	it.DueDate = "next tuesday"
	client.store(t, tables.Invoices, idKey("inv-1"), it)
	uow := NewDynamoUnitOfWork(client, tables)

	err := uow.Do(context.Background(), func(ctx context.Context, repos interfaces.Repositories) error {
		_, err := repos.Invoices.GetByID(ctx, "owner-1", "inv-1")
		return err
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "due_date")
}
