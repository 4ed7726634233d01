package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"invoice_management/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// maxTransactItems is the DynamoDB limit of actions per TransactWriteItems call.
const maxTransactItems = 100

// ErrTooManyWrites is returned when a unit of work buffers more actions than one
// transaction accepts.
var ErrTooManyWrites = errors.New("unit of work exceeds the transaction write limit")

// Client is the subset of *dynamodb.Client the repositories use.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// DynamoUnitOfWork implements interfaces.IUnitOfWork on DynamoDB.
//
// Reads go straight to the tables with strongly consistent reads where the key allows it.
// Writes are buffered and committed together with one TransactWriteItems call once fn
// returns nil, so a failed unit of work leaves nothing behind. Sequence reservations are
// the exception: they are applied immediately and may leave gaps.
type DynamoUnitOfWork struct {
	ddb    Client
	tables Tables
}

var _ interfaces.IUnitOfWork = (*DynamoUnitOfWork)(nil)

func NewDynamoUnitOfWork(ddb Client, tables Tables) *DynamoUnitOfWork {
	return &DynamoUnitOfWork{ddb: ddb, tables: tables}
}

func (u *DynamoUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos interfaces.Repositories) error) error {
	tx := &txn{ddb: u.ddb, tables: u.tables}
	repos := interfaces.Repositories{
		Customers: &CustomerDynamoRepository{tx: tx},
		Quotes:    &QuoteDynamoRepository{tx: tx},
		Invoices:  &InvoiceDynamoRepository{tx: tx},
		Payments:  &PaymentDynamoRepository{tx: tx},
		Sequences: &SequenceDynamoRepository{ddb: u.ddb, tableName: u.tables.Sequences},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	return tx.commit(ctx)
}

// pendingWrite is one buffered action and the error reported when its condition fails.
type pendingWrite struct {
	item     types.TransactWriteItem
	conflict error
}

type txn struct {
	ddb    Client
	tables Tables
	writes []pendingWrite
}

func (t *txn) put(table string, record any, cond string, names map[string]string, values map[string]types.AttributeValue, conflict error) error {
	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return err
	}
	put := &types.Put{
		TableName:           aws.String(table),
		Item:                av,
		ConditionExpression: aws.String(cond),
	}
	if len(names) > 0 {
		put.ExpressionAttributeNames = names
	}
	if len(values) > 0 {
		put.ExpressionAttributeValues = values
	}
	t.writes = append(t.writes, pendingWrite{item: types.TransactWriteItem{Put: put}, conflict: conflict})
	return nil
}

// update buffers an UpdateItem. "#id" is always available to the condition.
func (t *txn) update(table string, key map[string]types.AttributeValue, expr, cond string, names map[string]string, values map[string]types.AttributeValue, conflict error) {
	t.writes = append(t.writes, pendingWrite{
		item: types.TransactWriteItem{Update: &types.Update{
			TableName:                 aws.String(table),
			Key:                       key,
			UpdateExpression:          aws.String(expr),
			ConditionExpression:       aws.String(cond),
			ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
			ExpressionAttributeValues: values,
		}},
		conflict: conflict,
	})
}

func (t *txn) delete(table string, key map[string]types.AttributeValue) {
	t.writes = append(t.writes, pendingWrite{item: types.TransactWriteItem{Delete: &types.Delete{
		TableName: aws.String(table),
		Key:       key,
	}}})
}

// deleteVersion buffers a Delete that only applies while the record is at version.
func (t *txn) deleteVersion(table string, key map[string]types.AttributeValue, version int64) {
	t.writes = append(t.writes, pendingWrite{
		item: types.TransactWriteItem{Delete: &types.Delete{
			TableName:                 aws.String(table),
			Key:                       key,
			ConditionExpression:       aws.String("attribute_exists(#id) AND #version = :expected"),
			ExpressionAttributeNames:  map[string]string{"#id": "id", "#version": "version"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":expected": numberAttr(version)},
		}},
		conflict: interfaces.ErrVersionConflict,
	})
}

// check buffers a ConditionCheck: the transaction commits only if cond still holds for
// the record at key.
func (t *txn) check(table string, key map[string]types.AttributeValue, cond string, names map[string]string, values map[string]types.AttributeValue, conflict error) {
	cc := &types.ConditionCheck{
		TableName:                aws.String(table),
		Key:                      key,
		ConditionExpression:      aws.String(cond),
		ExpressionAttributeNames: names,
	}
	if len(values) > 0 {
		cc.ExpressionAttributeValues = values
	}
	t.writes = append(t.writes, pendingWrite{item: types.TransactWriteItem{ConditionCheck: cc}, conflict: conflict})
}

func (t *txn) commit(ctx context.Context) error {
	if len(t.writes) == 0 {
		return nil
	}
	if len(t.writes) > maxTransactItems {
		return fmt.Errorf("%w: %d actions", ErrTooManyWrites, len(t.writes))
	}

	items := make([]types.TransactWriteItem, len(t.writes))
	for i, w := range t.writes {
		items[i] = w.item
	}
	_, err := t.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		return t.conflictFor(err)
	}
	return nil
}

// conflictFor maps a cancelled transaction to the conflict of the first failed condition.
// Cancellation reasons are reported in the order of the submitted actions.
func (t *txn) conflictFor(err error) error {
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return fmt.Errorf("commit transaction: %w", err)
	}
	for i, reason := range canceled.CancellationReasons {
		if aws.ToString(reason.Code) != "ConditionalCheckFailed" || i >= len(t.writes) {
			continue
		}
		if c := t.writes[i].conflict; c != nil {
			return fmt.Errorf("commit transaction: %w", c)
		}
		return fmt.Errorf("commit transaction: %w", interfaces.ErrVersionConflict)
	}
	return fmt.Errorf("commit transaction: %w", err)
}

// Uniqueness guards. Each key lives in the uniques table and points at the owning record.
type uniqueRecord struct {
	Key string `dynamodbav:"key"`
	Ref string `dynamodbav:"ref"`
}

func quoteNumberKey(number string) string   { return "quote_number#" + number }
func invoiceNumberKey(number string) string { return "invoice_number#" + number }
func invoiceQuoteKey(quoteID string) string { return "invoice_quote#" + quoteID }
func paymentKey(paymentID string) string    { return "payment#" + paymentID }

func (t *txn) claim(key, ref string, conflict error) error {
	return t.put(t.tables.Uniques, uniqueRecord{Key: key, Ref: ref},
		"attribute_not_exists(#key)", map[string]string{"#key": "key"}, nil, conflict)
}

// requireFree makes the transaction fail with conflict if key gets claimed before commit.
func (t *txn) requireFree(key string, conflict error) {
	t.check(t.tables.Uniques, map[string]types.AttributeValue{"key": str(key)},
		"attribute_not_exists(#key)", map[string]string{"#key": "key"}, nil, conflict)
}

func (t *txn) release(key string) {
	t.delete(t.tables.Uniques, map[string]types.AttributeValue{"key": str(key)})
}

// lookup resolves a unique key to the id it guards, or "" when the key is free.
func (t *txn) lookup(ctx context.Context, key string) (string, error) {
	out, err := t.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(t.tables.Uniques),
		Key:            map[string]types.AttributeValue{"key": str(key)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", err
	}
	if len(out.Item) == 0 {
		return "", nil
	}
	var rec uniqueRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return "", err
	}
	return rec.Ref, nil
}

// getItem loads one record into out and reports whether it exists.
func (t *txn) getItem(ctx context.Context, table string, key map[string]types.AttributeValue, out any) (bool, error) {
	res, err := t.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, err
	}
	if len(res.Item) == 0 {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return false, err
	}
	return true, nil
}

// queryAll runs a query across every page and unmarshals the items into out, a pointer
// to a slice of records.
func (t *txn) queryAll(ctx context.Context, in *dynamodb.QueryInput, out any) error {
	var raw []map[string]types.AttributeValue
	p := dynamodb.NewQueryPaginator(t.ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return err
		}
		raw = append(raw, page.Items...)
	}
	return attributevalue.UnmarshalListOfMaps(raw, out)
}

// referenced reports whether any record of table points at customerID.
func (t *txn) referenced(ctx context.Context, table, customerID string) (bool, error) {
	out, err := t.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(table),
		IndexName:              aws.String(customerIDIndex),
		KeyConditionExpression: aws.String("customer_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": str(customerID),
		},
		Limit:  aws.Int32(1),
		Select: types.SelectCount,
	})
	if err != nil {
		return false, err
	}
	return out.Count > 0, nil
}

// ownerQuery lists an owner's records newest first. Non-empty filters are matched
// exactly on the named attributes.
func ownerQuery(table, ownerID string, filters map[string]string) *dynamodb.QueryInput {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(table),
		IndexName:              aws.String(ownerIDIndex),
		KeyConditionExpression: aws.String("owner_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": str(ownerID),
		},
		ScanIndexForward: aws.Bool(false),
	}

	attrs := make([]string, 0, len(filters))
	for attr, v := range filters {
		if v != "" {
			attrs = append(attrs, attr)
		}
	}
	if len(attrs) == 0 {
		return in
	}
	sort.Strings(attrs)

	conds := make([]string, len(attrs))
	names := make(map[string]string, len(attrs))
	for i, attr := range attrs {
		conds[i] = "#" + attr + " = :" + attr
		names["#"+attr] = attr
		in.ExpressionAttributeValues[":"+attr] = str(filters[attr])
	}
	in.FilterExpression = aws.String(strings.Join(conds, " AND "))
	in.ExpressionAttributeNames = names
	return in
}
