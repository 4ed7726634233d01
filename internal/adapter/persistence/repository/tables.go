package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

const (
	ownerIDIndex    = "owner_id-index"
	customerIDIndex = "customer_id-index"
)

// Tables names the DynamoDB tables backing the invoicing store.
//
// Table requirements:
//   - customers: PK id; GSI owner_id-index (owner_id, created_at)
//   - quotes: PK id; GSI owner_id-index (owner_id, created_at), customer_id-index (customer_id)
//   - invoices: PK id; GSI owner_id-index (owner_id, created_at), customer_id-index (customer_id)
//   - payments: PK invoice_id, SK id; GSI owner_id-index (owner_id, paid_at)
//   - sequences: PK scope
//   - uniques: PK key (document numbers, quote references and payment locators)
type Tables struct {
	Customers string
	Quotes    string
	Invoices  string
	Payments  string
	Sequences string
	Uniques   string
}

func DefaultTables() Tables {
	return Tables{
		Customers: "customers",
		Quotes:    "quotes",
		Invoices:  "invoices",
		Payments:  "payments",
		Sequences: "sequences",
		Uniques:   "uniques",
	}
}

// TableAdmin is the subset of the DynamoDB client needed to provision tables.
type TableAdmin interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// CreateTables provisions every table with on-demand billing. Existing tables are left
// untouched, so running it twice is harmless.
func CreateTables(ctx context.Context, admin TableAdmin, t Tables) error {
	for _, in := range tableDefinitions(t) {
		name := aws.ToString(in.TableName)
		_, err := admin.CreateTable(ctx, in)
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				log.Info().Str("table", name).Msg("table already exists")
				continue
			}
			return fmt.Errorf("create table %s: %w", name, err)
		}

		waiter := dynamodb.NewTableExistsWaiter(admin)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: in.TableName}, 2*time.Minute); err != nil {
			return fmt.Errorf("wait for table %s: %w", name, err)
		}
		log.Info().Str("table", name).Msg("table created")
	}
	return nil
}

func tableDefinitions(t Tables) []*dynamodb.CreateTableInput {
	attr := func(name string) types.AttributeDefinition {
		return types.AttributeDefinition{AttributeName: aws.String(name), AttributeType: types.ScalarAttributeTypeS}
	}
	key := func(hash, rng string) []types.KeySchemaElement {
		ks := []types.KeySchemaElement{{AttributeName: aws.String(hash), KeyType: types.KeyTypeHash}}
		if rng != "" {
			ks = append(ks, types.KeySchemaElement{AttributeName: aws.String(rng), KeyType: types.KeyTypeRange})
		}
		return ks
	}
	gsi := func(name, hash, rng string) types.GlobalSecondaryIndex {
		return types.GlobalSecondaryIndex{
			IndexName:  aws.String(name),
			KeySchema:  key(hash, rng),
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		}
	}
	table := func(name string, attrs []types.AttributeDefinition, ks []types.KeySchemaElement, indexes ...types.GlobalSecondaryIndex) *dynamodb.CreateTableInput {
		in := &dynamodb.CreateTableInput{
			TableName:            aws.String(name),
			AttributeDefinitions: attrs,
			KeySchema:            ks,
			BillingMode:          types.BillingModePayPerRequest,
		}
		if len(indexes) > 0 {
			in.GlobalSecondaryIndexes = indexes
		}
		return in
	}

	return []*dynamodb.CreateTableInput{
		table(t.Customers,
			[]types.AttributeDefinition{attr("id"), attr("owner_id"), attr("created_at")},
			key("id", ""),
			gsi(ownerIDIndex, "owner_id", "created_at")),
		table(t.Quotes,
			[]types.AttributeDefinition{attr("id"), attr("owner_id"), attr("created_at"), attr("customer_id")},
			key("id", ""),
			gsi(ownerIDIndex, "owner_id", "created_at"), gsi(customerIDIndex, "customer_id", "")),
		table(t.Invoices,
			[]types.AttributeDefinition{attr("id"), attr("owner_id"), attr("created_at"), attr("customer_id")},
			key("id", ""),
			gsi(ownerIDIndex, "owner_id", "created_at"), gsi(customerIDIndex, "customer_id", "")),
		table(t.Payments,
			[]types.AttributeDefinition{attr("invoice_id"), attr("id"), attr("owner_id"), attr("paid_at")},
			key("invoice_id", "id"),
			gsi(ownerIDIndex, "owner_id", "paid_at")),
		table(t.Sequences, []types.AttributeDefinition{attr("scope")}, key("scope", "")),
		table(t.Uniques, []types.AttributeDefinition{attr("key")}, key("key", "")),
	}
}
