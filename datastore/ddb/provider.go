/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"

	"github.com/dimgraph/dimgraph/datastore"
	"github.com/dimgraph/dimgraph/errors"
)

// Single-table key schema for entity records.
const (
	pkPrefix = "ENTITY#"
	skValue  = "ENTITY"
)

// item is the DynamoDB row shape for one entity record.
type item struct {
	PK        string         `dynamodbav:"PK"`
	SK        string         `dynamodbav:"SK"`
	ID        string         `dynamodbav:"ID"`
	Attrs     map[string]any `dynamodbav:"Attrs"`
	Version   string         `dynamodbav:"Version,omitempty"`
	UpdatedAt string         `dynamodbav:"UpdatedAt,omitempty"`
}

// Provider implements the datastore provider interfaces on top of AWS
// DynamoDB using a single-table design (PK = "ENTITY#<id>", SK = "ENTITY").
type Provider struct {
	client    *sdk.Client
	tableName string
}

// NewClient initializes a DynamoDB client using static AWS credentials.
func NewClient(awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// NewProvider constructs a Provider for the given table from static
// credentials.
func NewProvider(awsAccessKey, awsSecretKey, awsRegion, tableName string) (*Provider, error) {
	client, err := NewClient(awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return New(client, tableName), nil
}

// New constructs a Provider over an existing DynamoDB client.
func New(client *sdk.Client, tableName string) *Provider {
	return &Provider{client: client, tableName: tableName}
}

func entityKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pkPrefix + id},
		"SK": &types.AttributeValueMemberS{Value: skValue},
	}
}

// Fetch retrieves the record stored under id. Absent rows surface as a
// NotFoundError, which the cache-aside store treats as a plain miss.
func (p *Provider) Fetch(ctx context.Context, id string) (*datastore.Record, error) {
	out, err := p.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &p.tableName,
		Key:       entityKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, errors.NewNotFoundError("record", id)
	}
	_, rec, err := itemToRecord(out.Item)
	return rec, err
}

// Persist writes the record under id, stamping Version and UpdatedAt.
func (p *Provider) Persist(ctx context.Context, id string, rec *datastore.Record) error {
	row := item{
		PK:      pkPrefix + id,
		SK:      skValue,
		ID:      id,
		Attrs:   rec.Attrs,
		Version: rec.Version,
	}
	if row.Version == "" {
		row.Version = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	if rec.UpdatedAt != nil {
		row.UpdatedAt = rec.UpdatedAt.String()
	} else {
		row.UpdatedAt = strfmt.DateTime(time.Now().UTC()).String()
	}

	av, err := attributevalue.MarshalMap(row)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = p.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &p.tableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put item: %w", err)
	}
	return nil
}

// CheckChanged reports whether the stored version token differs from the
// given one. A missing row counts as changed.
func (p *Provider) CheckChanged(ctx context.Context, id string, version string) (bool, error) {
	out, err := p.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:                &p.tableName,
		Key:                      entityKey(id),
		ProjectionExpression:     aws.String("#v"),
		ExpressionAttributeNames: map[string]string{"#v": "Version"},
	})
	if err != nil {
		return false, fmt.Errorf("dynamodb get item: %w", err)
	}
	if len(out.Item) == 0 {
		return true, nil
	}
	var row item
	if err := attributevalue.UnmarshalMap(out.Item, &row); err != nil {
		return false, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return row.Version != version, nil
}

// Delete removes the record stored under id.
func (p *Provider) Delete(ctx context.Context, id string) error {
	_, err := p.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &p.tableName,
		Key:       entityKey(id),
	})
	if err != nil {
		return fmt.Errorf("dynamodb delete item: %w", err)
	}
	return nil
}

// Scan enumerates every entity record in the table, following pagination.
func (p *Provider) Scan(ctx context.Context) (<-chan datastore.ScanItem, <-chan error) {
	items := make(chan datastore.ScanItem, 100)
	errs := make(chan error, 1)

	go func() {
		defer close(items)
		defer close(errs)

		input := &sdk.ScanInput{
			TableName:        &p.tableName,
			FilterExpression: aws.String("begins_with(PK, :prefix) AND SK = :sk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":prefix": &types.AttributeValueMemberS{Value: pkPrefix},
				":sk":     &types.AttributeValueMemberS{Value: skValue},
			},
		}

		for {
			out, err := p.client.Scan(ctx, input)
			if err != nil {
				errs <- fmt.Errorf("dynamodb scan: %w", err)
				return
			}
			for _, raw := range out.Items {
				id, rec, err := itemToRecord(raw)
				if err != nil {
					errs <- err
					continue
				}
				select {
				case items <- datastore.ScanItem{ID: id, Record: rec}:
				case <-ctx.Done():
					return
				}
			}
			if out.LastEvaluatedKey == nil {
				return
			}
			input.ExclusiveStartKey = out.LastEvaluatedKey
		}
	}()
	return items, errs
}

// itemToRecord decodes one row into its entity id and record.
func itemToRecord(raw map[string]types.AttributeValue) (string, *datastore.Record, error) {
	var row item
	if err := attributevalue.UnmarshalMap(raw, &row); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	rec := &datastore.Record{
		Attrs:   row.Attrs,
		Version: row.Version,
	}
	if row.UpdatedAt != "" {
		if ts, err := strfmt.ParseDateTime(row.UpdatedAt); err == nil {
			rec.UpdatedAt = &ts
		}
	}
	return row.ID, rec, nil
}
