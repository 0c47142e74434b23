package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"workhub-backend/pkg/observability"
)

// DynamoStore implements Store against a single DynamoDB table.
type DynamoStore struct {
	client  *dynamodb.Client
	table   string
	logger  *zap.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// NewDynamoStore creates a store bound to the given table. Metrics may be
// nil.
func NewDynamoStore(client *dynamodb.Client, table string, logger *zap.Logger, metrics *observability.Metrics) *DynamoStore {
	return &DynamoStore{
		client:  client,
		table:   table,
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer("workhub/store"),
	}
}

func (s *DynamoStore) Put(ctx context.Context, item Item, opts PutOptions) error {
	ctx, span := s.startSpan(ctx, "store.Put")
	defer span.End()
	defer s.observe("put", time.Now())

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}
	if opts.IfNotExists {
		expr, err := expression.NewBuilder().
			WithCondition(expression.AttributeNotExists(expression.Name(attrPK))).
			Build()
		if err != nil {
			return fmt.Errorf("build put condition: %w", err)
		}
		input.ConditionExpression = expr.Condition()
		input.ExpressionAttributeNames = expr.Names()
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		return s.classify("put item", err)
	}
	return nil
}

func (s *DynamoStore) Get(ctx context.Context, key Key) (Item, error) {
	ctx, span := s.startSpan(ctx, "store.Get")
	defer span.End()
	defer s.observe("get", time.Now())

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       keyToItem(key),
	})
	if err != nil {
		return nil, s.classify("get item", err)
	}
	if out.Item == nil {
		return nil, ErrItemNotFound
	}
	return out.Item, nil
}

func (s *DynamoStore) Query(ctx context.Context, q Query) (QueryResult, error) {
	ctx, span := s.startSpan(ctx, "store.Query",
		attribute.String("store.index", q.Index))
	defer span.End()
	defer s.observe("query", time.Now())

	pkAttr, skAttr := keyAttrs(q.Index)

	keyCond := expression.Key(pkAttr).Equal(expression.Value(q.Partition))
	switch {
	case q.SortPrefix != "":
		keyCond = keyCond.And(expression.Key(skAttr).BeginsWith(q.SortPrefix))
	case q.SortLow != "" && q.SortHigh != "":
		keyCond = keyCond.And(expression.Key(skAttr).Between(
			expression.Value(q.SortLow), expression.Value(q.SortHigh)))
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if len(q.Filters) > 0 {
		var filter expression.ConditionBuilder
		first := true
		for name, value := range q.Filters {
			cond := expression.Name(name).Equal(expression.Value(value))
			if first {
				filter = cond
				first = false
			} else {
				filter = filter.And(cond)
			}
		}
		builder = builder.WithFilter(filter)
	}

	expr, err := builder.Build()
	if err != nil {
		return QueryResult{}, fmt.Errorf("build query expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(!q.Backward),
	}
	if q.Index != "" {
		input.IndexName = aws.String(q.Index)
	}
	if q.Limit > 0 {
		input.Limit = aws.Int32(q.Limit)
	}
	if q.Cursor != "" {
		lastKey, err := decodeCursor(q.Cursor)
		if err != nil {
			return QueryResult{}, err
		}
		start := make(Item, len(lastKey))
		for name, value := range lastKey {
			start[name] = S(value)
		}
		input.ExclusiveStartKey = start
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return QueryResult{}, s.classify("query items", err)
	}

	result := QueryResult{Items: out.Items}
	if len(out.LastEvaluatedKey) > 0 {
		lastKey := make(map[string]string, len(out.LastEvaluatedKey))
		for name, av := range out.LastEvaluatedKey {
			if sv, ok := av.(*types.AttributeValueMemberS); ok {
				lastKey[name] = sv.Value
			}
		}
		result.NextCursor = encodeCursor(lastKey)
	}
	return result, nil
}

func (s *DynamoStore) Update(ctx context.Context, u Update) (Item, error) {
	ctx, span := s.startSpan(ctx, "store.Update")
	defer span.End()
	defer s.observe("update", time.Now())

	if len(u.Set) == 0 && len(u.Remove) == 0 {
		return s.Get(ctx, u.Key)
	}

	var upd expression.UpdateBuilder
	for name, value := range u.Set {
		upd = upd.Set(expression.Name(name), expression.Value(value))
	}
	for _, name := range u.Remove {
		upd = upd.Remove(expression.Name(name))
	}

	builder := expression.NewBuilder().WithUpdate(upd)
	if u.RequireExists {
		builder = builder.WithCondition(expression.AttributeExists(expression.Name(attrPK)))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build update expression: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       keyToItem(u.Key),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if u.RequireExists && isConditionFailure(err) {
			return nil, ErrItemNotFound
		}
		return nil, s.classify("update item", err)
	}
	return out.Attributes, nil
}

func (s *DynamoStore) Delete(ctx context.Context, key Key) error {
	ctx, span := s.startSpan(ctx, "store.Delete")
	defer span.End()
	defer s.observe("delete", time.Now())

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       keyToItem(key),
	})
	if err != nil {
		return s.classify("delete item", err)
	}
	return nil
}

func (s *DynamoStore) Scan(ctx context.Context, filters map[string]string, limit int32) ([]Item, error) {
	ctx, span := s.startSpan(ctx, "store.Scan")
	defer span.End()
	defer s.observe("scan", time.Now())

	input := &dynamodb.ScanInput{TableName: aws.String(s.table)}
	if len(filters) > 0 {
		var filter expression.ConditionBuilder
		first := true
		for name, value := range filters {
			cond := expression.Name(name).Equal(expression.Value(value))
			if first {
				filter = cond
				first = false
			} else {
				filter = filter.And(cond)
			}
		}
		expr, err := expression.NewBuilder().WithFilter(filter).Build()
		if err != nil {
			return nil, fmt.Errorf("build scan expression: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	out, err := s.client.Scan(ctx, input)
	if err != nil {
		return nil, s.classify("scan items", err)
	}
	return out.Items, nil
}

func keyToItem(key Key) Item {
	return Item{
		attrPK: S(key.PK),
		attrSK: S(key.SK),
	}
}

func isConditionFailure(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// classify maps SDK failures onto the store error taxonomy so callers can
// branch on conflict vs transient without knowing DynamoDB.
func (s *DynamoStore) classify(op string, err error) error {
	if isConditionFailure(err) {
		return fmt.Errorf("%s: %w", op, ErrConditionFailed)
	}

	var throughput *types.ProvisionedThroughputExceededException
	var internal *types.InternalServerError
	var limit *types.RequestLimitExceeded
	if errors.As(err, &throughput) || errors.As(err, &internal) || errors.As(err, &limit) {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ServiceUnavailable", "RequestTimeout":
			return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
		}
	}

	s.logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}

func (s *DynamoStore) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		append(attrs, attribute.String("store.table", s.table))...))
}

func (s *DynamoStore) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStoreOp(op, time.Since(start))
	}
}
