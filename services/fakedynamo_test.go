package services

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"sparkd_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory DynamoAPI implementation covering exactly the
// expression grammar the services use: attribute_not_exists and equality
// conditions, SET/ADD update expressions, partition-key queries, full scans
// and all-or-nothing transactions.
type fakeDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

var tableKeys = map[string][]string{
	models.UserProfilesTable:   {"uid"},
	models.InteractionsTable:   {"actorId", "targetId"},
	models.MatchesTable:        {"matchId"},
	models.MessagesTable:       {"matchId", "messageId"},
	models.MatchSummariesTable: {"userId", "matchId"},
	models.GreetingTasksTable:  {"matchId"},
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	if f.tables[name] == nil {
		f.tables[name] = map[string]map[string]types.AttributeValue{}
	}
	return f.tables[name]
}

func itemKey(table string, item map[string]types.AttributeValue) string {
	parts := make([]string, 0, 2)
	for _, attr := range tableKeys[table] {
		if s, ok := item[attr].(*types.AttributeValueMemberS); ok {
			parts = append(parts, s.Value)
		}
	}
	return strings.Join(parts, "|")
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func resolveName(name string, names map[string]string) string {
	if strings.HasPrefix(name, "#") {
		return names[name]
	}
	return name
}

func avEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	}
	return false
}

// evalCondition handles the two condition forms the services write:
// attribute_not_exists(attr) and [#]attr = :value.
func evalCondition(cond string, names map[string]string, values, existing map[string]types.AttributeValue) bool {
	cond = strings.TrimSpace(cond)
	if strings.HasPrefix(cond, "attribute_not_exists(") {
		return existing == nil
	}

	parts := strings.SplitN(cond, "=", 2)
	if len(parts) != 2 {
		return false
	}
	attr := resolveName(strings.TrimSpace(parts[0]), names)
	want := values[strings.TrimSpace(parts[1])]
	if existing == nil || want == nil {
		return false
	}
	have, ok := existing[attr]
	return ok && avEqual(have, want)
}

// applyUpdate handles "SET a = :v, b = :w" optionally followed by
// "ADD counter :n", mutating item in place.
func applyUpdate(item map[string]types.AttributeValue, expr string, names map[string]string, values map[string]types.AttributeValue) {
	setPart := ""
	addPart := ""
	rest := strings.TrimSpace(expr)
	if strings.HasPrefix(rest, "SET ") {
		rest = rest[4:]
		if i := strings.Index(rest, " ADD "); i >= 0 {
			setPart = rest[:i]
			addPart = rest[i+5:]
		} else {
			setPart = rest
		}
	} else if strings.HasPrefix(rest, "ADD ") {
		addPart = rest[4:]
	}

	for _, assignment := range strings.Split(setPart, ",") {
		assignment = strings.TrimSpace(assignment)
		if assignment == "" {
			continue
		}
		parts := strings.SplitN(assignment, "=", 2)
		attr := resolveName(strings.TrimSpace(parts[0]), names)
		item[attr] = values[strings.TrimSpace(parts[1])]
	}

	if addPart != "" {
		fields := strings.Fields(addPart)
		attr := resolveName(fields[0], names)
		delta, _ := strconv.Atoi(values[fields[1]].(*types.AttributeValueMemberN).Value)
		current := 0
		if n, ok := item[attr].(*types.AttributeValueMemberN); ok {
			current, _ = strconv.Atoi(n.Value)
		}
		item[attr] = &types.AttributeValueMemberN{Value: strconv.Itoa(current + delta)}
	}
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := *params.TableName
	key := itemKey(table, params.Item)
	existing := f.table(table)[key]

	if params.ConditionExpression != nil {
		var existingOrNil map[string]types.AttributeValue
		if existing != nil {
			existingOrNil = existing
		}
		if !evalCondition(*params.ConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues, existingOrNil) {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}

	f.table(table)[key] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := *params.TableName
	item := f.table(table)[itemKey(table, params.Key)]
	if item == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(*params.KeyConditionExpression, "=", 2)
	attr := resolveName(strings.TrimSpace(parts[0]), params.ExpressionAttributeNames)
	want := params.ExpressionAttributeValues[strings.TrimSpace(parts[1])]

	var items []map[string]types.AttributeValue
	for _, item := range f.table(*params.TableName) {
		if have, ok := item[attr]; ok && avEqual(have, want) {
			items = append(items, copyItem(item))
		}
	}
	return &dynamodb.QueryOutput{Items: items}, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []map[string]types.AttributeValue
	for _, item := range f.table(*params.TableName) {
		items = append(items, copyItem(item))
	}
	return &dynamodb.ScanOutput{Items: items}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := *params.TableName
	key := itemKey(table, params.Key)
	existing := f.table(table)[key]

	if params.ConditionExpression != nil {
		if !evalCondition(*params.ConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues, existing) {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}

	// DynamoDB upserts on update: missing items are created from the key.
	if existing == nil {
		existing = copyItem(params.Key)
	}
	applyUpdate(existing, *params.UpdateExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	f.table(table)[key] = existing

	return &dynamodb.UpdateItemOutput{Attributes: copyItem(existing)}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := *params.TableName
	delete(f.table(table), itemKey(table, params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Validate every condition before applying anything.
	for _, item := range params.TransactItems {
		switch {
		case item.Put != nil:
			table := *item.Put.TableName
			existing := f.table(table)[itemKey(table, item.Put.Item)]
			if item.Put.ConditionExpression != nil &&
				!evalCondition(*item.Put.ConditionExpression, item.Put.ExpressionAttributeNames, item.Put.ExpressionAttributeValues, existing) {
				return nil, &types.TransactionCanceledException{}
			}
		case item.Update != nil:
			table := *item.Update.TableName
			existing := f.table(table)[itemKey(table, item.Update.Key)]
			if item.Update.ConditionExpression != nil &&
				!evalCondition(*item.Update.ConditionExpression, item.Update.ExpressionAttributeNames, item.Update.ExpressionAttributeValues, existing) {
				return nil, &types.TransactionCanceledException{}
			}
		case item.Delete != nil:
			table := *item.Delete.TableName
			existing := f.table(table)[itemKey(table, item.Delete.Key)]
			if item.Delete.ConditionExpression != nil &&
				!evalCondition(*item.Delete.ConditionExpression, item.Delete.ExpressionAttributeNames, item.Delete.ExpressionAttributeValues, existing) {
				return nil, &types.TransactionCanceledException{}
			}
		}
	}

	for _, item := range params.TransactItems {
		switch {
		case item.Put != nil:
			table := *item.Put.TableName
			f.table(table)[itemKey(table, item.Put.Item)] = copyItem(item.Put.Item)
		case item.Update != nil:
			table := *item.Update.TableName
			key := itemKey(table, item.Update.Key)
			existing := f.table(table)[key]
			if existing == nil {
				existing = copyItem(item.Update.Key)
			}
			applyUpdate(existing, *item.Update.UpdateExpression, item.Update.ExpressionAttributeNames, item.Update.ExpressionAttributeValues)
			f.table(table)[key] = existing
		case item.Delete != nil:
			table := *item.Delete.TableName
			delete(f.table(table), itemKey(table, item.Delete.Key))
		}
	}

	return &dynamodb.TransactWriteItemsOutput{}, nil
}
