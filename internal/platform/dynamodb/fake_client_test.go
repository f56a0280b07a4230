package dynamodb

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// fakeClient is an in-memory DynamoDB table that understands the
// expressions TaskStore issues. Scans return pageSize items per page.
type fakeClient struct {
	dynamodbiface.DynamoDBAPI

	mu       sync.Mutex
	tables   map[string]map[string]map[string]*dynamodb.AttributeValue
	pageSize int
	failWith error
	scans    int
}

func newFakeClient(tables ...string) *fakeClient {
	c := &fakeClient{
		tables:   map[string]map[string]map[string]*dynamodb.AttributeValue{},
		pageSize: 2,
	}
	for _, table := range tables {
		c.tables[table] = map[string]map[string]*dynamodb.AttributeValue{}
	}
	return c
}

var setClause = regexp.MustCompile(`(#\w+) = (:\w+)`)

func conditionFailed() error {
	return awserr.New(dynamodb.ErrCodeConditionalCheckFailedException, "The conditional request failed", nil)
}

func (c *fakeClient) table(name *string) (map[string]map[string]*dynamodb.AttributeValue, error) {
	if c.failWith != nil {
		return nil, c.failWith
	}
	t, ok := c.tables[aws.StringValue(name)]
	if !ok {
		return nil, awserr.New(dynamodb.ErrCodeResourceNotFoundException, "Requested resource not found", nil)
	}
	return t, nil
}

func checkCondition(expr *string, exists bool) error {
	cond := aws.StringValue(expr)
	switch {
	case strings.HasPrefix(cond, "attribute_not_exists") && exists:
		return conditionFailed()
	case strings.HasPrefix(cond, "attribute_exists") && !exists:
		return conditionFailed()
	}
	return nil
}

func copyItem(item map[string]*dynamodb.AttributeValue) map[string]*dynamodb.AttributeValue {
	out := make(map[string]*dynamodb.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (c *fakeClient) PutItemWithContext(
	_ aws.Context, in *dynamodb.PutItemInput, _ ...request.Option,
) (*dynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}
	id := aws.StringValue(in.Item[keyAttribute].S)
	_, exists := t[id]
	if err := checkCondition(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	t[id] = copyItem(in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (c *fakeClient) GetItemWithContext(
	_ aws.Context, in *dynamodb.GetItemInput, _ ...request.Option,
) (*dynamodb.GetItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}
	item, ok := t[aws.StringValue(in.Key[keyAttribute].S)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (c *fakeClient) UpdateItemWithContext(
	_ aws.Context, in *dynamodb.UpdateItemInput, _ ...request.Option,
) (*dynamodb.UpdateItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}
	id := aws.StringValue(in.Key[keyAttribute].S)
	item, exists := t[id]
	if err := checkCondition(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	if !exists {
		item = copyItem(in.Key)
	}
	for _, m := range setClause.FindAllStringSubmatch(aws.StringValue(in.UpdateExpression), -1) {
		name := aws.StringValue(in.ExpressionAttributeNames[m[1]])
		item[name] = in.ExpressionAttributeValues[m[2]]
	}
	t[id] = item
	return &dynamodb.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

func (c *fakeClient) DeleteItemWithContext(
	_ aws.Context, in *dynamodb.DeleteItemInput, _ ...request.Option,
) (*dynamodb.DeleteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}
	id := aws.StringValue(in.Key[keyAttribute].S)
	_, exists := t[id]
	if err := checkCondition(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	delete(t, id)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (c *fakeClient) ScanPagesWithContext(
	ctx aws.Context,
	in *dynamodb.ScanInput,
	fn func(*dynamodb.ScanOutput, bool) bool,
	_ ...request.Option,
) error {
	c.mu.Lock()
	t, err := c.table(in.TableName)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	items := make([]map[string]*dynamodb.AttributeValue, 0, len(ids))
	for _, id := range ids {
		items = append(items, copyItem(t[id]))
	}
	c.mu.Unlock()

	for start := 0; ; start += c.pageSize {
		end := min(start+c.pageSize, len(items))
		c.scans++
		last := end == len(items)
		if !fn(&dynamodb.ScanOutput{Items: items[start:end]}, last) || last {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (c *fakeClient) DescribeTableWithContext(
	_ aws.Context, in *dynamodb.DescribeTableInput, _ ...request.Option,
) (*dynamodb.DescribeTableOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.table(in.TableName); err != nil {
		return nil, err
	}
	return &dynamodb.DescribeTableOutput{Table: &dynamodb.TableDescription{
		TableName:   in.TableName,
		TableStatus: aws.String(dynamodb.TableStatusActive),
	}}, nil
}

func (c *fakeClient) CreateTableWithContext(
	_ aws.Context, in *dynamodb.CreateTableInput, _ ...request.Option,
) (*dynamodb.CreateTableOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := aws.StringValue(in.TableName)
	if _, ok := c.tables[name]; ok {
		return nil, awserr.New(dynamodb.ErrCodeResourceInUseException, "Table already exists", nil)
	}
	c.tables[name] = map[string]map[string]*dynamodb.AttributeValue{}
	return &dynamodb.CreateTableOutput{}, nil
}

func (c *fakeClient) WaitUntilTableExistsWithContext(
	ctx aws.Context, in *dynamodb.DescribeTableInput, _ ...request.WaiterOption,
) error {
	_, err := c.DescribeTableWithContext(ctx, in)
	return err
}

var errThrottled = errors.New("ProvisionedThroughputExceededException: rate exceeded")
