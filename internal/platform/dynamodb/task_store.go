package dynamodb

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/dynamodb/expression"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const componentName = "dynamodb_task_store"

// DefaultTableName is used when no table is configured.
const DefaultTableName = "tasks-manager-table"

const keyAttribute = "id"

// TaskStore implements store.TaskStore on a DynamoDB table whose partition
// key is the string attribute "id".
type TaskStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
	logger *slog.Logger
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore over client. An empty table selects
// DefaultTableName.
func NewTaskStore(client dynamodbiface.DynamoDBAPI, table string, logger *slog.Logger) (*TaskStore, error) {
	if client == nil {
		return nil, errors.New("dynamodb client cannot be nil")
	}
	if table == "" {
		table = DefaultTableName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		client: client,
		table:  table,
		logger: logger.With(slog.String("component", componentName), slog.String("table", table)),
	}, nil
}

func (s *TaskStore) key(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		keyAttribute: {S: aws.String(id)},
	}
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	log := logger.FromContextForComponent(ctx, s.logger, componentName)

	item, err := dynamodbattribute.MarshalMap(newTaskItem(task))
	if err != nil {
		return nil, store.PersistenceError("task", "create", err)
	}

	expr, err := expression.NewBuilder().WithCondition(itemAbsent()).Build()
	if err != nil {
		return nil, store.PersistenceError("task", "create", err)
	}

	_, err = s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.table),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			log.Warn("task id already exists", slog.String("task_id", task.ID))
			return nil, store.ErrDuplicate
		}
		log.Error("failed to put task",
			slog.String("task_id", task.ID),
			slog.String("error", err.Error()))
		return nil, store.PersistenceError("task", "create", err)
	}

	log.Debug("task created", slog.String("task_id", task.ID))
	return task, nil
}

// List implements store.TaskStore. It follows LastEvaluatedKey until the
// whole table has been scanned.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextForComponent(ctx, s.logger, componentName)

	tasks := make([]*domain.Task, 0)
	var decodeErr error

	err := s.client.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		var items []taskItem
		if decodeErr = dynamodbattribute.UnmarshalListOfMaps(page.Items, &items); decodeErr != nil {
			return false
		}
		for _, item := range items {
			task, err := item.toDomain()
			if err != nil {
				decodeErr = err
				return false
			}
			tasks = append(tasks, task)
		}
		return true
	})
	if err == nil {
		err = decodeErr
	}
	if err != nil {
		log.Error("failed to scan tasks", slog.String("error", err.Error()))
		return nil, store.PersistenceError("task", "list", err)
	}

	return tasks, nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	log := logger.FromContextForComponent(ctx, s.logger, componentName)

	out, err := s.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(id),
	})
	if err != nil {
		log.Error("failed to get task",
			slog.String("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.PersistenceError("task", "get", err)
	}
	if len(out.Item) == 0 {
		return nil, store.ErrTaskNotFound
	}

	return decodeTask(out.Item, "get")
}

// Update implements store.TaskStore. The write is conditional on the item
// existing, so an unknown id never creates a partial record.
func (s *TaskStore) Update(ctx context.Context, id string, update domain.TaskUpdate) (*domain.Task, error) {
	log := logger.FromContextForComponent(ctx, s.logger, componentName)

	expr, err := expression.NewBuilder().
		WithUpdate(updateBuilder(update)).
		WithCondition(itemExists()).
		Build()
	if err != nil {
		return nil, store.PersistenceError("task", "update", err)
	}

	out, err := s.client.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              aws.String(dynamodb.ReturnValueAllNew),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.PersistenceError("task", "update", err)
	}

	log.Debug("task updated", slog.String("task_id", id))
	return decodeTask(out.Attributes, "update")
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextForComponent(ctx, s.logger, componentName)

	expr, err := expression.NewBuilder().WithCondition(itemExists()).Build()
	if err != nil {
		return store.PersistenceError("task", "delete", err)
	}

	_, err = s.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.key(id),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return store.ErrTaskNotFound
		}
		log.Error("failed to delete task",
			slog.String("task_id", id),
			slog.String("error", err.Error()))
		return store.PersistenceError("task", "delete", err)
	}

	log.Debug("task deleted", slog.String("task_id", id))
	return nil
}

// EnsureTable creates the table with on-demand billing when it does not
// exist and waits until it is active. It is meant for local emulators.
func (s *TaskStore) EnsureTable(ctx context.Context) error {
	_, err := s.client.DescribeTableWithContext(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err == nil {
		return nil
	}
	var aerr awserr.Error
	if !errors.As(err, &aerr) || aerr.Code() != dynamodb.ErrCodeResourceNotFoundException {
		return store.PersistenceError("task", "describe table", err)
	}

	s.logger.Info("creating table")
	_, err = s.client.CreateTableWithContext(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(s.table),
		BillingMode: aws.String(dynamodb.BillingModePayPerRequest),
		AttributeDefinitions: []*dynamodb.AttributeDefinition{{
			AttributeName: aws.String(keyAttribute),
			AttributeType: aws.String(dynamodb.ScalarAttributeTypeS),
		}},
		KeySchema: []*dynamodb.KeySchemaElement{{
			AttributeName: aws.String(keyAttribute),
			KeyType:       aws.String(dynamodb.KeyTypeHash),
		}},
	})
	if err != nil {
		return store.PersistenceError("task", "create table", err)
	}

	if err := s.client.WaitUntilTableExistsWithContext(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	}); err != nil {
		return store.PersistenceError("task", "wait for table", err)
	}
	return nil
}

func decodeTask(attrs map[string]*dynamodb.AttributeValue, operation string) (*domain.Task, error) {
	var item taskItem
	if err := dynamodbattribute.UnmarshalMap(attrs, &item); err != nil {
		return nil, store.PersistenceError("task", operation, err)
	}
	task, err := item.toDomain()
	if err != nil {
		return nil, store.PersistenceError("task", operation, err)
	}
	return task, nil
}

func isConditionalCheckFailed(err error) bool {
	var aerr awserr.Error
	return errors.As(err, &aerr) && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException
}
