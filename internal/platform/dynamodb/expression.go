package dynamodb

import (
	"strings"

	"github.com/aws/aws-sdk-go/service/dynamodb/expression"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// itemExists holds when a stored item has the key attribute.
func itemExists() expression.ConditionBuilder {
	return expression.AttributeExists(expression.Name(keyAttribute))
}

// itemAbsent holds when no item is stored under the key.
func itemAbsent() expression.ConditionBuilder {
	return expression.AttributeNotExists(expression.Name(keyAttribute))
}

// updateBuilder sets updatedAt and every field supplied in update.
func updateBuilder(update domain.TaskUpdate) expression.UpdateBuilder {
	b := expression.Set(expression.Name("updatedAt"), expression.Value(formatTime(update.UpdatedAt)))
	if update.Title != nil {
		b = b.Set(expression.Name("title"), expression.Value(strings.TrimSpace(*update.Title)))
	}
	if update.Description != nil {
		b = b.Set(expression.Name("description"), expression.Value(*update.Description))
	}
	if update.Status != nil {
		b = b.Set(expression.Name("status"), expression.Value(string(*update.Status)))
	}
	return b
}
