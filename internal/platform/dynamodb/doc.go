// Package dynamodb implements store.TaskStore on an Amazon DynamoDB table
// keyed by the task id, using conditional writes to keep create, update and
// delete from silently upserting or removing nothing.
package dynamodb
