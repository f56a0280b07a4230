// Package postgres implements store.TaskStore on PostgreSQL through the pgx
// database/sql driver, and applies the embedded schema migrations with goose.
package postgres
