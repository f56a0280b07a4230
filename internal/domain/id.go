package domain

import "github.com/google/uuid"

// IDGenerator produces identifiers for new tasks.
type IDGenerator func() string

// NewID returns a random (version 4) UUID in its canonical string form.
func NewID() string {
	return uuid.NewString()
}
