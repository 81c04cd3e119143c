package repo

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrConditionFailed is returned when a conditional update matched the
	// document but its guard did not hold.
	ErrConditionFailed = errors.New("condition failed")
)

// Transactor runs fn inside a store transaction. Repositories called with the
// ctx passed to fn take part in it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
