package repository

import (
	"context"
	"errors"
)

var (
	// ErrLockTimeout is returned when a row lock could not be acquired in time
	ErrLockTimeout = errors.New("repository: lock wait timed out")
	// ErrDuplicateKey is returned when an insert violates a unique index
	ErrDuplicateKey = errors.New("repository: duplicate key")
)

// Transactor runs work as one atomic unit. Repositories called with the
// context passed to fn take part in the same transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
