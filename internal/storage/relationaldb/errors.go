package relationaldb

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDriver       = errors.New("invalid database driver")
	ErrMissingDatabase     = errors.New("database name or path is required")
	ErrMissingHost         = errors.New("database host is required")
	ErrInvalidPort         = errors.New("invalid database port")
	ErrDatabaseClosed      = errors.New("database connection is closed")
	ErrLedgerNotFound      = errors.New("ledger not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// DatabaseError records the operation that failed alongside its cause.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("relationaldb %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DatabaseError{Op: op, Err: err}
}
