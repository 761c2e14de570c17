package keyValueDb

import "errors"

var (
	// ErrDBClosed is returned when trying to operate on a closed keyValueDb
	ErrDBClosed = errors.New("keyValueDb is closed")

	// ErrKeyNotFound is returned when a key doesn't exist in the keyValueDb
	ErrKeyNotFound = errors.New("key not found")

	// ErrUnknownBatchOp is returned for a BatchOperation with an unknown type
	ErrUnknownBatchOp = errors.New("unknown batch operation type")
)
