package nodestore

import (
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that a requested node was not found
	ErrNotFound = errors.New("node not found")

	// ErrDataCorrupt indicates that stored data is corrupted
	ErrDataCorrupt = errors.New("data corruption detected")

	// ErrInvalidNode indicates that a node is invalid
	ErrInvalidNode = errors.New("invalid node")

	// ErrInvalidConfig indicates that the configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedBackend indicates that a backend is not supported
	ErrUnsupportedBackend = errors.New("unsupported backend")
)

// NodeStoreError wraps an error with the operation and hash involved.
type NodeStoreError struct {
	Operation string
	Hash      [32]byte
	Backend   string
	Cause     error
}

func (e *NodeStoreError) Error() string {
	if e.Hash == ([32]byte{}) {
		return fmt.Sprintf("nodestore %s error on backend %s: %v", e.Operation, e.Backend, e.Cause)
	}
	return fmt.Sprintf("nodestore %s error on backend %s for hash %s: %v",
		e.Operation, e.Backend, hex.EncodeToString(e.Hash[:]), e.Cause)
}

func (e *NodeStoreError) Unwrap() error {
	return e.Cause
}
