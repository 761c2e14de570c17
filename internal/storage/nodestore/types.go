// Package nodestore persists closed ledgers as content-addressed nodes over
// a keyValueDb backend, with compression and an LRU read cache.
package nodestore

import (
	"context"
	"fmt"

	crypto "github.com/LeJamon/carbond/internal/crypto/common"
)

// NodeType represents the kind of object stored in the nodestore.
type NodeType uint8

const (
	NodeUnknown NodeType = 0
	// NodeLedger holds a ledger header together with its state and transaction index
	NodeLedger NodeType = 1
	// NodeState holds one serialized ledger entry
	NodeState NodeType = 2
	// NodeTransaction holds a transaction with its result and metadata
	NodeTransaction NodeType = 3
)

func (nt NodeType) String() string {
	switch nt {
	case NodeUnknown:
		return "NodeUnknown"
	case NodeLedger:
		return "NodeLedger"
	case NodeState:
		return "NodeState"
	case NodeTransaction:
		return "NodeTransaction"
	default:
		return fmt.Sprintf("NodeType(%d)", uint8(nt))
	}
}

// Node represents a stored object with its metadata.
type Node struct {
	Type      NodeType
	Hash      [32]byte
	Data      []byte
	LedgerSeq uint32
}

// NewStateNode creates a content-addressed node for a ledger entry.
func NewStateNode(data []byte, seq uint32) *Node {
	return &Node{
		Type:      NodeState,
		Hash:      crypto.Sha512Half(data),
		Data:      data,
		LedgerSeq: seq,
	}
}

// Size returns the size of the node's data in bytes.
func (n *Node) Size() int {
	return len(n.Data)
}

// Database defines the main interface for the NodeStore.
type Database interface {
	Store(ctx context.Context, node *Node) error
	StoreBatch(ctx context.Context, nodes []*Node) error

	// Fetch returns ErrNotFound when no node is stored under hash.
	Fetch(ctx context.Context, hash [32]byte) (*Node, error)

	Stats() Statistics
	Close() error
}

// Statistics holds performance counters for the NodeStore.
type Statistics struct {
	Reads       uint64
	CacheHits   uint64
	CacheMisses uint64
	ReadBytes   uint64
	Writes      uint64
	WriteBytes  uint64
	CacheSize   int
	BackendName string
}

func (s Statistics) String() string {
	hitRate := float64(0)
	if s.Reads > 0 {
		hitRate = float64(s.CacheHits) / float64(s.Reads) * 100
	}
	return fmt.Sprintf("nodestore[%s] reads=%d (%.2f%% cached) writes=%d read_bytes=%d write_bytes=%d cache=%d",
		s.BackendName, s.Reads, hitRate, s.Writes, s.ReadBytes, s.WriteBytes, s.CacheSize)
}
