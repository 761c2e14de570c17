package nodestore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/LeJamon/carbond/internal/storage/keyValueDb"
	"github.com/LeJamon/carbond/internal/storage/nodestore/compression"
)

const (
	nodePrefix  byte = 'n'
	indexPrefix byte = 's'

	// [type][ledger seq]
	valueHeaderSize = 1 + 4
)

// DatabaseImpl implements Database over any keyValueDb.DB.
type DatabaseImpl struct {
	backend     keyValueDb.DB
	backendName string
	compressor  compression.Compressor
	cache       *lru.Cache[[32]byte, *Node]
	logger      *slog.Logger

	reads       atomic.Uint64
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64
	readBytes   atomic.Uint64
	writes      atomic.Uint64
	writeBytes  atomic.Uint64
}

var _ Database = (*DatabaseImpl)(nil)

// NewDatabase wraps backend. A cacheSize of zero disables the read cache.
func NewDatabase(backend keyValueDb.DB, name string, comp compression.Compressor, cacheSize int) (*DatabaseImpl, error) {
	if backend == nil || comp == nil {
		return nil, fmt.Errorf("%w: backend and compressor are required", ErrInvalidConfig)
	}
	db := &DatabaseImpl{
		backend:     backend,
		backendName: name,
		compressor:  comp,
		logger:      slog.Default(),
	}
	if cacheSize > 0 {
		cache, err := lru.New[[32]byte, *Node](cacheSize)
		if err != nil {
			return nil, err
		}
		db.cache = cache
	}
	return db, nil
}

func nodeKey(hash [32]byte) []byte {
	key := make([]byte, 1+32)
	key[0] = nodePrefix
	copy(key[1:], hash[:])
	return key
}

func indexKey(seq uint32) []byte {
	key := make([]byte, 1+4)
	key[0] = indexPrefix
	binary.BigEndian.PutUint32(key[1:], seq)
	return key
}

func (d *DatabaseImpl) encode(node *Node) ([]byte, error) {
	payload, err := d.compressor.Compress(node.Data)
	if err != nil {
		return nil, err
	}
	value := make([]byte, valueHeaderSize+len(payload))
	value[0] = byte(node.Type)
	binary.BigEndian.PutUint32(value[1:], node.LedgerSeq)
	copy(value[valueHeaderSize:], payload)
	return value, nil
}

func (d *DatabaseImpl) decode(hash [32]byte, value []byte) (*Node, error) {
	if len(value) < valueHeaderSize {
		return nil, ErrDataCorrupt
	}
	data, err := d.compressor.Decompress(value[valueHeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataCorrupt, err)
	}
	return &Node{
		Type:      NodeType(value[0]),
		Hash:      hash,
		Data:      data,
		LedgerSeq: binary.BigEndian.Uint32(value[1:]),
	}, nil
}

func (d *DatabaseImpl) Store(ctx context.Context, node *Node) error {
	return d.StoreBatch(ctx, []*Node{node})
}

func (d *DatabaseImpl) StoreBatch(ctx context.Context, nodes []*Node) error {
	return d.writeBatch(ctx, nodes, nil)
}

// writeBatch stores nodes and any extra operations in one backend batch.
func (d *DatabaseImpl) writeBatch(ctx context.Context, nodes []*Node, extra []keyValueDb.BatchOperation) error {
	ops := make([]keyValueDb.BatchOperation, 0, len(nodes)+len(extra))
	var written uint64
	for _, node := range nodes {
		if node == nil || node.Type == NodeUnknown {
			return ErrInvalidNode
		}
		value, err := d.encode(node)
		if err != nil {
			return &NodeStoreError{Operation: "store", Hash: node.Hash, Backend: d.backendName, Cause: err}
		}
		ops = append(ops, keyValueDb.Put(nodeKey(node.Hash), value))
		written += uint64(len(value))
	}
	ops = append(ops, extra...)

	if err := d.backend.Batch(ctx, ops); err != nil {
		return &NodeStoreError{Operation: "store", Backend: d.backendName, Cause: err}
	}

	d.writes.Add(uint64(len(nodes)))
	d.writeBytes.Add(written)
	if d.cache != nil {
		for _, node := range nodes {
			d.cache.Add(node.Hash, node)
		}
	}
	return nil
}

func (d *DatabaseImpl) Fetch(ctx context.Context, hash [32]byte) (*Node, error) {
	d.reads.Add(1)
	if d.cache != nil {
		if node, ok := d.cache.Get(hash); ok {
			d.cacheHits.Add(1)
			return node, nil
		}
	}
	d.cacheMisses.Add(1)

	value, err := d.backend.Read(ctx, nodeKey(hash))
	if err != nil {
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, &NodeStoreError{Operation: "fetch", Hash: hash, Backend: d.backendName, Cause: err}
	}
	d.readBytes.Add(uint64(len(value)))

	node, err := d.decode(hash, value)
	if err != nil {
		d.logger.Error("corrupt node", "hash", fmt.Sprintf("%X", hash[:]), "error", err)
		return nil, &NodeStoreError{Operation: "fetch", Hash: hash, Backend: d.backendName, Cause: err}
	}
	if d.cache != nil {
		d.cache.Add(hash, node)
	}
	return node, nil
}

func (d *DatabaseImpl) Stats() Statistics {
	s := Statistics{
		Reads:       d.reads.Load(),
		CacheHits:   d.cacheHits.Load(),
		CacheMisses: d.cacheMisses.Load(),
		ReadBytes:   d.readBytes.Load(),
		Writes:      d.writes.Load(),
		WriteBytes:  d.writeBytes.Load(),
		BackendName: d.backendName,
	}
	if d.cache != nil {
		s.CacheSize = d.cache.Len()
	}
	return s
}

func (d *DatabaseImpl) Close() error {
	if d.cache != nil {
		d.cache.Purge()
	}
	return d.backend.Close()
}
