package tx

import (
	"encoding/json"
	"fmt"
)

// BlockProcessor applies a sequence of transactions to one open ledger.
// Each transaction sees the effects of those before it, and each result is
// reported independently: a failed transaction does not abort the block.
type BlockProcessor struct {
	engine  *Engine
	txIndex uint32
}

// BlockTxResult contains the result of applying a single transaction in a block
type BlockTxResult struct {
	// Index is the transaction index in the block (0-based, applied only)
	Index uint32

	// Hash is the transaction hash
	Hash [32]byte

	// ApplyResult contains the engine's result
	ApplyResult ApplyResult

	// TxJSON is the transaction as submitted
	TxJSON []byte

	// MetaJSON is the metadata of an applied transaction
	MetaJSON []byte
}

// BlockResult contains the results of applying all transactions in a block
type BlockResult struct {
	Transactions []BlockTxResult
	AppliedCount int
	FailedCount  int
}

// NewBlockProcessor creates a new BlockProcessor with the given engine
func NewBlockProcessor(engine *Engine) *BlockProcessor {
	return &BlockProcessor{engine: engine}
}

// NewBlockProcessorAt continues an open ledger that already holds applied
// transactions.
func NewBlockProcessorAt(engine *Engine, nextIndex uint32) *BlockProcessor {
	return &BlockProcessor{engine: engine, txIndex: nextIndex}
}

// ApplyTransaction applies a single transaction and returns the result.
// Indices are assigned to applied transactions only.
func (bp *BlockProcessor) ApplyTransaction(t Transaction) (BlockTxResult, error) {
	// encoded before Apply so a call that cannot be recorded never changes state
	txJSON, err := json.Marshal(t)
	if err != nil {
		return BlockTxResult{Index: bp.txIndex}, fmt.Errorf("encode %s: %w", t.TxType(), err)
	}

	applyResult := bp.engine.Apply(t)
	result := BlockTxResult{
		Index:       bp.txIndex,
		Hash:        applyResult.Hash,
		ApplyResult: applyResult,
		TxJSON:      txJSON,
	}

	if !applyResult.Applied {
		return result, nil
	}

	applyResult.Metadata.TransactionIndex = bp.txIndex
	metaJSON, err := json.Marshal(applyResult.Metadata)
	if err != nil {
		return result, err
	}
	result.MetaJSON = metaJSON
	bp.txIndex++

	return result, nil
}

// ApplyTransactions applies multiple transactions in order.
func (bp *BlockProcessor) ApplyTransactions(transactions []Transaction) (*BlockResult, error) {
	result := &BlockResult{
		Transactions: make([]BlockTxResult, 0, len(transactions)),
	}

	for _, t := range transactions {
		txResult, err := bp.ApplyTransaction(t)
		if err != nil {
			return result, err
		}
		result.Transactions = append(result.Transactions, txResult)
		if txResult.ApplyResult.Applied {
			result.AppliedCount++
		} else {
			result.FailedCount++
		}
	}

	return result, nil
}

// CurrentIndex returns the index the next applied transaction will get.
func (bp *BlockProcessor) CurrentIndex() uint32 {
	return bp.txIndex
}
