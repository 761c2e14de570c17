package tx

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	factories  = make(map[Type]func() Transaction)
)

// Register installs the factory for a transaction type.
// It is called from the init function of each transaction sub-package.
func Register(t Type, factory func() Transaction) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := factories[t]; dup {
		panic(fmt.Sprintf("tx: duplicate registration for %s", t))
	}
	factories[t] = factory
}

// NewFromType creates an empty transaction of the given type
func NewFromType(t Type) (Transaction, error) {
	registryMu.RLock()
	factory, ok := factories[t]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransactionType, t)
	}
	return factory(), nil
}

// FromJSON creates a Transaction from a JSON object
func FromJSON(data []byte) (Transaction, error) {
	var raw struct {
		TransactionType string `json:"TransactionType"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.TransactionType == "" {
		return nil, fmt.Errorf("%w: TransactionType", ErrMissingRequiredField)
	}

	txType, ok := TypeFromName(raw.TransactionType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransactionType, raw.TransactionType)
	}

	t, err := NewFromType(txType)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ToJSON serializes a transaction to JSON
func ToJSON(t Transaction) ([]byte, error) {
	return json.Marshal(t)
}

// SupportedTypes returns the registered transaction types in code order
func SupportedTypes() []Type {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]Type, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
