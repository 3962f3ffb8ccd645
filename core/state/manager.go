package state

import (
	"errors"
	"fmt"
	"sync"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"launchpad/storage"
)

// Manager owns the key/value database backing the launchpad state. Writes go
// through a Txn and reach the database in a single atomic batch.
type Manager struct {
	db storage.Database
	mu sync.Mutex
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// Begin opens a write-buffered transaction. Nothing reaches the database
// until Commit.
func (m *Manager) Begin() *Txn {
	return &Txn{db: m.db, writes: make(map[string]storage.Write)}
}

// Update runs fn inside a transaction and commits it when fn returns nil.
// Transactions are serialised so read-modify-write sequences never interleave.
func (m *Manager) Update(fn func(*Txn) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn := m.Begin()
	if err := fn(txn); err != nil {
		txn.Discard()
		return err
	}
	return txn.Commit()
}

// View runs fn against a transaction that is always discarded.
func (m *Manager) View(fn func(*Txn) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn := m.Begin()
	defer txn.Discard()
	return fn(txn)
}

func kvKey(key []byte) []byte {
	return ethcrypto.Keccak256(key)
}

// Txn buffers writes on top of the database. Reads observe the transaction's
// own pending writes first.
type Txn struct {
	db     storage.Database
	writes map[string]storage.Write
	order  []string
	closed bool
}

var errTxnClosed = errors.New("state: transaction closed")

func (t *Txn) get(hashed []byte) ([]byte, error) {
	if t.closed {
		return nil, errTxnClosed
	}
	if w, ok := t.writes[string(hashed)]; ok {
		if w.Delete {
			return nil, nil
		}
		return append([]byte(nil), w.Value...), nil
	}
	data, err := t.db.Get(hashed)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return data, err
}

func (t *Txn) stage(w storage.Write) error {
	if t.closed {
		return errTxnClosed
	}
	key := string(w.Key)
	if _, ok := t.writes[key]; !ok {
		t.order = append(t.order, key)
	}
	t.writes[key] = w
	return nil
}

// KVPut stores the provided value under the supplied key using RLP encoding.
// The key is hashed with keccak256 before it reaches the database.
func (t *Txn) KVPut(key []byte, value interface{}) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return t.stage(storage.Write{Key: kvKey(key), Value: encoded})
}

// KVGet decodes the value stored under key into out. The boolean reports
// whether the key existed.
func (t *Txn) KVGet(key []byte, out interface{}) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("kv: key must not be empty")
	}
	data, err := t.get(kvKey(key))
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("kv: decode: %w", err)
	}
	return true, nil
}

// KVDelete removes key.
func (t *Txn) KVDelete(key []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	return t.stage(storage.Write{Key: kvKey(key), Delete: true})
}

// Pending reports how many distinct keys the transaction will write.
func (t *Txn) Pending() int {
	return len(t.order)
}

// Commit flushes the buffered writes as one atomic batch.
func (t *Txn) Commit() error {
	if t.closed {
		return errTxnClosed
	}
	t.closed = true
	if len(t.order) == 0 {
		return nil
	}
	batch := make([]storage.Write, 0, len(t.order))
	for _, key := range t.order {
		batch = append(batch, t.writes[key])
	}
	t.writes = nil
	t.order = nil
	if err := t.db.WriteBatch(batch); err != nil {
		return fmt.Errorf("state: commit: %w", err)
	}
	return nil
}

// Discard drops the buffered writes.
func (t *Txn) Discard() {
	t.closed = true
	t.writes = nil
	t.order = nil
}
