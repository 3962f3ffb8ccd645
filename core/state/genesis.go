package state

import "fmt"

// GenesisBalance is one account credited when a node first starts.
type GenesisBalance struct {
	Denom  string
	Addr   [20]byte
	Amount uint64
}

type genesisMarker struct {
	Entries uint64
}

// ApplyGenesis credits balances in a single transaction the first time it runs
// against a database and records a marker so later starts leave state alone.
// It reports whether the balances were applied. An empty list writes nothing.
func (m *Manager) ApplyGenesis(balances []GenesisBalance) (bool, error) {
	if len(balances) == 0 {
		return false, nil
	}
	applied := false
	err := m.Update(func(txn *Txn) error {
		var marker genesisMarker
		done, err := txn.KVGet(genesisKeyBytes, &marker)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		for i, b := range balances {
			if err := txn.Credit(b.Denom, b.Addr, b.Amount); err != nil {
				return fmt.Errorf("genesis balance %d: %w", i, err)
			}
		}
		applied = true
		return txn.KVPut(genesisKeyBytes, genesisMarker{Entries: uint64(len(balances))})
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}
