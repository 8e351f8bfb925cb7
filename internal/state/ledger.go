package state

import (
	"sync"

	"PayLedger/internal/event"
)

// TxLedger maps transaction ids to their records. Records live for the
// whole run; there is no eviction. A reused TxID overwrites the previous
// record (last write wins).
type TxLedger struct {
	mu      sync.RWMutex
	records map[event.TxID]*TxRecord
}

func NewTxLedger() *TxLedger {
	return &TxLedger{
		records: make(map[event.TxID]*TxRecord),
	}
}

// Put inserts or overwrites the record for id.
func (l *TxLedger) Put(id event.TxID, rec TxRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[id] = &rec
}

// Mutate runs fn against the record for id if it exists. Reports whether
// the record was found. fn runs under the ledger lock, so the dispute
// lifecycle check and transition are one atomic step.
func (l *TxLedger) Mutate(id event.TxID, fn func(*TxRecord)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[id]
	if !ok {
		return false
	}
	fn(rec)
	return true
}

// Get returns a copy of the record for id.
func (l *TxLedger) Get(id event.TxID) (TxRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[id]
	if !ok {
		return TxRecord{}, false
	}
	return *rec, true
}

// Len returns the number of records.
func (l *TxLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
