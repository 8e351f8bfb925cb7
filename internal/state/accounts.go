package state

import (
	"sync"

	"PayLedger/internal/event"
)

// AccountSet maps client ids to accounts. Per-client lanes already
// serialize same-client access, so the only concurrency the set must
// survive is two different clients hitting the map at once; the mutex
// guarantees at-most-one account is created per id under concurrent
// first access.
type AccountSet struct {
	mu       sync.RWMutex
	accounts map[event.ClientID]*Account
}

func NewAccountSet() *AccountSet {
	return &AccountSet{
		accounts: make(map[event.ClientID]*Account),
	}
}

// Upsert runs fn against the account for id, creating a zero, unlocked
// account first if none exists. Read-or-create and mutate are one atomic
// step.
func (s *AccountSet) Upsert(id event.ClientID, fn func(*Account)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		acct = &Account{}
		s.accounts[id] = acct
	}
	fn(acct)
}

// Mutate runs fn against the account for id only if it already exists.
// Reports whether the account was found.
func (s *AccountSet) Mutate(id event.ClientID, fn func(*Account)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return false
	}
	fn(acct)
	return true
}

// Get returns a copy of the account for id.
func (s *AccountSet) Get(id event.ClientID) (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[id]
	if !ok {
		return Account{}, false
	}
	return *acct, true
}

// Range calls fn for every account until fn returns false.
// Iteration order is unspecified.
func (s *AccountSet) Range(fn func(event.ClientID, Account) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, acct := range s.accounts {
		if !fn(id, *acct) {
			return
		}
	}
}

// Len returns the number of accounts.
func (s *AccountSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}
