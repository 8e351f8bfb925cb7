package state_test

import (
	"sync"
	"testing"

	"PayLedger/internal/event"
	"PayLedger/internal/state"
)

func TestAccountSet_UpsertCreatesZeroAccount(t *testing.T) {
	set := state.NewAccountSet()

	set.Upsert(1, func(acct *state.Account) {
		if !acct.Available.IsZero() || !acct.Held.IsZero() || acct.Locked {
			t.Errorf("first upsert should see a zero account, got %+v", *acct)
		}
		acct.Credit(dec("5"))
	})

	acct, ok := set.Get(1)
	if !ok {
		t.Fatal("account should exist after upsert")
	}
	if !acct.Available.Equal(dec("5")) {
		t.Errorf("available: got %s, want 5", acct.Available)
	}
}

func TestAccountSet_MutateAbsentIsNoop(t *testing.T) {
	set := state.NewAccountSet()

	found := set.Mutate(7, func(acct *state.Account) {
		t.Error("mutate fn must not run for an absent account")
	})
	if found {
		t.Error("mutate of absent account should report not found")
	}
	if set.Len() != 0 {
		t.Errorf("mutate must not create accounts, len=%d", set.Len())
	}
}

func TestAccountSet_GetReturnsCopy(t *testing.T) {
	set := state.NewAccountSet()
	set.Upsert(1, func(acct *state.Account) { acct.Credit(dec("1")) })

	acct, _ := set.Get(1)
	acct.Credit(dec("100"))

	fresh, _ := set.Get(1)
	if !fresh.Available.Equal(dec("1")) {
		t.Errorf("store mutated through a copy: available=%s", fresh.Available)
	}
}

// Concurrent first access to the same client must create exactly one
// account entry, and no increment may be lost.
func TestAccountSet_ConcurrentUpsertSingleEntry(t *testing.T) {
	set := state.NewAccountSet()

	const workers = 32
	const iterations = 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				set.Upsert(42, func(acct *state.Account) {
					acct.Credit(dec("1"))
				})
			}
		}()
	}
	wg.Wait()

	if set.Len() != 1 {
		t.Fatalf("expected a single account entry, got %d", set.Len())
	}
	acct, _ := set.Get(42)
	want := dec("3200")
	if !acct.Available.Equal(want) {
		t.Errorf("available: got %s, want %s", acct.Available, want)
	}
}

func TestAccountSet_ConcurrentDistinctClients(t *testing.T) {
	set := state.NewAccountSet()

	const clients = 64
	var wg sync.WaitGroup
	for c := 0; c < clients; c++ {
		wg.Add(1)
		go func(id event.ClientID) {
			defer wg.Done()
			set.Upsert(id, func(acct *state.Account) { acct.Credit(dec("1")) })
		}(event.ClientID(c))
	}
	wg.Wait()

	if set.Len() != clients {
		t.Errorf("expected %d accounts, got %d", clients, set.Len())
	}
}

func TestTxLedger_PutOverwrites(t *testing.T) {
	ledger := state.NewTxLedger()

	ledger.Put(1, state.TxRecord{Client: 1, Amount: dec("1"), Kind: state.KindDeposit})
	ledger.Put(1, state.TxRecord{Client: 2, Amount: dec("9"), Kind: state.KindWithdrawal})

	rec, ok := ledger.Get(1)
	if !ok {
		t.Fatal("record should exist")
	}
	if rec.Client != 2 || !rec.Amount.Equal(dec("9")) || rec.Kind != state.KindWithdrawal {
		t.Errorf("last write should win, got %+v", rec)
	}
	if ledger.Len() != 1 {
		t.Errorf("len: got %d, want 1", ledger.Len())
	}
}

func TestTxLedger_MutateLifecycle(t *testing.T) {
	ledger := state.NewTxLedger()
	ledger.Put(5, state.TxRecord{Client: 1, Amount: dec("2"), Kind: state.KindDeposit})

	found := ledger.Mutate(5, func(rec *state.TxRecord) {
		rec.Dispute = state.Disputed
	})
	if !found {
		t.Fatal("mutate should find the record")
	}

	rec, _ := ledger.Get(5)
	if rec.Dispute != state.Disputed {
		t.Errorf("dispute state: got %s, want disputed", rec.Dispute)
	}

	if ledger.Mutate(99, func(*state.TxRecord) {}) {
		t.Error("mutate of unknown tx should report not found")
	}
}
