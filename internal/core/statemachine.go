package core

import (
	"errors"
	"fmt"

	"PayLedger/internal/event"
	"PayLedger/internal/state"
)

// ErrMissingAmount is returned for a deposit or withdrawal without an
// amount. It is a per-event domain error: the worker reports it and the
// lane keeps going.
var ErrMissingAmount = errors.New("missing amount")

// StateMachine applies one event to the account set and the ledger.
// It holds no state of its own, so one instance is shared by every lane.
//
// Lock order is always ledger before accounts. Deposits and withdrawals
// touch the two stores sequentially; the dispute family nests the account
// mutation inside the ledger mutation so the lifecycle check and the fund
// movement stay consistent.
type StateMachine struct {
	accounts *state.AccountSet
	ledger   *state.TxLedger
}

func NewStateMachine(accounts *state.AccountSet, ledger *state.TxLedger) *StateMachine {
	return &StateMachine{
		accounts: accounts,
		ledger:   ledger,
	}
}

// Apply dispatches on the event kind. Dispute-family events never fail;
// every malformed reference is a deliberate no-op.
func (m *StateMachine) Apply(ev event.Event) error {
	switch ev.Kind {
	case event.KindDeposit:
		return m.deposit(ev)
	case event.KindWithdrawal:
		return m.withdrawal(ev)
	case event.KindDispute:
		m.dispute(ev)
	case event.KindResolve:
		m.resolve(ev)
	case event.KindChargeback:
		m.chargeback(ev)
	default:
		return fmt.Errorf("tx %d: unknown event kind %d", ev.Tx, ev.Kind)
	}
	return nil
}

// deposit credits available funds unconditionally, locked or not, and
// records the transaction in the ledger.
func (m *StateMachine) deposit(ev event.Event) error {
	if ev.Amount == nil {
		return fmt.Errorf("deposit tx %d: %w", ev.Tx, ErrMissingAmount)
	}
	amount := *ev.Amount

	m.accounts.Upsert(ev.Client, func(acct *state.Account) {
		acct.Credit(amount)
	})
	m.ledger.Put(ev.Tx, state.TxRecord{
		Client: ev.Client,
		Amount: amount,
		Kind:   state.KindDeposit,
	})
	return nil
}

// withdrawal debits available funds only when the account is unlocked and
// sufficiently funded. The ledger record is written either way: it captures
// declared intent, not confirmed success.
func (m *StateMachine) withdrawal(ev event.Event) error {
	if ev.Amount == nil {
		return fmt.Errorf("withdrawal tx %d: %w", ev.Tx, ErrMissingAmount)
	}
	amount := *ev.Amount

	m.accounts.Upsert(ev.Client, func(acct *state.Account) {
		if !acct.Locked && acct.Available.GreaterThanOrEqual(amount) {
			acct.Debit(amount)
		}
	})
	m.ledger.Put(ev.Tx, state.TxRecord{
		Client: ev.Client,
		Amount: amount,
		Kind:   state.KindWithdrawal,
	})
	return nil
}

// dispute moves the recorded amount into held if the record has never been
// disputed. The owning client comes from the record, not the event. The
// lifecycle advances whenever the account exists, even when the lock keeps
// the funds in place.
func (m *StateMachine) dispute(ev event.Event) {
	m.ledger.Mutate(ev.Tx, func(rec *state.TxRecord) {
		if rec.Dispute != state.NotDisputed {
			return
		}
		found := m.accounts.Mutate(rec.Client, func(acct *state.Account) {
			if !acct.Locked {
				acct.HoldFunds(rec.Amount, rec.Kind)
			}
		})
		if found {
			rec.Dispute = state.Disputed
		}
	})
}

// resolve reverses the dispute's fund movement and finishes the record.
func (m *StateMachine) resolve(ev event.Event) {
	m.ledger.Mutate(ev.Tx, func(rec *state.TxRecord) {
		if rec.Dispute != state.Disputed {
			return
		}
		found := m.accounts.Mutate(rec.Client, func(acct *state.Account) {
			if !acct.Locked {
				acct.ReleaseFunds(rec.Amount, rec.Kind)
			}
		})
		if found {
			rec.Dispute = state.Finished
		}
	})
}

// chargeback removes the disputed amount from held and locks the account.
// An already-locked account skips both the removal and the re-lock, but the
// record still finishes.
func (m *StateMachine) chargeback(ev event.Event) {
	m.ledger.Mutate(ev.Tx, func(rec *state.TxRecord) {
		if rec.Dispute != state.Disputed {
			return
		}
		found := m.accounts.Mutate(rec.Client, func(acct *state.Account) {
			if !acct.Locked {
				acct.ChargebackFunds(rec.Amount, rec.Kind)
			}
		})
		if found {
			rec.Dispute = state.Finished
		}
	})
}
