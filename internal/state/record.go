package state

import (
	"PayLedger/internal/event"

	"github.com/shopspring/decimal"
)

// RecordKind discriminates the two fund-moving transaction kinds.
// Dispute-family events never create records; they only reference them.
type RecordKind int32

const (
	KindDeposit RecordKind = iota
	KindWithdrawal
)

func (k RecordKind) String() string {
	if k == KindWithdrawal {
		return "withdrawal"
	}
	return "deposit"
}

// DisputeState is the lifecycle of a ledger record:
//
//	NotDisputed --dispute--> Disputed --resolve|chargeback--> Finished
//
// Finished is terminal; further dispute-family events are no-ops.
type DisputeState int32

const (
	NotDisputed DisputeState = iota
	Disputed
	Finished
)

func (s DisputeState) String() string {
	switch s {
	case Disputed:
		return "disputed"
	case Finished:
		return "finished"
	default:
		return "not_disputed"
	}
}

// TxRecord is the ledger entry for one deposit or withdrawal.
// Client, Amount and Kind are fixed at creation; only Dispute mutates.
// The record captures declared intent: a withdrawal that was rejected for
// insufficient funds or a locked account still gets a record, so a later
// dispute moves funds as if it had succeeded.
type TxRecord struct {
	Client  event.ClientID
	Amount  decimal.Decimal
	Kind    RecordKind
	Dispute DisputeState
}
