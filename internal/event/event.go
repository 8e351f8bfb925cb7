package event

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ClientID identifies the account an event belongs to.
type ClientID uint16

// TxID identifies a deposit or withdrawal transaction. Dispute, resolve and
// chargeback events reference the TxID of the transaction they target.
type TxID uint32

// Kind discriminator for transaction events
type Kind int32

const (
	KindUnknown Kind = iota
	KindDeposit
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

// Event is one transaction instruction read from the source.
// Amount is present for deposits and withdrawals only; the other three
// kinds reference funds through the ledger record of Tx.
type Event struct {
	Kind   Kind
	Client ClientID
	Tx     TxID
	Amount *decimal.Decimal
}

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// ParseKind converts a wire type string into a Kind. Matching is
// case-insensitive; an unrecognized type is a source-level error.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "deposit":
		return KindDeposit, nil
	case "withdrawal":
		return KindWithdrawal, nil
	case "dispute":
		return KindDispute, nil
	case "resolve":
		return KindResolve, nil
	case "chargeback":
		return KindChargeback, nil
	default:
		return KindUnknown, fmt.Errorf("unknown event type: %q", s)
	}
}
