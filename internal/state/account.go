package state

import "github.com/shopspring/decimal"

// Account is one client's balance. Total is derived, never stored.
// Locked is set by a chargeback and never cleared by normal processing.
type Account struct {
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// Total returns available + held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Credit adds amount to available funds.
func (a *Account) Credit(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
}

// Debit removes amount from available funds. The caller checks
// sufficiency and lock state first.
func (a *Account) Debit(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
}

// HoldFunds moves a disputed transaction's amount between available and
// held. The direction depends on the record kind: a disputed deposit parks
// the credited funds in held, a disputed withdrawal reverses the debit back
// into held pending adjudication.
func (a *Account) HoldFunds(amount decimal.Decimal, kind RecordKind) {
	switch kind {
	case KindDeposit:
		a.Available = a.Available.Sub(amount)
		a.Held = a.Held.Add(amount)
	case KindWithdrawal:
		a.Available = a.Available.Add(amount)
		a.Held = a.Held.Sub(amount)
	}
}

// ReleaseFunds reverses HoldFunds exactly when a dispute is resolved.
func (a *Account) ReleaseFunds(amount decimal.Decimal, kind RecordKind) {
	switch kind {
	case KindDeposit:
		a.Available = a.Available.Add(amount)
		a.Held = a.Held.Sub(amount)
	case KindWithdrawal:
		a.Available = a.Available.Sub(amount)
		a.Held = a.Held.Add(amount)
	}
}

// ChargebackFunds removes the disputed amount from held, one-directionally,
// and locks the account.
func (a *Account) ChargebackFunds(amount decimal.Decimal, kind RecordKind) {
	switch kind {
	case KindDeposit:
		a.Held = a.Held.Sub(amount)
	case KindWithdrawal:
		a.Held = a.Held.Add(amount)
	}
	a.Locked = true
}
