// Package report renders final account state as CSV, one row per client.
package report

import (
	"fmt"
	"io"

	"PayLedger/internal/event"
	"PayLedger/internal/state"
)

// Header is the first line of every report.
const Header = "client,available,held,total,locked"

// Write emits the balance report for every account. Amounts keep the
// decimal precision they carried through processing; row order is the
// store's iteration order and is unspecified.
func Write(w io.Writer, accounts *state.AccountSet) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	var writeErr error
	accounts.Range(func(id event.ClientID, acct state.Account) bool {
		_, writeErr = fmt.Fprintf(w, "%d,%s,%s,%s,%t\n",
			id, acct.Available, acct.Held, acct.Total(), acct.Locked)
		return writeErr == nil
	})
	if writeErr != nil {
		return fmt.Errorf("write report row: %w", writeErr)
	}
	return nil
}
