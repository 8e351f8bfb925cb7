package report_test

import (
	"sort"
	"strings"
	"testing"

	"PayLedger/internal/report"
	"PayLedger/internal/state"
	"PayLedger/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWrite_EmptySet(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, report.Write(&buf, state.NewAccountSet()))

	assert.Equal(t, report.Header+"\n", buf.String())
}

func TestWrite_SingleAccountGolden(t *testing.T) {
	accounts := state.NewAccountSet()
	accounts.Upsert(1, func(acct *state.Account) {
		acct.Available = dec("1.5")
	})

	var buf strings.Builder
	require.NoError(t, report.Write(&buf, accounts))

	testutil.AssertGolden(t, "report_single.golden", []byte(buf.String()))
}

func TestWrite_RowsCarryFullState(t *testing.T) {
	accounts := state.NewAccountSet()
	accounts.Upsert(1, func(acct *state.Account) {
		acct.Available = dec("1.1234")
		acct.Held = dec("0.5")
	})
	accounts.Upsert(2, func(acct *state.Account) {
		acct.Available = dec("2")
		acct.Locked = true
	})

	var buf strings.Builder
	require.NoError(t, report.Write(&buf, accounts))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, report.Header, lines[0])

	// Row order is unspecified; compare as a sorted set.
	rows := lines[1:]
	sort.Strings(rows)
	assert.Equal(t, []string{
		"1,1.1234,0.5,1.6234,false",
		"2,2,0,2,true",
	}, rows)
}
