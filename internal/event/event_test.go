package event_test

import (
	"testing"

	"PayLedger/internal/event"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want event.Kind
	}{
		{"deposit", event.KindDeposit},
		{"withdrawal", event.KindWithdrawal},
		{"dispute", event.KindDispute},
		{"resolve", event.KindResolve},
		{"chargeback", event.KindChargeback},
		{"Deposit", event.KindDeposit},
		{"CHARGEBACK", event.KindChargeback},
	}

	for _, tc := range cases {
		got, err := event.ParseKind(tc.in)
		if err != nil {
			t.Errorf("ParseKind(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseKind(%q): got %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseKind_Unknown(t *testing.T) {
	if _, err := event.ParseKind("teleport"); err == nil {
		t.Error("unknown type must fail")
	}
	if _, err := event.ParseKind(""); err == nil {
		t.Error("empty type must fail")
	}
}

func TestKind_String(t *testing.T) {
	kinds := []event.Kind{
		event.KindDeposit, event.KindWithdrawal, event.KindDispute,
		event.KindResolve, event.KindChargeback,
	}
	for _, k := range kinds {
		parsed, err := event.ParseKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("%s did not round-trip: %v", k, err)
		}
	}
	if event.KindUnknown.String() != "unknown" {
		t.Errorf("unknown kind string: %s", event.KindUnknown)
	}
}
