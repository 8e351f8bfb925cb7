package ingestion_test

import (
	"context"
	"io"
	"testing"
	"time"

	"PayLedger/internal/event"
	"PayLedger/internal/ingestion"
	"PayLedger/internal/testutil"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWireEvent_Deposit(t *testing.T) {
	ev, err := ingestion.ParseWireEvent([]byte(`{"type":"deposit","client":1,"tx":10,"amount":"1.5"}`))
	require.NoError(t, err)

	assert.Equal(t, event.KindDeposit, ev.Kind)
	assert.Equal(t, event.ClientID(1), ev.Client)
	assert.Equal(t, event.TxID(10), ev.Tx)
	require.NotNil(t, ev.Amount)
	assert.True(t, ev.Amount.Equal(decimal.RequireFromString("1.5")))
}

func TestParseWireEvent_NumericAmount(t *testing.T) {
	ev, err := ingestion.ParseWireEvent([]byte(`{"type":"deposit","client":2,"tx":11,"amount":2.75}`))
	require.NoError(t, err)
	assert.True(t, ev.Amount.Equal(decimal.RequireFromString("2.75")))
}

func TestParseWireEvent_DisputeWithoutAmount(t *testing.T) {
	ev, err := ingestion.ParseWireEvent([]byte(`{"type":"dispute","client":1,"tx":10}`))
	require.NoError(t, err)
	assert.Equal(t, event.KindDispute, ev.Kind)
	assert.Nil(t, ev.Amount)
}

func TestParseWireEvent_UnknownType(t *testing.T) {
	_, err := ingestion.ParseWireEvent([]byte(`{"type":"teleport","client":1,"tx":10}`))
	assert.ErrorContains(t, err, "unknown event type")
}

func TestParseWireEvent_MalformedJSON(t *testing.T) {
	_, err := ingestion.ParseWireEvent([]byte(`{"type":`))
	assert.ErrorContains(t, err, "parse event")
}

// Integration: publish events over a real NATS server, cancel, and check
// the drain contract.
func TestNATSSource_PublishAndDrain(t *testing.T) {
	testutil.RequireIntegration(t)

	conn, err := nats.Connect(testutil.TestNATSURL())
	if err != nil {
		t.Skipf("test nats not available: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	src, err := ingestion.NewNATSSource(ctx, conn, "pay.test.transactions", 16)
	require.NoError(t, err)

	require.NoError(t, conn.Publish("pay.test.transactions", []byte(`{"type":"deposit","client":1,"tx":1,"amount":"1.5"}`)))
	require.NoError(t, conn.Publish("pay.test.transactions", []byte(`{"type":"dispute","client":1,"tx":1}`)))
	require.NoError(t, conn.Flush())

	ev, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, event.KindDeposit, ev.Kind)

	ev, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, event.KindDispute, ev.Kind)

	cancel()
	time.Sleep(50 * time.Millisecond)

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}
