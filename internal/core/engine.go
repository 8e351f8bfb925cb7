package core

import (
	"errors"
	"fmt"
	"io"
	"time"

	"PayLedger/internal/event"
	"PayLedger/internal/observability"
	"PayLedger/internal/state"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Source is the event-source collaborator: a lazy sequence of validated
// events. Next returns io.EOF when the sequence is exhausted; any other
// error is fatal to the run (malformed input fails fast at the source
// boundary, before it reaches the core).
type Source interface {
	Next() (event.Event, error)
}

// Config tunes the engine.
type Config struct {
	// LaneCapacity bounds each per-client queue. Zero means
	// DefaultLaneCapacity.
	LaneCapacity int
}

// Engine wires the dispatcher, the shared state machine and the two
// stores. One Engine handles one run; the account set it returns is
// quiescent once Run returns.
type Engine struct {
	runID      uuid.UUID
	accounts   *state.AccountSet
	ledger     *state.TxLedger
	dispatcher *Dispatcher
	log        zerolog.Logger
}

func NewEngine(cfg Config, log zerolog.Logger, metrics *observability.Metrics) *Engine {
	accounts := state.NewAccountSet()
	ledger := state.NewTxLedger()
	machine := NewStateMachine(accounts, ledger)

	runID := uuid.New()
	log = log.With().Str("run_id", runID.String()).Logger()

	return &Engine{
		runID:      runID,
		accounts:   accounts,
		ledger:     ledger,
		dispatcher: NewDispatcher(machine.Apply, cfg.LaneCapacity, log, metrics),
		log:        log,
	}
}

// Run drains src into the dispatcher, then closes every lane and waits for
// all workers to finish. On a source error the run aborts: lanes are
// drained so the stores stop mutating, but no accounts are returned.
func (e *Engine) Run(src Source) (*state.AccountSet, error) {
	start := time.Now()
	routed := 0

	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			e.dispatcher.Shutdown()
			return nil, fmt.Errorf("read event: %w", err)
		}
		e.dispatcher.Route(ev)
		routed++
	}

	e.dispatcher.Shutdown()

	e.log.Info().
		Int("events", routed).
		Int("clients", e.accounts.Len()).
		Int("ledger_records", e.ledger.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("run complete")

	return e.accounts, nil
}

// RunID identifies this engine run in logs and exports.
func (e *Engine) RunID() uuid.UUID {
	return e.runID
}

// Accounts exposes the account store for collaborators that read final
// state (report renderer, snapshot export).
func (e *Engine) Accounts() *state.AccountSet {
	return e.accounts
}

// Ledger exposes the transaction ledger.
func (e *Engine) Ledger() *state.TxLedger {
	return e.ledger
}
