package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"PayLedger/internal/event"
	"PayLedger/internal/observability"
	"PayLedger/internal/state"

	"github.com/google/uuid"
)

// Exporter writes the final balance snapshot of a run to Postgres using
// multi-row INSERT batches. Export is optional and happens after the
// engine has drained, so it never contends with processing.
type Exporter struct {
	db        *sql.DB
	batchSize int
	metrics   *observability.Metrics
}

// SnapshotRow is one exported account balance.
type SnapshotRow struct {
	RunID     uuid.UUID
	Client    event.ClientID
	Available string
	Held      string
	Total     string
	Locked    bool
}

func NewExporter(db *sql.DB, batchSize int, metrics *observability.Metrics) *Exporter {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Exporter{db: db, batchSize: batchSize, metrics: metrics}
}

// EnsureSchema bootstraps the snapshot table. Amounts are stored as
// NUMERIC so the decimal precision survives the round trip.
func (e *Exporter) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE SCHEMA IF NOT EXISTS payledger`,
		`CREATE TABLE IF NOT EXISTS payledger.balance_snapshots (
			run_id      UUID        NOT NULL,
			client      INTEGER     NOT NULL,
			available   NUMERIC     NOT NULL,
			held        NUMERIC     NOT NULL,
			total       NUMERIC     NOT NULL,
			locked      BOOLEAN     NOT NULL,
			exported_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (run_id, client)
		)`,
	}
	for _, stmt := range statements {
		if _, err := e.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ExportAccounts writes one row per account, tagged with the run id.
// Re-running an export for the same run id is idempotent.
func (e *Exporter) ExportAccounts(ctx context.Context, runID uuid.UUID, accounts *state.AccountSet) error {
	start := time.Now()

	rows := make([]SnapshotRow, 0, accounts.Len())
	accounts.Range(func(id event.ClientID, acct state.Account) bool {
		rows = append(rows, SnapshotRow{
			RunID:     runID,
			Client:    id,
			Available: acct.Available.String(),
			Held:      acct.Held.String(),
			Total:     acct.Total().String(),
			Locked:    acct.Locked,
		})
		return true
	})

	for offset := 0; offset < len(rows); offset += e.batchSize {
		end := offset + e.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := e.writeBatch(ctx, rows[offset:end]); err != nil {
			return err
		}
	}

	if e.metrics != nil {
		e.metrics.ExportRows.Add(float64(len(rows)))
		e.metrics.ExportDuration.Observe(time.Since(start).Seconds())
	}
	return nil
}

func (e *Exporter) writeBatch(ctx context.Context, rows []SnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}

	query := `INSERT INTO payledger.balance_snapshots
		(run_id, client, available, held, total, locked)
		VALUES `

	values := make([]string, 0, len(rows))
	args := make([]interface{}, 0, len(rows)*6)

	for i, r := range rows {
		base := i * 6
		values = append(values, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
		))
		args = append(args,
			r.RunID, int64(r.Client), r.Available, r.Held, r.Total, r.Locked,
		)
	}

	query += strings.Join(values, ", ")
	query += ` ON CONFLICT (run_id, client) DO UPDATE SET
		available = EXCLUDED.available,
		held = EXCLUDED.held,
		total = EXCLUDED.total,
		locked = EXCLUDED.locked,
		exported_at = now()`

	if _, err := e.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write snapshot batch: %w", err)
	}
	return nil
}
