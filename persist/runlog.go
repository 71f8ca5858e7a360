package persist

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const runLogTimeout = 10 * time.Second

// RunLog is a durable, sqlite-backed log of sweep energies, adapted from
// the teacher's disk-backed matrix storage technique (context.WithTimeout
// guarded queries, pkg/errors-wrapped results) applied to a new schema: one
// row per (sweep, site, energy) sample rather than a matrix's sparse
// entries. A chain.Chain has no knowledge of RunLog; a caller wires it in
// by setting chain.Observer.OnSweepPerformed to call Append.
type RunLog struct {
	db *sql.DB
}

// SweepEnergyRow is one recorded sample.
type SweepEnergyRow struct {
	SweepIndex int
	SiteNumber int
	Energy     float32
}

// OpenRunLog opens (creating if necessary) a sqlite-backed run log at path.
func OpenRunLog(path string) (*RunLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithMessagef(err, "persist: open sqlite database %q", path)
	}
	rl := &RunLog{db: db}
	if err := rl.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return rl, nil
}

func (rl *RunLog) createTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), runLogTimeout)
	defer cancel()
	const stmt = `
CREATE TABLE IF NOT EXISTS sweep_energy (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sweep_index INTEGER NOT NULL,
	site_number INTEGER NOT NULL,
	energy REAL NOT NULL,
	recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
	if _, err := rl.db.ExecContext(ctx, stmt); err != nil {
		return errors.WithMessage(err, "persist: create sweep_energy table")
	}
	return nil
}

// Append records one sample.
func (rl *RunLog) Append(sweepIndex, siteNumber int, energy float32) error {
	ctx, cancel := context.WithTimeout(context.Background(), runLogTimeout)
	defer cancel()
	const stmt = `INSERT INTO sweep_energy (sweep_index, site_number, energy) VALUES (?, ?, ?)`
	if _, err := rl.db.ExecContext(ctx, stmt, sweepIndex, siteNumber, energy); err != nil {
		return errors.WithMessage(err, "persist: append sweep_energy row")
	}
	return nil
}

// Rows returns every recorded sample in insertion order.
func (rl *RunLog) Rows() ([]SweepEnergyRow, error) {
	ctx, cancel := context.WithTimeout(context.Background(), runLogTimeout)
	defer cancel()
	const stmt = `SELECT sweep_index, site_number, energy FROM sweep_energy ORDER BY id ASC`
	rows, err := rl.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, errors.WithMessage(err, "persist: query sweep_energy rows")
	}
	defer rows.Close()

	var out []SweepEnergyRow
	for rows.Next() {
		var r SweepEnergyRow
		if err := rows.Scan(&r.SweepIndex, &r.SiteNumber, &r.Energy); err != nil {
			return nil, errors.WithMessage(err, "persist: scan sweep_energy row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithMessage(err, "persist: iterate sweep_energy rows")
	}
	return out, nil
}

// Close releases the underlying database handle.
func (rl *RunLog) Close() error {
	return errors.WithMessage(rl.db.Close(), "persist: close sweep_energy database")
}
