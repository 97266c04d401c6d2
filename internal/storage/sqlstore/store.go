package sqlstore

import (
	"context"
	"database/sql"

	interfaces "github.com/sheikh-saqib/transactions-engine/internal/interfaces"
	"github.com/sheikh-saqib/transactions-engine/internal/models"
	"github.com/shopspring/decimal"
)

const schema = `CREATE TABLE IF NOT EXISTS account_snapshots (
	run_id    TEXT    NOT NULL,
	client    INTEGER NOT NULL,
	available TEXT    NOT NULL,
	held      TEXT    NOT NULL,
	total     TEXT    NOT NULL,
	locked    BOOLEAN NOT NULL,
	PRIMARY KEY (run_id, client)
)`

// SnapshotStore writes account snapshots through database/sql. The queries
// use $n placeholders, which both lib/pq and go-sqlite3 accept.
type SnapshotStore struct {
	db    *sql.DB
	runID string
}

func NewSnapshotStore(db *sql.DB, runID string) *SnapshotStore {
	return &SnapshotStore{
		db:    db,
		runID: runID,
	}
}

// EnsureSchema creates the snapshot table if it does not exist yet.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *SnapshotStore) saveRow(ctx context.Context, row models.AccountSnapshot, dbTx *sql.Tx) error {
	const query = `INSERT INTO account_snapshots (run_id, client, available, held, total, locked)
	VALUES ($1,$2,$3,$4,$5,$6)
	ON CONFLICT (run_id, client) DO UPDATE SET
		available = excluded.available,
		held = excluded.held,
		total = excluded.total,
		locked = excluded.locked`

	_, err := dbTx.ExecContext(ctx, query, s.runID, int(row.Client), row.Available.String(), row.Held.String(), row.Total.String(), row.Locked)
	return err
}

// WriteSnapshot stores all rows in a single database transaction.
func (s *SnapshotStore) WriteSnapshot(ctx context.Context, rows []models.AccountSnapshot) (err error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	for _, row := range rows {
		if err = s.saveRow(ctx, row, dbTx); err != nil {
			return err
		}
	}
	return dbTx.Commit()
}

// GetSnapshot reads back the rows stored for this store's run.
func (s *SnapshotStore) GetSnapshot(ctx context.Context) ([]models.AccountSnapshot, error) {
	const query = `SELECT client, available, held, total, locked FROM account_snapshots
	WHERE run_id = $1 ORDER BY client`

	rows, err := s.db.QueryContext(ctx, query, s.runID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var snapshot []models.AccountSnapshot
	for rows.Next() {
		var client int
		var available, held, total string
		var row models.AccountSnapshot
		if err := rows.Scan(&client, &available, &held, &total, &row.Locked); err != nil {
			return nil, err
		}

		row.Client = uint16(client)
		if row.Available, err = decimal.NewFromString(available); err != nil {
			return nil, err
		}
		if row.Held, err = decimal.NewFromString(held); err != nil {
			return nil, err
		}
		if row.Total, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		snapshot = append(snapshot, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

var _ interfaces.SnapshotSink = (*SnapshotStore)(nil)
