package sqlstore

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sheikh-saqib/transactions-engine/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return db
}

func row(client uint16, available, held, total string, locked bool) models.AccountSnapshot {
	return models.AccountSnapshot{
		Client:    client,
		Available: decimal.RequireFromString(available),
		Held:      decimal.RequireFromString(held),
		Total:     decimal.RequireFromString(total),
		Locked:    locked,
	}
}

func assertRowsEqual(t *testing.T, want, got []models.AccountSnapshot) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Client, got[i].Client)
		assert.True(t, want[i].Available.Equal(got[i].Available), "available of client %d", want[i].Client)
		assert.True(t, want[i].Held.Equal(got[i].Held), "held of client %d", want[i].Client)
		assert.True(t, want[i].Total.Equal(got[i].Total), "total of client %d", want[i].Client)
		assert.Equal(t, want[i].Locked, got[i].Locked)
	}
}

func TestWriteSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore(openTestDB(t), "run-1")
	require.NoError(t, store.EnsureSchema(ctx))

	rows := []models.AccountSnapshot{
		row(1, "1.5", "0", "1.5", false),
		row(2, "-4", "5", "1", true),
	}
	require.NoError(t, store.WriteSnapshot(ctx, rows))

	got, err := store.GetSnapshot(ctx)
	require.NoError(t, err)
	assertRowsEqual(t, rows, got)
}

func TestWriteSnapshot_Upserts(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore(openTestDB(t), "run-1")
	require.NoError(t, store.EnsureSchema(ctx))

	require.NoError(t, store.WriteSnapshot(ctx, []models.AccountSnapshot{row(1, "1", "0", "1", false)}))
	require.NoError(t, store.WriteSnapshot(ctx, []models.AccountSnapshot{row(1, "0", "0", "0", true)}))

	got, err := store.GetSnapshot(ctx)
	require.NoError(t, err)
	assertRowsEqual(t, []models.AccountSnapshot{row(1, "0", "0", "0", true)}, got)
}

func TestWriteSnapshot_RunsAreSeparate(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	first := NewSnapshotStore(db, "run-1")
	second := NewSnapshotStore(db, "run-2")
	require.NoError(t, first.EnsureSchema(ctx))
	require.NoError(t, second.EnsureSchema(ctx))

	require.NoError(t, first.WriteSnapshot(ctx, []models.AccountSnapshot{row(1, "1", "0", "1", false)}))
	require.NoError(t, second.WriteSnapshot(ctx, []models.AccountSnapshot{row(2, "2", "0", "2", false)}))

	got, err := first.GetSnapshot(ctx)
	require.NoError(t, err)
	assertRowsEqual(t, []models.AccountSnapshot{row(1, "1", "0", "1", false)}, got)
}

func TestWriteSnapshot_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore(openTestDB(t), "run-1")

	// no schema: the first insert fails and nothing is committed
	err := store.WriteSnapshot(ctx, []models.AccountSnapshot{row(1, "1", "0", "1", false)})
	assert.Error(t, err)

	require.NoError(t, store.EnsureSchema(ctx))
	got, err := store.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
