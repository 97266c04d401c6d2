package ledger

import (
	"fmt"

	interfaces "github.com/sheikh-saqib/transactions-engine/internal/interfaces"
	"github.com/sheikh-saqib/transactions-engine/internal/models"
)

// Ledger routes transactions to the account of their client.
// It holds the only reference to the account store, so accounts are
// mutated through Process and nowhere else.
type Ledger struct {
	store interfaces.AccountStore
}

// NewLedger creates a Ledger on top of the given store.
func NewLedger(store interfaces.AccountStore) *Ledger {
	return &Ledger{
		store: store,
	}
}

// Process applies a single transaction. Accounts are created on first
// reference; unknown transactions are dropped without error.
func (l *Ledger) Process(tx models.Transaction) error {
	switch tx.Kind {
	case models.KindDeposit:
		return l.store.GetOrCreate(tx.Client).Deposit(tx.Tx, tx.Amount)
	case models.KindWithdrawal:
		return l.store.GetOrCreate(tx.Client).Withdrawal(tx.Tx, tx.Amount)
	case models.KindDispute:
		return l.store.GetOrCreate(tx.Client).Dispute(tx.Tx)
	case models.KindResolve:
		return l.store.GetOrCreate(tx.Client).Resolve(tx.Tx)
	case models.KindChargeback:
		return l.store.GetOrCreate(tx.Client).Chargeback(tx.Tx)
	case models.KindUnknown:
		return nil
	default:
		return fmt.Errorf("unhandled transaction kind %d", tx.Kind)
	}
}

// Account returns a read-only view of the client's snapshot.
func (l *Ledger) Account(client uint16) (models.AccountSnapshot, bool) {
	acc, ok := l.store.Get(client)
	if !ok {
		return models.AccountSnapshot{}, false
	}
	return acc.Snapshot(), true
}

// Snapshot projects every account. Rows come back ordered by client, but
// callers should not rely on that.
func (l *Ledger) Snapshot() []models.AccountSnapshot {
	accounts := l.store.Accounts()

	rows := make([]models.AccountSnapshot, 0, len(accounts))
	for _, acc := range accounts {
		rows = append(rows, acc.Snapshot())
	}
	return rows
}

