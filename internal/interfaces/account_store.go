package interfaces

import "github.com/sheikh-saqib/transactions-engine/internal/account"

// AccountStore keeps the client -> account mapping owned by the ledger.
// Accounts are never removed once created.
type AccountStore interface {
	GetOrCreate(client uint16) *account.Account
	Get(client uint16) (*account.Account, bool)
	Accounts() []*account.Account
}
