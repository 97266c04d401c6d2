package memory

import (
	"sort"

	"github.com/sheikh-saqib/transactions-engine/internal/account"
	interfaces "github.com/sheikh-saqib/transactions-engine/internal/interfaces"
)

// MemoryAccountStore is an in-memory implementation of interfaces.AccountStore.
// It is not safe for concurrent use; the ledger applies transactions one at a time.
type MemoryAccountStore struct {
	accounts map[uint16]*account.Account
}

// NewMemoryAccountStore creates an empty store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts: make(map[uint16]*account.Account),
	}
}

// GetOrCreate returns the account for client, creating it on first reference.
func (m *MemoryAccountStore) GetOrCreate(client uint16) *account.Account {
	acc, exists := m.accounts[client]
	if !exists {
		acc = account.New(client)
		m.accounts[client] = acc
	}
	return acc
}

func (m *MemoryAccountStore) Get(client uint16) (*account.Account, bool) {
	acc, exists := m.accounts[client]
	return acc, exists
}

// Accounts returns every account ordered by client id.
func (m *MemoryAccountStore) Accounts() []*account.Account {
	result := make([]*account.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		result = append(result, acc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Client() < result[j].Client()
	})
	return result
}

// Compile-time check: ensure MemoryAccountStore implements AccountStore interface
var _ interfaces.AccountStore = (*MemoryAccountStore)(nil)
