package account

import (
	"fmt"

	"github.com/sheikh-saqib/transactions-engine/internal/models"
	"github.com/shopspring/decimal"
)

// Account holds the balances of a single client and the history needed to
// dispute its deposits. Every operation either applies all of its mutations
// or returns an error and leaves the account untouched.
//
// Locked is terminal but is not consulted by any operation.
type Account struct {
	client    uint16
	available decimal.Decimal
	held      decimal.Decimal
	total     decimal.Decimal
	locked    bool

	settled  map[uint32]models.Transaction // successful deposits and withdrawals by tx id
	disputed map[uint32]struct{}           // subset of settled currently under dispute
}

// New returns an empty, unlocked account for client.
func New(client uint16) *Account {
	return &Account{
		client:    client,
		available: decimal.Zero,
		held:      decimal.Zero,
		total:     decimal.Zero,
		settled:   make(map[uint32]models.Transaction),
		disputed:  make(map[uint32]struct{}),
	}
}

func (a *Account) Client() uint16             { return a.client }
func (a *Account) Available() decimal.Decimal { return a.available }
func (a *Account) Held() decimal.Decimal      { return a.held }
func (a *Account) Total() decimal.Decimal     { return a.total }
func (a *Account) Locked() bool               { return a.locked }

// Settled returns the settled transaction recorded under tx, if any.
func (a *Account) Settled(tx uint32) (models.Transaction, bool) {
	t, ok := a.settled[tx]
	return t, ok
}

// IsDisputed reports whether tx is under an open dispute.
func (a *Account) IsDisputed(tx uint32) bool {
	_, ok := a.disputed[tx]
	return ok
}

// Snapshot projects the current balances without mutating the account.
func (a *Account) Snapshot() models.AccountSnapshot {
	return models.AccountSnapshot{
		Client:    a.client,
		Available: a.available,
		Held:      a.held,
		Total:     a.total,
		Locked:    a.locked,
	}
}

// Deposit credits amount to the available balance.
func (a *Account) Deposit(tx uint32, amount decimal.Decimal) error {
	if _, exists := a.settled[tx]; exists {
		return fmt.Errorf("deposit tx %d: %w", tx, ErrDuplicateTransaction)
	}
	if amount.IsNegative() {
		return fmt.Errorf("deposit tx %d: %w: %s is negative", tx, ErrInvalidAmount, amount)
	}

	a.available = a.available.Add(amount)
	a.total = a.total.Add(amount)
	a.settled[tx] = models.Deposit(a.client, tx, amount)
	return nil
}

// Withdrawal debits amount from the available balance.
func (a *Account) Withdrawal(tx uint32, amount decimal.Decimal) error {
	if _, exists := a.settled[tx]; exists {
		return fmt.Errorf("withdrawal tx %d: %w", tx, ErrDuplicateTransaction)
	}
	if a.available.LessThan(amount) {
		return fmt.Errorf("withdrawal tx %d: %w: available %s, requested %s", tx, ErrInsufficientFunds, a.available, amount)
	}

	a.available = a.available.Sub(amount)
	a.total = a.total.Sub(amount)
	a.settled[tx] = models.Withdrawal(a.client, tx, amount)
	return nil
}

// Dispute moves the funds of a settled deposit from available to held.
// Disputing a withdrawal is accepted but changes nothing and does not open
// a dispute.
func (a *Account) Dispute(tx uint32) error {
	if _, open := a.disputed[tx]; open {
		return fmt.Errorf("dispute tx %d: %w", tx, ErrAlreadyDisputed)
	}
	settled, ok := a.settled[tx]
	if !ok {
		return fmt.Errorf("dispute tx %d: %w", tx, ErrTransactionNotFound)
	}

	if settled.Kind == models.KindDeposit {
		a.available = a.available.Sub(settled.Amount)
		a.held = a.held.Add(settled.Amount)
		a.disputed[tx] = struct{}{}
	}
	return nil
}

// Resolve closes a dispute and releases the held funds back to available.
func (a *Account) Resolve(tx uint32) error {
	if _, open := a.disputed[tx]; !open {
		return fmt.Errorf("resolve tx %d: %w", tx, ErrNotDisputed)
	}
	delete(a.disputed, tx)

	if settled := a.settled[tx]; settled.Kind == models.KindDeposit {
		a.held = a.held.Sub(settled.Amount)
		a.available = a.available.Add(settled.Amount)
	}
	return nil
}

// Chargeback closes a dispute by removing the held funds and locks the account.
func (a *Account) Chargeback(tx uint32) error {
	if _, open := a.disputed[tx]; !open {
		return fmt.Errorf("chargeback tx %d: %w", tx, ErrNotDisputed)
	}
	delete(a.disputed, tx)

	if settled := a.settled[tx]; settled.Kind == models.KindDeposit {
		a.held = a.held.Sub(settled.Amount)
		a.total = a.total.Sub(settled.Amount)
		a.locked = true
	}
	return nil
}
