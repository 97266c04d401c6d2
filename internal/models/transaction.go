package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrMissingAmount = errors.New("missing amount")

// Kind tags the variant a Transaction carries.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindDeposit
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// Transaction is an immutable instruction against a single client account.
// Amount is only meaningful for deposits and withdrawals.
type Transaction struct {
	Kind   Kind
	Client uint16          // owning client id
	Tx     uint32          // transaction id, unique per account for deposits/withdrawals
	Amount decimal.Decimal // zero for dispute, resolve and chargeback
}

func Deposit(client uint16, tx uint32, amount decimal.Decimal) Transaction {
	return Transaction{Kind: KindDeposit, Client: client, Tx: tx, Amount: amount}
}

func Withdrawal(client uint16, tx uint32, amount decimal.Decimal) Transaction {
	return Transaction{Kind: KindWithdrawal, Client: client, Tx: tx, Amount: amount}
}

func Dispute(client uint16, tx uint32) Transaction {
	return Transaction{Kind: KindDispute, Client: client, Tx: tx}
}

func Resolve(client uint16, tx uint32) Transaction {
	return Transaction{Kind: KindResolve, Client: client, Tx: tx}
}

func Chargeback(client uint16, tx uint32) Transaction {
	return Transaction{Kind: KindChargeback, Client: client, Tx: tx}
}

// HasAmount reports whether the variant carries an amount.
func (t Transaction) HasAmount() bool {
	return t.Kind == KindDeposit || t.Kind == KindWithdrawal
}

func (t Transaction) String() string {
	if t.HasAmount() {
		return fmt.Sprintf("%s{client: %d, tx: %d, amount: %s}", t.Kind, t.Client, t.Tx, t.Amount)
	}
	if t.Kind == KindUnknown {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s{client: %d, tx: %d}", t.Kind, t.Client, t.Tx)
}

// Record is a raw input row before classification.
type Record struct {
	Type   string
	Client uint16
	Tx     uint32
	Amount *string // nil when the row has no amount
}

// Classify turns a raw record into a Transaction. Unrecognised types become
// KindUnknown rather than an error.
func Classify(r Record) (Transaction, error) {
	switch r.Type {
	case "deposit", "withdrawal":
		if r.Amount == nil {
			return Transaction{}, fmt.Errorf("%s tx %d: %w", r.Type, r.Tx, ErrMissingAmount)
		}
		amount, err := ParseAmount(*r.Amount)
		if err != nil {
			return Transaction{}, fmt.Errorf("%s tx %d: %w", r.Type, r.Tx, err)
		}
		if r.Type == "deposit" {
			return Deposit(r.Client, r.Tx, amount), nil
		}
		return Withdrawal(r.Client, r.Tx, amount), nil
	case "dispute":
		return Dispute(r.Client, r.Tx), nil
	case "resolve":
		return Resolve(r.Client, r.Tx), nil
	case "chargeback":
		return Chargeback(r.Client, r.Tx), nil
	default:
		return Transaction{Kind: KindUnknown}, nil
	}
}
