package events

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionApplied is emitted after the ledger accepted a transaction.
type TransactionApplied struct {
	RunID      string           `json:"run_id"`
	Type       string           `json:"type"`
	Client     uint16           `json:"client"`
	Tx         uint32           `json:"tx"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// TransactionRejected is emitted when a record was skipped because of an error.
type TransactionRejected struct {
	RunID      string    `json:"run_id"`
	Line       int       `json:"line"`
	Type       string    `json:"type,omitempty"`
	Client     uint16    `json:"client"`
	Tx         uint32    `json:"tx"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e TransactionApplied) PartitionKey() []byte {
	return []byte(strconv.FormatUint(uint64(e.Client), 10))
}

func (e TransactionRejected) PartitionKey() []byte {
	return []byte(strconv.FormatUint(uint64(e.Client), 10))
}
