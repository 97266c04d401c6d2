package models

import "github.com/shopspring/decimal"

// AccountSnapshot is the read-only projection of one account at end of run.
type AccountSnapshot struct {
	Client    uint16          `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}
