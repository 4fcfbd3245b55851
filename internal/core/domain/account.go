package domain

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account holds a currency-denominated balance. Balance is denormalized for
// O(1) reads: it must always equal the sum of the account's posting values,
// and the transfer engine is its only writer on the transfer path.
// Invariant: 0 <= Balance <= AmountRules.MaxValue.
type Account struct {
	ID        uuid.UUID       `json:"-"`
	Name      string          `json:"id"` // unique, human-assigned; the public identifier
	OwnerID   *uuid.UUID      `json:"owner,omitempty"`
	Currency  string          `json:"currency"` // currency code, immutable
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LockOrder returns the two account IDs in the global lock order (ascending
// by identifier bytes), independent of transfer direction. Any two transfers
// touching the same pair therefore acquire row locks in the same sequence,
// which rules out pairwise deadlock.
func LockOrder(a, b uuid.UUID) []uuid.UUID {
	if bytes.Compare(a[:], b[:]) < 0 {
		return []uuid.UUID{a, b}
	}
	return []uuid.UUID{b, a}
}
