package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment represents one successful money transfer between two Accounts.
// It is a complete unit of work: all Postings associated with a Payment are
// created together with it or not at all, and their values sum to zero.
// A Payment is immutable once created.
type Payment struct {
	ID            uuid.UUID       `json:"id"`
	FromAccountID uuid.UUID       `json:"from_account_id"`
	ToAccountID   uuid.UUID       `json:"to_account_id"`
	Value         decimal.Decimal `json:"value"`
	CreatedAt     time.Time       `json:"created_at"`

	// Postings are the two ledger legs, populated on creation.
	Postings []Posting `json:"postings,omitempty"`
}
