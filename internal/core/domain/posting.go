package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostingDirection classifies a posting from its account's point of view.
type PostingDirection string

const (
	DirectionIncoming PostingDirection = "incoming"
	DirectionOutgoing PostingDirection = "outgoing"
)

// Posting is one ledger leg: a signed value applied to exactly one account.
// Negative value is a debit (outflow), positive a credit (inflow). Every
// Payment owns exactly two postings whose values sum to zero.
type Posting struct {
	ID        uuid.UUID       `json:"id"`
	PaymentID uuid.UUID       `json:"payment_id"`
	AccountID uuid.UUID       `json:"account_id"`
	Value     decimal.Decimal `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
}

// Direction returns the posting's direction derived from its sign.
func (p Posting) Direction() PostingDirection {
	if p.Value.IsPositive() {
		return DirectionIncoming
	}
	return DirectionOutgoing
}

// PostingEntry is a read-model row of the chronological ledger feed: one
// posting joined with its account name and the payment's counterparties.
type PostingEntry struct {
	ID          uuid.UUID
	AccountName string
	Value       decimal.Decimal
	FromAccount string
	ToAccount   string
	CreatedAt   time.Time
}

// Direction returns the feed entry's direction derived from its sign.
func (e PostingEntry) Direction() PostingDirection {
	if e.Value.IsPositive() {
		return DirectionIncoming
	}
	return DirectionOutgoing
}
