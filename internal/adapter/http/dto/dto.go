package dto

import (
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest is the request body for currency registration.
type CreateCurrencyRequest struct {
	Code string `json:"code" binding:"required,currency_code"`
}

// CreateAccountRequest is the request body for account creation.
// The account is addressed by its name, which the public API exposes as "id".
type CreateAccountRequest struct {
	ID       string           `json:"id" binding:"required,min=1,max=50,account_name"`
	Currency string           `json:"currency" binding:"required,currency_code"`
	Owner    *string          `json:"owner,omitempty" binding:"omitempty,uuid"`
	Balance  *decimal.Decimal `json:"balance,omitempty"` // opening balance, defaults to 0
}

// TransferRequest is the request body for creating a payment.
// Value accepts both JSON numbers and quoted decimal strings; a missing
// value decodes to zero, which the transfer engine rejects.
type TransferRequest struct {
	From  string          `json:"from" binding:"required,account_name"`
	To    string          `json:"to" binding:"required,account_name"`
	Value decimal.Decimal `json:"value"`
}

// CurrencyResponse is the response body for a currency.
type CurrencyResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	CreatedAt string `json:"created_at"`
}

// AccountResponse is the response body for an account.
type AccountResponse struct {
	ID        string  `json:"id"` // the account name
	Owner     *string `json:"owner,omitempty"`
	Currency  string  `json:"currency"`
	Balance   string  `json:"balance"`
	CreatedAt string  `json:"created_at"`
}

// PostingResponse is one leg of a payment in API responses.
type PostingResponse struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Direction string `json:"direction"`
	Value     string `json:"value"`
}

// PaymentResponse is the response body for a completed payment.
type PaymentResponse struct {
	ID        string            `json:"id"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	Value     string            `json:"value"`
	CreatedAt string            `json:"created_at"`
	Postings  []PostingResponse `json:"postings,omitempty"`
}

// PostingEntryResponse is one row of the ledger feed. Value is the absolute
// amount; Direction plus Counterparty carry the sign and the other party.
type PostingEntryResponse struct {
	ID           string `json:"id"`
	Account      string `json:"account"`
	Direction    string `json:"direction"`
	Value        string `json:"value"`
	Counterparty string `json:"counterparty"`
	CreatedAt    string `json:"created_at"`
}

// ReconcileResponse reports an account's balance against its posting sum.
type ReconcileResponse struct {
	Account     string `json:"account"`
	Balance     string `json:"balance"`
	PostingsSum string `json:"postings_sum"`
	Consistent  bool   `json:"consistent"`
}

// AccountListResponse wraps a paginated account list.
type AccountListResponse struct {
	Items      []AccountResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// PostingFeedResponse wraps the paginated ledger feed.
type PostingFeedResponse struct {
	Items      []PostingEntryResponse `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}
