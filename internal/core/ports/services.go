package ports

import (
	"context"
	"time"

	"double-entry-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

// AccountCache is a best-effort read cache for account projections.
// Failures are logged and ignored; the database stays authoritative.
type AccountCache interface {
	Get(ctx context.Context, name string) ([]byte, error) // nil, nil on miss
	Set(ctx context.Context, name string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, names ...string) error
}

// --- Service Ports (Business Logic) ---

// TransferService is the transfer engine: the only mutation path for
// account balances.
type TransferService interface {
	CreateTransfer(ctx context.Context, req TransferRequest) (*domain.Payment, error)
}

// TransferRequest holds validated input for a transfer.
type TransferRequest struct {
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Value         decimal.Decimal
}

// RegistryService covers administrative creation of currencies and accounts.
type RegistryService interface {
	CreateCurrency(ctx context.Context, code string) (*domain.Currency, error)
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*domain.Account, error)
}

// CreateAccountRequest holds validated input for account creation.
type CreateAccountRequest struct {
	Name           string
	Currency       string
	OwnerID        *uuid.UUID
	OpeningBalance decimal.Decimal
}

// LedgerQueryService covers read-only projections over accounts and postings.
type LedgerQueryService interface {
	GetAccount(ctx context.Context, name string) (*domain.Account, error)
	ListAccounts(ctx context.Context, params AccountListParams) ([]domain.Account, int64, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	ListPostings(ctx context.Context, params PostingFeedQuery) ([]domain.PostingEntry, int64, error)
	Reconcile(ctx context.Context, name string) (*ReconcileResult, error)
}

// PostingFeedQuery holds filter + pagination for the ledger feed, with the
// account referenced by name as in the public API.
type PostingFeedQuery struct {
	AccountName string // empty = all accounts
	Page        int
	PageSize    int
}

// ReconcileResult compares an account's denormalized balance against the
// sum of its postings.
type ReconcileResult struct {
	Account     string
	Balance     decimal.Decimal
	PostingsSum decimal.Decimal
	Consistent  bool
}
