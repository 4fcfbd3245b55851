package ports

import (
	"context"

	"double-entry-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

// CurrencyRepository defines persistence operations for currencies.
type CurrencyRepository interface {
	Create(ctx context.Context, currency *domain.Currency) error
	GetByCode(ctx context.Context, code string) (*domain.Currency, error)
	List(ctx context.Context) ([]domain.Currency, error)
}

// AccountRepository defines persistence operations for accounts.
// Methods accepting pgx.Tx run inside transaction blocks for pessimistic locking.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByName(ctx context.Context, name string) (*domain.Account, error)
	List(ctx context.Context, params AccountListParams) ([]domain.Account, int64, error)
	// ListForUpdate locks the given account rows exclusively, in ascending
	// identifier order, and returns the locked rows. Missing rows are simply
	// absent from the result. MUST be called within a transaction.
	ListForUpdate(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error
}

// AccountListParams holds pagination for listing accounts.
type AccountListParams struct {
	Page     int
	PageSize int
}

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx pgx.Tx, payment *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
}

// PostingRepository defines persistence operations for postings and the
// read-only ledger feed built over them.
type PostingRepository interface {
	Create(ctx context.Context, tx pgx.Tx, posting *domain.Posting) error
	// ListFeed returns postings newest-first with account and counterparty
	// names resolved, optionally filtered to one account.
	ListFeed(ctx context.Context, params PostingFeedParams) ([]domain.PostingEntry, int64, error)
	// SumByAccount aggregates the signed posting values of one account —
	// the source of truth the denormalized balance must agree with.
	SumByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
}

// PostingFeedParams holds filter + pagination for the ledger feed.
type PostingFeedParams struct {
	AccountID *uuid.UUID
	Page      int
	PageSize  int
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
