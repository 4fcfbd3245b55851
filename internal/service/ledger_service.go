package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"double-entry-ledger/internal/core/domain"
	"double-entry-ledger/internal/core/ports"
	"double-entry-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	accountCacheDuration = time.Minute

	defaultPageSize = 20
	maxPageSize     = 100
)

// LedgerServiceImpl implements ports.LedgerQueryService: read-only
// projections over accounts and postings. Account reads go through a
// best-effort cache that the transfer engine invalidates after commit.
type LedgerServiceImpl struct {
	accountRepo ports.AccountRepository
	paymentRepo ports.PaymentRepository
	postingRepo ports.PostingRepository
	cache       ports.AccountCache // nil = caching disabled
	log         zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	accountRepo ports.AccountRepository,
	paymentRepo ports.PaymentRepository,
	postingRepo ports.PostingRepository,
	cache ports.AccountCache,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		accountRepo: accountRepo,
		paymentRepo: paymentRepo,
		postingRepo: postingRepo,
		cache:       cache,
		log:         log,
	}
}

// GetAccount returns one account by name, or nil if it does not exist.
func (s *LedgerServiceImpl) GetAccount(ctx context.Context, name string) (*domain.Account, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, name)
		if err != nil {
			s.log.Warn().Err(err).Str("account", name).Msg("account cache read failed, falling through to DB")
		}
		if cached != nil {
			account := &domain.Account{}
			if err := json.Unmarshal(cached, account); err == nil {
				return account, nil
			}
			s.log.Warn().Str("account", name).Msg("corrupt account cache entry, falling through to DB")
		}
	}

	account, err := s.accountRepo.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, nil
	}

	if s.cache != nil {
		if data, err := json.Marshal(account); err == nil {
			if err := s.cache.Set(ctx, name, data, accountCacheDuration); err != nil {
				s.log.Warn().Err(err).Str("account", name).Msg("failed to cache account")
			}
		}
	}

	return account, nil
}

// ListAccounts returns a page of accounts plus the total count.
func (s *LedgerServiceImpl) ListAccounts(ctx context.Context, params ports.AccountListParams) ([]domain.Account, int64, error) {
	accounts, total, err := s.accountRepo.List(ctx, normalizeAccountPage(params))
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list accounts: %w", err))
	}
	return accounts, total, nil
}

// GetPayment returns one payment with its two postings, or nil if it
// does not exist.
func (s *LedgerServiceImpl) GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get payment: %w", err))
	}
	return payment, nil
}

// ListPostings returns the chronological ledger feed, newest first,
// optionally filtered to one account referenced by name.
func (s *LedgerServiceImpl) ListPostings(ctx context.Context, q ports.PostingFeedQuery) ([]domain.PostingEntry, int64, error) {
	params := ports.PostingFeedParams{Page: q.Page, PageSize: q.PageSize}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > maxPageSize {
		params.PageSize = defaultPageSize
	}

	if q.AccountName != "" {
		account, err := s.accountRepo.GetByName(ctx, q.AccountName)
		if err != nil {
			return nil, 0, apperror.InternalError(fmt.Errorf("get account: %w", err))
		}
		if account == nil {
			return nil, 0, apperror.ErrAccountNotFound()
		}
		params.AccountID = &account.ID
	}

	entries, total, err := s.postingRepo.ListFeed(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list postings: %w", err))
	}
	return entries, total, nil
}

// Reconcile compares an account's denormalized balance against the sum of
// its postings. A healthy ledger reports Consistent for every account whose
// opening balance was zero.
func (s *LedgerServiceImpl) Reconcile(ctx context.Context, name string) (*ports.ReconcileResult, error) {
	account, err := s.accountRepo.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	sum, err := s.postingRepo.SumByAccount(ctx, account.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum postings: %w", err))
	}

	return &ports.ReconcileResult{
		Account:     account.Name,
		Balance:     account.Balance,
		PostingsSum: sum,
		Consistent:  account.Balance.Equal(sum),
	}, nil
}

func normalizeAccountPage(params ports.AccountListParams) ports.AccountListParams {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > maxPageSize {
		params.PageSize = defaultPageSize
	}
	return params
}
