package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"double-entry-ledger/internal/core/domain"
	"double-entry-ledger/internal/core/ports"
	"double-entry-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TransferServiceImpl implements ports.TransferService. It is the only
// component allowed to mutate account balances: every transfer locks both
// account rows in a deterministic order, validates against the locked state,
// and commits the payment, its two postings and both balance updates as one
// atomic unit.
type TransferServiceImpl struct {
	accountRepo ports.AccountRepository
	paymentRepo ports.PaymentRepository
	postingRepo ports.PostingRepository
	transactor  ports.DBTransactor
	cache       ports.AccountCache // nil = caching disabled
	rules       domain.AmountRules
	lockTimeout time.Duration
	log         zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	accountRepo ports.AccountRepository,
	paymentRepo ports.PaymentRepository,
	postingRepo ports.PostingRepository,
	transactor ports.DBTransactor,
	cache ports.AccountCache,
	rules domain.AmountRules,
	lockTimeout time.Duration,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		accountRepo: accountRepo,
		paymentRepo: paymentRepo,
		postingRepo: postingRepo,
		transactor:  transactor,
		cache:       cache,
		rules:       rules,
		lockTimeout: lockTimeout,
		log:         log,
	}
}

// CreateTransfer moves req.Value from the source to the destination account.
//
// Validation order is fixed: same-account, existence, value, currency,
// funds, overflow. Everything past the same-account check runs with both
// rows locked, so the funds and overflow checks read balances that cannot
// change underneath the operation.
func (s *TransferServiceImpl) CreateTransfer(ctx context.Context, req ports.TransferRequest) (*domain.Payment, error) {
	if req.FromAccountID == req.ToAccountID {
		return nil, apperror.ErrSameAccount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock both rows in ascending identifier order. A bounded deadline keeps
	// a contended transfer from blocking its caller indefinitely.
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	accounts, err := s.accountRepo.ListForUpdate(lockCtx, dbTx, domain.LockOrder(req.FromAccountID, req.ToAccountID))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.ErrLockTimeout(err)
		}
		return nil, apperror.InternalError(fmt.Errorf("lock accounts: %w", err))
	}
	if len(accounts) != 2 {
		return nil, apperror.ErrAccountNotFound()
	}

	fromAccount, toAccount := splitPair(accounts, req.FromAccountID)

	if !s.rules.ValidTransferValue(req.Value) {
		return nil, apperror.ErrInvalidValue()
	}

	if fromAccount.Currency != toAccount.Currency {
		return nil, apperror.ErrCurrencyMismatch()
	}

	if fromAccount.Balance.LessThan(req.Value) {
		return nil, apperror.ErrInsufficientFunds(fromAccount.Name)
	}

	if toAccount.Balance.Add(req.Value).GreaterThan(s.rules.MaxValue()) {
		return nil, apperror.ErrValueOverflow(toAccount.Name)
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:            uuid.New(),
		FromAccountID: fromAccount.ID,
		ToAccountID:   toAccount.ID,
		Value:         req.Value,
		CreatedAt:     now,
	}

	debit := domain.Posting{
		ID:        uuid.New(),
		PaymentID: payment.ID,
		AccountID: fromAccount.ID,
		Value:     req.Value.Neg(),
		CreatedAt: now,
	}
	credit := domain.Posting{
		ID:        uuid.New(),
		PaymentID: payment.ID,
		AccountID: toAccount.ID,
		Value:     req.Value,
		CreatedAt: now,
	}

	// Persist: payment, both postings, both balances — all inside dbTx.
	if err := s.paymentRepo.Create(ctx, dbTx, payment); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create payment: %w", err))
	}
	if err := s.postingRepo.Create(ctx, dbTx, &debit); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create debit posting: %w", err))
	}
	if err := s.postingRepo.Create(ctx, dbTx, &credit); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create credit posting: %w", err))
	}
	if err := s.accountRepo.UpdateBalance(ctx, dbTx, fromAccount.ID, fromAccount.Balance.Sub(req.Value)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit balance: %w", err))
	}
	if err := s.accountRepo.UpdateBalance(ctx, dbTx, toAccount.ID, toAccount.Balance.Add(req.Value)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit balance: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	payment.Postings = []domain.Posting{debit, credit}

	// Post-commit: drop stale cached projections (best-effort).
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, fromAccount.Name, toAccount.Name); err != nil {
			s.log.Warn().Err(err).
				Str("from", fromAccount.Name).
				Str("to", toAccount.Name).
				Msg("failed to invalidate account cache")
		}
	}

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("from", fromAccount.Name).
		Str("to", toAccount.Name).
		Str("value", req.Value.String()).
		Msg("transfer committed")

	return payment, nil
}

// splitPair maps the two locked rows back to (from, to) by identity.
// Callers must have verified len(accounts) == 2.
func splitPair(accounts []domain.Account, fromID uuid.UUID) (from, to domain.Account) {
	if accounts[0].ID == fromID {
		return accounts[0], accounts[1]
	}
	return accounts[1], accounts[0]
}

