package service

import (
	"context"
	"fmt"
	"time"

	"double-entry-ledger/internal/core/domain"
	"double-entry-ledger/internal/core/ports"
	"double-entry-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RegistryServiceImpl implements ports.RegistryService: administrative
// creation of currencies and accounts. Opening balances are seeded here;
// after creation only the transfer engine touches a balance.
type RegistryServiceImpl struct {
	currencyRepo ports.CurrencyRepository
	accountRepo  ports.AccountRepository
	rules        domain.AmountRules
	log          zerolog.Logger
}

// NewRegistryService creates a new RegistryServiceImpl.
func NewRegistryService(
	currencyRepo ports.CurrencyRepository,
	accountRepo ports.AccountRepository,
	rules domain.AmountRules,
	log zerolog.Logger,
) *RegistryServiceImpl {
	return &RegistryServiceImpl{
		currencyRepo: currencyRepo,
		accountRepo:  accountRepo,
		rules:        rules,
		log:          log,
	}
}

// CreateCurrency registers a new currency code.
func (s *RegistryServiceImpl) CreateCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	existing, err := s.currencyRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get currency: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrCurrencyExists(code)
	}

	currency := &domain.Currency{
		ID:        uuid.New(),
		Code:      code,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.currencyRepo.Create(ctx, currency); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create currency: %w", err))
	}

	s.log.Info().Str("code", code).Msg("currency created")
	return currency, nil
}

// CreateAccount registers a new account in an existing currency.
func (s *RegistryServiceImpl) CreateAccount(ctx context.Context, req ports.CreateAccountRequest) (*domain.Account, error) {
	currency, err := s.currencyRepo.GetByCode(ctx, req.Currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get currency: %w", err))
	}
	if currency == nil {
		return nil, apperror.ErrCurrencyNotFound(req.Currency)
	}

	existing, err := s.accountRepo.GetByName(ctx, req.Name)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrAccountExists(req.Name)
	}

	if !s.rules.ValidBalance(req.OpeningBalance) {
		return nil, apperror.ErrInvalidBalance()
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:        uuid.New(),
		Name:      req.Name,
		OwnerID:   req.OwnerID,
		Currency:  currency.Code,
		Balance:   req.OpeningBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}

	s.log.Info().
		Str("account", account.Name).
		Str("currency", account.Currency).
		Str("balance", account.Balance.String()).
		Msg("account created")

	return account, nil
}
