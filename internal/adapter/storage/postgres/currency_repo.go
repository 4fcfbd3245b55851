package postgres

import (
	"context"
	"errors"
	"fmt"

	"double-entry-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// CurrencyRepo implements ports.CurrencyRepository.
type CurrencyRepo struct {
	pool Pool
}

// NewCurrencyRepo creates a new CurrencyRepo.
func NewCurrencyRepo(pool Pool) *CurrencyRepo {
	return &CurrencyRepo{pool: pool}
}

// Create inserts a new currency into the database.
func (r *CurrencyRepo) Create(ctx context.Context, c *domain.Currency) error {
	query := `INSERT INTO currencies (id, code, created_at) VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, c.ID, c.Code, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert currency: %w", err)
	}
	return nil
}

// GetByCode fetches a currency by its code.
func (r *CurrencyRepo) GetByCode(ctx context.Context, code string) (*domain.Currency, error) {
	query := `SELECT id, code, created_at FROM currencies WHERE code = $1`

	c := &domain.Currency{}
	err := r.pool.QueryRow(ctx, query, code).Scan(&c.ID, &c.Code, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get currency by code: %w", err)
	}
	return c, nil
}

// List returns all currencies ordered by code.
func (r *CurrencyRepo) List(ctx context.Context) ([]domain.Currency, error) {
	query := `SELECT id, code, created_at FROM currencies ORDER BY code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []domain.Currency
	for rows.Next() {
		var c domain.Currency
		if err := rows.Scan(&c.ID, &c.Code, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate currencies: %w", err)
	}
	return currencies, nil
}
