package postgres

import (
	"context"
	"errors"
	"fmt"

	"double-entry-ledger/internal/core/domain"
	"double-entry-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, name, owner_id, currency, balance, created_at, updated_at`

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account into the database.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Name, a.OwnerID, a.Currency, a.Balance, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID fetches an account by its UUID (without locking).
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

// GetByName fetches an account by its unique name (without locking).
func (r *AccountRepo) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE name = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, name))
}

// List returns a page of accounts ordered by name, plus the total count.
func (r *AccountRepo) List(ctx context.Context, params ports.AccountListParams) ([]domain.Account, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	query := `SELECT ` + accountColumns + ` FROM accounts
		ORDER BY name LIMIT $1 OFFSET $2`

	offset := (params.Page - 1) * params.PageSize
	rows, err := r.pool.Query(ctx, query, params.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// ListForUpdate locks the given account rows exclusively and returns them.
// The ORDER BY makes PostgreSQL acquire the row locks in ascending
// identifier order, matching the caller's deterministic lock order.
// MUST be called within a transaction; missing IDs are absent from the result.
func (r *AccountRepo) ListForUpdate(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

// UpdateBalance sets an account's balance within a transaction.
func (r *AccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", id)
	}
	return nil
}

func (r *AccountRepo) scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.ID, &a.Name, &a.OwnerID, &a.Currency, &a.Balance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		err := rows.Scan(
			&a.ID, &a.Name, &a.OwnerID, &a.Currency, &a.Balance, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}
