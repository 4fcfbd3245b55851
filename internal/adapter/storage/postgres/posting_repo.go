package postgres

import (
	"context"
	"fmt"

	"double-entry-ledger/internal/core/domain"
	"double-entry-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PostingRepo implements ports.PostingRepository.
type PostingRepo struct {
	pool Pool
}

// NewPostingRepo creates a new PostingRepo.
func NewPostingRepo(pool Pool) *PostingRepo {
	return &PostingRepo{pool: pool}
}

// Create inserts a new posting within a transaction.
func (r *PostingRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Posting) error {
	query := `INSERT INTO postings (id, payment_id, account_id, value, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query,
		p.ID, p.PaymentID, p.AccountID, p.Value, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert posting: %w", err)
	}
	return nil
}

// ListFeed returns the ledger feed newest-first: each posting joined with its
// account name and the names of the payment's two parties, optionally filtered
// to one account.
func (r *PostingRepo) ListFeed(ctx context.Context, params ports.PostingFeedParams) ([]domain.PostingEntry, int64, error) {
	countQuery := `SELECT COUNT(*) FROM postings p`
	query := `SELECT p.id, a.name, p.value, fa.name, ta.name, p.created_at
		FROM postings p
		JOIN accounts a ON a.id = p.account_id
		JOIN payments pay ON pay.id = p.payment_id
		JOIN accounts fa ON fa.id = pay.from_account_id
		JOIN accounts ta ON ta.id = pay.to_account_id`

	var args []any
	if params.AccountID != nil {
		countQuery += ` WHERE p.account_id = $1`
		query += ` WHERE p.account_id = $1`
		args = append(args, *params.AccountID)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count postings: %w", err)
	}

	query += fmt.Sprintf(` ORDER BY p.created_at DESC, p.id LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list postings: %w", err)
	}
	defer rows.Close()

	var entries []domain.PostingEntry
	for rows.Next() {
		var e domain.PostingEntry
		err := rows.Scan(
			&e.ID, &e.AccountName, &e.Value, &e.FromAccount, &e.ToAccount, &e.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan posting entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posting entries: %w", err)
	}

	return entries, total, nil
}

// SumByAccount aggregates the signed posting values of one account.
func (r *PostingRepo) SumByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(value), 0) FROM postings WHERE account_id = $1`

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, accountID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum postings: %w", err)
	}
	return sum, nil
}
