package postgres

import (
	"context"
	"errors"
	"fmt"

	"double-entry-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Create inserts a new payment within a transaction.
func (r *PaymentRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	query := `INSERT INTO payments (id, from_account_id, to_account_id, value, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query,
		p.ID, p.FromAccountID, p.ToAccountID, p.Value, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID fetches a payment with its two postings.
func (r *PaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT id, from_account_id, to_account_id, value, created_at
		FROM payments WHERE id = $1`

	p := &domain.Payment{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.FromAccountID, &p.ToAccountID, &p.Value, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment by id: %w", err)
	}

	// Debit leg first, matching creation order.
	postingQuery := `SELECT id, payment_id, account_id, value, created_at
		FROM postings WHERE payment_id = $1 ORDER BY value`

	rows, err := r.pool.Query(ctx, postingQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get payment postings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var posting domain.Posting
		err := rows.Scan(
			&posting.ID, &posting.PaymentID, &posting.AccountID, &posting.Value, &posting.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan posting: %w", err)
		}
		p.Postings = append(p.Postings, posting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate postings: %w", err)
	}

	return p, nil
}
