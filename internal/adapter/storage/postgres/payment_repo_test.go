package postgres

import (
	"context"
	"testing"
	"time"

	"double-entry-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayment() *domain.Payment {
	return &domain.Payment{
		ID:            uuid.New(),
		FromAccountID: uuid.New(),
		ToAccountID:   uuid.New(),
		Value:         decimal.RequireFromString("100.00"),
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestPaymentRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(p.ID, p.FromAccountID, p.ToAccountID, p.Value, p.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment()

	mock.ExpectQuery("SELECT .+ FROM payments WHERE id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "from_account_id", "to_account_id", "value", "created_at"}).
			AddRow(p.ID, p.FromAccountID, p.ToAccountID, p.Value, p.CreatedAt))
	mock.ExpectQuery("SELECT .+ FROM postings WHERE payment_id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "payment_id", "account_id", "value", "created_at"}).
			AddRow(uuid.New(), p.ID, p.FromAccountID, p.Value.Neg(), p.CreatedAt).
			AddRow(uuid.New(), p.ID, p.ToAccountID, p.Value, p.CreatedAt))

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	require.Len(t, result.Postings, 2)

	sum := result.Postings[0].Value.Add(result.Postings[1].Value)
	assert.True(t, sum.IsZero())
	assert.Equal(t, domain.DirectionOutgoing, result.Postings[0].Direction())
	assert.Equal(t, domain.DirectionIncoming, result.Postings[1].Direction())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM payments WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "from_account_id", "to_account_id", "value", "created_at"}))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
