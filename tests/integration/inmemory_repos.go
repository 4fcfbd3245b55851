package integration

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"double-entry-ledger/internal/core/domain"
	"double-entry-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// memStore is a shared in-memory backing store for all repos. Row locking is
// modelled with a single lock channel: ListForUpdate blocks until the lock is
// free (or the context expires), and Commit/Rollback release it. That mirrors
// the serialization the database gives two transfers touching the same pair.
type memStore struct {
	mu             sync.RWMutex
	currencies     map[string]*domain.Currency
	accounts       map[uuid.UUID]*domain.Account
	accountsByName map[string]uuid.UUID
	payments       []*domain.Payment
	postings       []*domain.Posting

	lockCh chan struct{}
}

func newMemStore() *memStore {
	return &memStore{
		currencies:     make(map[string]*domain.Currency),
		accounts:       make(map[uuid.UUID]*domain.Account),
		accountsByName: make(map[string]uuid.UUID),
		lockCh:         make(chan struct{}, 1),
	}
}

// acquireLock blocks until the store lock is free or ctx expires.
func (s *memStore) acquireLock(ctx context.Context) error {
	select {
	case s.lockCh <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *memStore) releaseLock() {
	select {
	case <-s.lockCh:
	default:
	}
}

// --- In-Memory Transactor ---

type inMemoryTransactor struct {
	store *memStore
}

func newInMemoryTransactor(store *memStore) *inMemoryTransactor {
	return &inMemoryTransactor{store: store}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &memTx{store: t.store}, nil
}

// memTx is a pgx.Tx implementation that releases the store lock exactly once
// on Commit or Rollback, so the usual commit-then-deferred-rollback sequence
// behaves like a real transaction.
type memTx struct {
	store   *memStore
	holding bool
	release sync.Once
}

func (t *memTx) lock(ctx context.Context) error {
	if t.holding {
		return nil
	}
	if err := t.store.acquireLock(ctx); err != nil {
		return err
	}
	t.holding = true
	return nil
}

func (t *memTx) unlock() {
	if t.holding {
		t.release.Do(t.store.releaseLock)
	}
}

func (t *memTx) Commit(ctx context.Context) error   { t.unlock(); return nil }
func (t *memTx) Rollback(ctx context.Context) error { t.unlock(); return nil }

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *memTx) Conn() *pgx.Conn                                              { return nil }

// --- In-Memory Currency Repo ---

type inMemoryCurrencyRepo struct {
	store *memStore
}

func newInMemoryCurrencyRepo(store *memStore) *inMemoryCurrencyRepo {
	return &inMemoryCurrencyRepo{store: store}
}

func (r *inMemoryCurrencyRepo) Create(ctx context.Context, c *domain.Currency) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.currencies[c.Code]; ok {
		return fmt.Errorf("currency already exists")
	}
	r.store.currencies[c.Code] = c
	return nil
}

func (r *inMemoryCurrencyRepo) GetByCode(ctx context.Context, code string) (*domain.Currency, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.currencies[code]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *inMemoryCurrencyRepo) List(ctx context.Context) ([]domain.Currency, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.Currency
	for _, c := range r.store.currencies {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	store *memStore
}

func newInMemoryAccountRepo(store *memStore) *inMemoryAccountRepo {
	return &inMemoryAccountRepo{store: store}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.accountsByName[a.Name]; ok {
		return fmt.Errorf("account name taken")
	}
	cp := *a
	r.store.accounts[a.ID] = &cp
	r.store.accountsByName[a.Name] = a.ID
	return nil
}

func (r *inMemoryAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	a, ok := r.store.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAccountRepo) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.accountsByName[name]
	if !ok {
		return nil, nil
	}
	cp := *r.store.accounts[id]
	return &cp, nil
}

func (r *inMemoryAccountRepo) List(ctx context.Context, params ports.AccountListParams) ([]domain.Account, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.Account
	for _, a := range r.store.accounts {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	total := int64(len(result))

	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Account{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// ListForUpdate takes the store lock through the transaction, then reads the
// rows. The lock stays held until the transaction commits or rolls back, so
// a concurrent transfer cannot read stale balances.
func (r *inMemoryAccountRepo) ListForUpdate(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]domain.Account, error) {
	mtx, ok := tx.(*memTx)
	if !ok {
		return nil, fmt.Errorf("unexpected tx type %T", tx)
	}
	if err := mtx.lock(ctx); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var result []domain.Account
	for _, id := range ids {
		if a, ok := r.store.accounts[id]; ok {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return bytes.Compare(result[i].ID[:], result[j].ID[:]) < 0
	})
	return result, nil
}

func (r *inMemoryAccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.accounts[id]
	if !ok {
		return fmt.Errorf("account not found")
	}
	a.Balance = balance
	return nil
}

// --- In-Memory Payment Repo ---

type inMemoryPaymentRepo struct {
	store *memStore
}

func newInMemoryPaymentRepo(store *memStore) *inMemoryPaymentRepo {
	return &inMemoryPaymentRepo{store: store}
}

func (r *inMemoryPaymentRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *p
	cp.Postings = nil
	r.store.payments = append(r.store.payments, &cp)
	return nil
}

func (r *inMemoryPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.payments {
		if p.ID == id {
			cp := *p
			for _, posting := range r.store.postings {
				if posting.PaymentID == id {
					cp.Postings = append(cp.Postings, *posting)
				}
			}
			sort.Slice(cp.Postings, func(i, j int) bool {
				return cp.Postings[i].Value.LessThan(cp.Postings[j].Value)
			})
			return &cp, nil
		}
	}
	return nil, nil
}

// --- In-Memory Posting Repo ---

type inMemoryPostingRepo struct {
	store *memStore
}

func newInMemoryPostingRepo(store *memStore) *inMemoryPostingRepo {
	return &inMemoryPostingRepo{store: store}
}

func (r *inMemoryPostingRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Posting) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *p
	r.store.postings = append(r.store.postings, &cp)
	return nil
}

func (r *inMemoryPostingRepo) ListFeed(ctx context.Context, params ports.PostingFeedParams) ([]domain.PostingEntry, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	paymentsByID := make(map[uuid.UUID]*domain.Payment, len(r.store.payments))
	for _, p := range r.store.payments {
		paymentsByID[p.ID] = p
	}

	// Newest first: reverse insertion order.
	var entries []domain.PostingEntry
	for i := len(r.store.postings) - 1; i >= 0; i-- {
		posting := r.store.postings[i]
		if params.AccountID != nil && posting.AccountID != *params.AccountID {
			continue
		}
		payment := paymentsByID[posting.PaymentID]
		entries = append(entries, domain.PostingEntry{
			ID:          posting.ID,
			AccountName: r.store.accounts[posting.AccountID].Name,
			Value:       posting.Value,
			FromAccount: r.store.accounts[payment.FromAccountID].Name,
			ToAccount:   r.store.accounts[payment.ToAccountID].Name,
			CreatedAt:   posting.CreatedAt,
		})
	}
	total := int64(len(entries))

	start := (params.Page - 1) * params.PageSize
	if start >= len(entries) {
		return []domain.PostingEntry{}, total, nil
	}
	end := start + params.PageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end], total, nil
}

func (r *inMemoryPostingRepo) SumByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sum := decimal.Zero
	for _, p := range r.store.postings {
		if p.AccountID == accountID {
			sum = sum.Add(p.Value)
		}
	}
	return sum, nil
}
