package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"double-entry-ledger/internal/adapter/http/dto"
	"double-entry-ledger/internal/core/domain"
	"double-entry-ledger/internal/core/ports"
	"double-entry-ledger/internal/core/ports/mocks"
	"double-entry-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, h gin.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	return w
}

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

// --- Registry Handler Tests ---

func TestCreateCurrency_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockRegistryService(ctrl)
	h := NewRegistryHandler(mockRegistry)

	mockRegistry.EXPECT().CreateCurrency(gomock.Any(), "AAA").
		Return(&domain.Currency{ID: uuid.New(), Code: "AAA", CreatedAt: time.Now().UTC()}, nil)

	w := postJSON(t, h.CreateCurrency, "/v1/currencies", dto.CreateCurrencyRequest{Code: "AAA"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "AAA", responseData(t, w)["code"])
}

func TestCreateCurrency_InvalidCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewRegistryHandler(mocks.NewMockRegistryService(ctrl))

	for _, code := range []string{"usd", "ABCD", ""} {
		w := postJSON(t, h.CreateCurrency, "/v1/currencies", map[string]string{"code": code})
		assert.Equal(t, http.StatusBadRequest, w.Code, "code %q should be rejected", code)
	}
}

func TestCreateCurrency_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockRegistryService(ctrl)
	h := NewRegistryHandler(mockRegistry)

	mockRegistry.EXPECT().CreateCurrency(gomock.Any(), "AAA").
		Return(nil, apperror.ErrCurrencyExists("AAA"))

	w := postJSON(t, h.CreateCurrency, "/v1/currencies", dto.CreateCurrencyRequest{Code: "AAA"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "REG_001")
}

func TestCreateAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockRegistryService(ctrl)
	h := NewRegistryHandler(mockRegistry)

	balance := decimal.RequireFromString("100")
	mockRegistry.EXPECT().CreateAccount(gomock.Any(), gomock.Cond(func(x any) bool {
		req := x.(ports.CreateAccountRequest)
		return req.Name == "bob123" && req.Currency == "AAA" && req.OpeningBalance.Equal(balance)
	})).Return(&domain.Account{
		ID:       uuid.New(),
		Name:     "bob123",
		Currency: "AAA",
		Balance:  balance,
	}, nil)

	w := postJSON(t, h.CreateAccount, "/v1/accounts", dto.CreateAccountRequest{
		ID:       "bob123",
		Currency: "AAA",
		Balance:  &balance,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "bob123", data["id"])
	assert.Equal(t, "100", data["balance"])
}

func TestCreateAccount_DefaultsToZeroBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockRegistryService(ctrl)
	h := NewRegistryHandler(mockRegistry)

	mockRegistry.EXPECT().CreateAccount(gomock.Any(), gomock.Cond(func(x any) bool {
		req := x.(ports.CreateAccountRequest)
		return req.OpeningBalance.IsZero()
	})).Return(&domain.Account{ID: uuid.New(), Name: "alice", Currency: "AAA", Balance: decimal.Zero}, nil)

	w := postJSON(t, h.CreateAccount, "/v1/accounts", dto.CreateAccountRequest{
		ID:       "alice",
		Currency: "AAA",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateAccount_UnknownCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockRegistryService(ctrl)
	h := NewRegistryHandler(mockRegistry)

	mockRegistry.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrCurrencyNotFound("ZZZ"))

	w := postJSON(t, h.CreateAccount, "/v1/accounts", dto.CreateAccountRequest{
		ID:       "bob123",
		Currency: "ZZZ",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "REG_003")
}

// --- Payment Handler Tests ---

func transferFixture() (*domain.Account, *domain.Account, *domain.Payment) {
	from := &domain.Account{ID: uuid.New(), Name: "bob123", Currency: "AAA", Balance: decimal.RequireFromString("100")}
	to := &domain.Account{ID: uuid.New(), Name: "alice", Currency: "AAA", Balance: decimal.Zero}
	value := decimal.RequireFromString("100")
	payment := &domain.Payment{
		ID:            uuid.New(),
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Value:         value,
		CreatedAt:     time.Now().UTC(),
		Postings: []domain.Posting{
			{ID: uuid.New(), AccountID: from.ID, Value: value.Neg()},
			{ID: uuid.New(), AccountID: to.ID, Value: value},
		},
	}
	return from, to, payment
}

func TestCreateTransfer_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransfer := mocks.NewMockTransferService(ctrl)
	mockQuery := mocks.NewMockLedgerQueryService(ctrl)
	h := NewPaymentHandler(mockTransfer, mockQuery)

	from, to, payment := transferFixture()

	mockQuery.EXPECT().GetAccount(gomock.Any(), "bob123").Return(from, nil)
	mockQuery.EXPECT().GetAccount(gomock.Any(), "alice").Return(to, nil)
	mockTransfer.EXPECT().CreateTransfer(gomock.Any(), gomock.Cond(func(x any) bool {
		req := x.(ports.TransferRequest)
		return req.FromAccountID == from.ID && req.ToAccountID == to.ID && req.Value.Equal(payment.Value)
	})).Return(payment, nil)

	w := postJSON(t, h.CreateTransfer, "/v1/payments", map[string]any{
		"from": "bob123", "to": "alice", "value": "100",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "bob123", data["from"])
	assert.Equal(t, "alice", data["to"])
	assert.Equal(t, "100", data["value"])

	postings := data["postings"].([]interface{})
	require.Len(t, postings, 2)
	first := postings[0].(map[string]interface{})
	second := postings[1].(map[string]interface{})
	assert.Equal(t, "outgoing", first["direction"])
	assert.Equal(t, "incoming", second["direction"])
	assert.Equal(t, "100", first["value"])
	assert.Equal(t, "100", second["value"])
}

func TestCreateTransfer_SameAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPaymentHandler(mocks.NewMockTransferService(ctrl), mocks.NewMockLedgerQueryService(ctrl))

	w := postJSON(t, h.CreateTransfer, "/v1/payments", map[string]any{
		"from": "bob123", "to": "bob123", "value": "10",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "LDG_001")
}

func TestCreateTransfer_UnknownAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransfer := mocks.NewMockTransferService(ctrl)
	mockQuery := mocks.NewMockLedgerQueryService(ctrl)
	h := NewPaymentHandler(mockTransfer, mockQuery)

	from, _, _ := transferFixture()
	mockQuery.EXPECT().GetAccount(gomock.Any(), "bob123").Return(from, nil)
	mockQuery.EXPECT().GetAccount(gomock.Any(), "ghost").Return(nil, nil)

	w := postJSON(t, h.CreateTransfer, "/v1/payments", map[string]any{
		"from": "bob123", "to": "ghost", "value": "10",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "LDG_002")
}

func TestCreateTransfer_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransfer := mocks.NewMockTransferService(ctrl)
	mockQuery := mocks.NewMockLedgerQueryService(ctrl)
	h := NewPaymentHandler(mockTransfer, mockQuery)

	from, to, _ := transferFixture()
	mockQuery.EXPECT().GetAccount(gomock.Any(), "bob123").Return(from, nil)
	mockQuery.EXPECT().GetAccount(gomock.Any(), "alice").Return(to, nil)
	mockTransfer.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientFunds("bob123"))

	w := postJSON(t, h.CreateTransfer, "/v1/payments", map[string]any{
		"from": "bob123", "to": "alice", "value": "9999",
	})

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "LDG_005")
}

func TestCreateTransfer_BadAccountName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPaymentHandler(mocks.NewMockTransferService(ctrl), mocks.NewMockLedgerQueryService(ctrl))

	w := postJSON(t, h.CreateTransfer, "/v1/payments", map[string]any{
		"from": "bad name!", "to": "alice", "value": "10",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_001")
}

func TestGetPayment_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockLedgerQueryService(ctrl)
	h := NewPaymentHandler(mocks.NewMockTransferService(ctrl), mockQuery)

	_, _, payment := transferFixture()
	mockQuery.EXPECT().GetPayment(gomock.Any(), payment.ID).Return(payment, nil)

	r := gin.New()
	r.GET("/v1/payments/:id", h.GetPayment)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/payments/"+payment.ID.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payment.ID.String(), responseData(t, w)["id"])
}

func TestGetPayment_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockLedgerQueryService(ctrl)
	h := NewPaymentHandler(mocks.NewMockTransferService(ctrl), mockQuery)

	id := uuid.New()
	mockQuery.EXPECT().GetPayment(gomock.Any(), id).Return(nil, nil)

	r := gin.New()
	r.GET("/v1/payments/:id", h.GetPayment)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/payments/"+id.String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "LDG_007")
}

func TestGetPayment_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPaymentHandler(mocks.NewMockTransferService(ctrl), mocks.NewMockLedgerQueryService(ctrl))

	r := gin.New()
	r.GET("/v1/payments/:id", h.GetPayment)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/payments/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Ledger Handler Tests ---

func TestGetAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockLedgerQueryService(ctrl)
	h := NewLedgerHandler(mockQuery)

	account := &domain.Account{
		ID:       uuid.New(),
		Name:     "bob123",
		Currency: "AAA",
		Balance:  decimal.RequireFromString("42.50"),
	}
	mockQuery.EXPECT().GetAccount(gomock.Any(), "bob123").Return(account, nil)

	r := gin.New()
	r.GET("/v1/accounts/:name", h.GetAccount)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/accounts/bob123", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "bob123", data["id"])
	assert.Equal(t, "42.5", data["balance"])
}

func TestGetAccount_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockLedgerQueryService(ctrl)
	h := NewLedgerHandler(mockQuery)

	mockQuery.EXPECT().GetAccount(gomock.Any(), "ghost").Return(nil, nil)

	r := gin.New()
	r.GET("/v1/accounts/:name", h.GetAccount)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/accounts/ghost", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAccounts_Paging(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockLedgerQueryService(ctrl)
	h := NewLedgerHandler(mockQuery)

	mockQuery.EXPECT().ListAccounts(gomock.Any(), ports.AccountListParams{Page: 2, PageSize: 10}).
		Return([]domain.Account{{ID: uuid.New(), Name: "bob123", Currency: "AAA", Balance: decimal.Zero}}, int64(11), nil)

	r := gin.New()
	r.GET("/v1/accounts", h.ListAccounts)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/accounts?page=2&page_size=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, float64(11), data["total"])
	assert.Equal(t, float64(2), data["total_pages"])
}

func TestReconcile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockLedgerQueryService(ctrl)
	h := NewLedgerHandler(mockQuery)

	mockQuery.EXPECT().Reconcile(gomock.Any(), "bob123").Return(&ports.ReconcileResult{
		Account:     "bob123",
		Balance:     decimal.RequireFromString("150"),
		PostingsSum: decimal.RequireFromString("150"),
		Consistent:  true,
	}, nil)

	r := gin.New()
	r.GET("/v1/accounts/:name/reconcile", h.Reconcile)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/accounts/bob123/reconcile", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, true, data["consistent"])
}

func TestListPostings_FeedShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockLedgerQueryService(ctrl)
	h := NewLedgerHandler(mockQuery)

	now := time.Now().UTC()
	entries := []domain.PostingEntry{
		{ID: uuid.New(), AccountName: "alice", Value: decimal.RequireFromString("100"), FromAccount: "bob123", ToAccount: "alice", CreatedAt: now},
		{ID: uuid.New(), AccountName: "bob123", Value: decimal.RequireFromString("-100"), FromAccount: "bob123", ToAccount: "alice", CreatedAt: now},
	}
	mockQuery.EXPECT().ListPostings(gomock.Any(), ports.PostingFeedQuery{AccountName: "", Page: 1, PageSize: 20}).
		Return(entries, int64(2), nil)

	r := gin.New()
	r.GET("/v1/payments", h.ListPostings)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/payments", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	items := data["items"].([]interface{})
	require.Len(t, items, 2)

	// The credit leg shows the payer as counterparty, the debit leg the payee.
	// Both show the absolute amount.
	credit := items[0].(map[string]interface{})
	assert.Equal(t, "incoming", credit["direction"])
	assert.Equal(t, "bob123", credit["counterparty"])
	assert.Equal(t, "100", credit["value"])

	debit := items[1].(map[string]interface{})
	assert.Equal(t, "outgoing", debit["direction"])
	assert.Equal(t, "alice", debit["counterparty"])
	assert.Equal(t, "100", debit["value"])
}

func TestListPostings_UnknownAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockLedgerQueryService(ctrl)
	h := NewLedgerHandler(mockQuery)

	mockQuery.EXPECT().ListPostings(gomock.Any(), gomock.Any()).
		Return(nil, int64(0), apperror.ErrAccountNotFound())

	r := gin.New()
	r.GET("/v1/payments", h.ListPostings)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/payments?account=ghost", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Health Check Tests ---

type healthyChecker struct{ name string }

func (h healthyChecker) Ping(ctx context.Context) error { return nil }
func (h healthyChecker) Name() string                   { return h.name }

type unhealthyChecker struct{ name string }

func (u unhealthyChecker) Ping(ctx context.Context) error { return errors.New("connection refused") }
func (u unhealthyChecker) Name() string                   { return u.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	r := gin.New()
	r.GET("/health", HealthCheck(healthyChecker{"postgresql"}, healthyChecker{"redis"}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	r := gin.New()
	r.GET("/health", HealthCheck(healthyChecker{"postgresql"}, unhealthyChecker{"redis"}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), "unhealthy")
}
