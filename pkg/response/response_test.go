package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"double-entry-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestOK(t *testing.T) {
	c, w := newTestContext()
	c.Set("request_id", "req-123")

	OK(c, map[string]string{"account": "bob123"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "req-123", resp.RequestID)
	assert.NotEmpty(t, resp.Timestamp)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "bob123", data["account"])
}

func TestCreated(t *testing.T) {
	c, w := newTestContext()

	Created(c, map[string]string{"id": "42"})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// No request_id in context means one is generated.
	assert.NotEmpty(t, resp.RequestID)
}

func TestError_AppError(t *testing.T) {
	c, w := newTestContext()

	Error(c, apperror.ErrInsufficientFunds("bob123"))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LDG_005", resp.ErrorCode)
	assert.Contains(t, resp.Message, "bob123")
}

func TestError_WrappedAppError(t *testing.T) {
	c, w := newTestContext()

	wrapped := fmt.Errorf("handler: %w", apperror.ErrSameAccount())
	Error(c, wrapped)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LDG_001", resp.ErrorCode)
}

func TestError_UnknownError(t *testing.T) {
	c, w := newTestContext()

	Error(c, fmt.Errorf("something unexpected"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_000", resp.ErrorCode)
	// Internal details are never leaked.
	assert.NotContains(t, resp.Message, "unexpected")
}
