package handler

import (
	"double-entry-ledger/internal/adapter/http/dto"
	"double-entry-ledger/internal/core/domain"
	"double-entry-ledger/internal/core/ports"
	"double-entry-ledger/pkg/apperror"
	"double-entry-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// apiTimeFormat renders timestamps with microsecond precision.
const apiTimeFormat = "2006-01-02T15:04:05.000000Z07:00"

// RegistryHandler handles currency and account creation endpoints.
type RegistryHandler struct {
	registrySvc ports.RegistryService
}

// NewRegistryHandler creates a new RegistryHandler.
func NewRegistryHandler(registrySvc ports.RegistryService) *RegistryHandler {
	return &RegistryHandler{registrySvc: registrySvc}
}

// CreateCurrency handles POST /v1/currencies.
func (h *RegistryHandler) CreateCurrency(c *gin.Context) {
	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	currency, err := h.registrySvc.CreateCurrency(c.Request.Context(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toCurrencyResponse(currency))
}

// CreateAccount handles POST /v1/accounts.
func (h *RegistryHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	var ownerID *uuid.UUID
	if req.Owner != nil {
		id, err := uuid.Parse(*req.Owner)
		if err != nil {
			response.Error(c, apperror.Validation("owner must be a UUID"))
			return
		}
		ownerID = &id
	}

	balance := decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}

	account, err := h.registrySvc.CreateAccount(c.Request.Context(), ports.CreateAccountRequest{
		Name:           req.ID,
		Currency:       req.Currency,
		OwnerID:        ownerID,
		OpeningBalance: balance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toAccountResponse(account))
}

func toCurrencyResponse(c *domain.Currency) dto.CurrencyResponse {
	return dto.CurrencyResponse{
		ID:        c.ID.String(),
		Code:      c.Code,
		CreatedAt: c.CreatedAt.Format(apiTimeFormat),
	}
}

func toAccountResponse(a *domain.Account) dto.AccountResponse {
	resp := dto.AccountResponse{
		ID:        a.Name,
		Currency:  a.Currency,
		Balance:   a.Balance.String(),
		CreatedAt: a.CreatedAt.Format(apiTimeFormat),
	}
	if a.OwnerID != nil {
		owner := a.OwnerID.String()
		resp.Owner = &owner
	}
	return resp
}
