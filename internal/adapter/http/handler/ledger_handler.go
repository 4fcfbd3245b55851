package handler

import (
	"strconv"

	"double-entry-ledger/internal/adapter/http/dto"
	"double-entry-ledger/internal/core/domain"
	"double-entry-ledger/internal/core/ports"
	"double-entry-ledger/pkg/apperror"
	"double-entry-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles read-only account and feed endpoints.
type LedgerHandler struct {
	querySvc ports.LedgerQueryService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(querySvc ports.LedgerQueryService) *LedgerHandler {
	return &LedgerHandler{querySvc: querySvc}
}

// ListAccounts handles GET /v1/accounts.
func (h *LedgerHandler) ListAccounts(c *gin.Context) {
	page, pageSize := pageParams(c)

	accounts, total, err := h.querySvc.ListAccounts(c.Request.Context(), ports.AccountListParams{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountResponse(&accounts[i]))
	}

	response.OK(c, dto.AccountListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	})
}

// GetAccount handles GET /v1/accounts/:name.
func (h *LedgerHandler) GetAccount(c *gin.Context) {
	account, err := h.querySvc.GetAccount(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if account == nil {
		response.Error(c, apperror.ErrAccountNotFound())
		return
	}

	response.OK(c, toAccountResponse(account))
}

// Reconcile handles GET /v1/accounts/:name/reconcile.
func (h *LedgerHandler) Reconcile(c *gin.Context) {
	result, err := h.querySvc.Reconcile(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ReconcileResponse{
		Account:     result.Account,
		Balance:     result.Balance.String(),
		PostingsSum: result.PostingsSum.String(),
		Consistent:  result.Consistent,
	})
}

// ListPostings handles GET /v1/payments: the chronological ledger feed,
// optionally filtered with ?account=<name>.
func (h *LedgerHandler) ListPostings(c *gin.Context) {
	page, pageSize := pageParams(c)

	entries, total, err := h.querySvc.ListPostings(c.Request.Context(), ports.PostingFeedQuery{
		AccountName: c.Query("account"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.PostingEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toPostingEntryResponse(e))
	}

	response.OK(c, dto.PostingFeedResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	})
}

// toPostingEntryResponse maps a feed row to its API shape: the signed value
// becomes a direction plus absolute amount, and only the other party of the
// payment is shown.
func toPostingEntryResponse(e domain.PostingEntry) dto.PostingEntryResponse {
	counterparty := e.FromAccount
	if e.Direction() == domain.DirectionOutgoing {
		counterparty = e.ToAccount
	}
	return dto.PostingEntryResponse{
		ID:           e.ID.String(),
		Account:      e.AccountName,
		Direction:    string(e.Direction()),
		Value:        e.Value.Abs().String(),
		Counterparty: counterparty,
		CreatedAt:    e.CreatedAt.Format(apiTimeFormat),
	}
}

func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
