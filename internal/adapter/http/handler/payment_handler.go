package handler

import (
	"double-entry-ledger/internal/adapter/http/dto"
	"double-entry-ledger/internal/core/domain"
	"double-entry-ledger/internal/core/ports"
	"double-entry-ledger/pkg/apperror"
	"double-entry-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	transferSvc ports.TransferService
	querySvc    ports.LedgerQueryService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(transferSvc ports.TransferService, querySvc ports.LedgerQueryService) *PaymentHandler {
	return &PaymentHandler{
		transferSvc: transferSvc,
		querySvc:    querySvc,
	}
}

// CreateTransfer handles POST /v1/payments. Accounts are referenced by name;
// resolution happens here, and the transfer engine re-reads both rows under
// lock before any balance check.
func (h *PaymentHandler) CreateTransfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if req.From == req.To {
		response.Error(c, apperror.ErrSameAccount())
		return
	}

	ctx := c.Request.Context()
	from, err := h.querySvc.GetAccount(ctx, req.From)
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := h.querySvc.GetAccount(ctx, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	if from == nil || to == nil {
		response.Error(c, apperror.ErrAccountNotFound())
		return
	}

	payment, err := h.transferSvc.CreateTransfer(ctx, ports.TransferRequest{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Value:         req.Value,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toPaymentResponse(payment, req.From, req.To))
}

// GetPayment handles GET /v1/payments/:id.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("payment id must be a UUID"))
		return
	}

	payment, err := h.querySvc.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if payment == nil {
		response.Error(c, apperror.ErrPaymentNotFound())
		return
	}

	response.OK(c, toPaymentResponse(payment, "", ""))
}

// toPaymentResponse maps a payment to its API shape. From/to names are
// filled when the caller already resolved them; otherwise raw IDs are used.
func toPaymentResponse(p *domain.Payment, fromName, toName string) dto.PaymentResponse {
	if fromName == "" {
		fromName = p.FromAccountID.String()
	}
	if toName == "" {
		toName = p.ToAccountID.String()
	}

	resp := dto.PaymentResponse{
		ID:        p.ID.String(),
		From:      fromName,
		To:        toName,
		Value:     p.Value.String(),
		CreatedAt: p.CreatedAt.Format(apiTimeFormat),
	}
	for _, posting := range p.Postings {
		resp.Postings = append(resp.Postings, dto.PostingResponse{
			ID:        posting.ID.String(),
			AccountID: posting.AccountID.String(),
			Direction: string(posting.Direction()),
			Value:     posting.Value.Abs().String(),
		})
	}
	return resp
}
