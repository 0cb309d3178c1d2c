package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/adapter/http/middleware"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/adapter/http/models"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/commons"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
)

type TransferService interface {
	Transfer(ctx context.Context, raw domain.RawTransfer) (domain.TransferResult, error)
}

type TransferController struct {
	service TransferService
}

func NewTransferController(service TransferService) *TransferController {
	return &TransferController{service: service}
}

func (c *TransferController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	var handler http.Handler = http.HandlerFunc(c.transfer)
	if authMiddleware != nil {
		handler = authMiddleware(handler)
	}

	mux.Handle("POST /transfer-funds", handler)
}

func (c *TransferController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.TransferFundsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransferFundsResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	// The gateway header wins over the body field.
	sourceAccountID, _ := middleware.AccountIDFromContext(r.Context())

	result, err := c.service.Transfer(r.Context(), req.ToRaw(sourceAccountID))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			logError(r, err, nil)
		}
		response := commons.RejectionResponse[models.TransferFundsResponse]("transfer rejected", err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse(result.Summary, models.NewTransferFundsResponse(result))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
