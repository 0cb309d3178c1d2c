package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/adapter/http/models"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/commons"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/usecase/services"
)

type AccountService interface {
	Register(ctx context.Context, reg services.Registration) (domain.Account, error)
	GetAccount(ctx context.Context, id string) (domain.Account, error)
	Deposit(ctx context.Context, id string, rawAmount string) (services.DepositResult, error)
	ListTransactions(ctx context.Context, id string) ([]domain.TransactionRecord, error)
}

type AccountController struct {
	service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	routes := map[string]http.HandlerFunc{
		"POST /accounts":                  c.createAccount,
		"GET /accounts/{id}":              c.getAccount,
		"GET /accounts/{id}/transactions": c.listTransactions,
		"POST /accounts/{id}/deposits":    c.deposit,
	}
	for pattern, fn := range routes {
		var handler http.Handler = fn
		if authMiddleware != nil {
			handler = authMiddleware(handler)
		}
		mux.Handle(pattern, handler)
	}
}

func (c *AccountController) createAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	account, err := c.service.Register(r.Context(), services.Registration{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		c.fail(w, r, "account not created", err, start)
		return
	}

	response := commons.SuccessResponse("account created", models.NewAccountResponse(account))
	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *AccountController) getAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	account, err := c.service.GetAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		c.fail(w, r, "account not fetched", err, start)
		return
	}

	response := commons.SuccessResponse("account fetched", models.NewAccountResponse(account))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) listTransactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	records, err := c.service.ListTransactions(r.Context(), r.PathValue("id"))
	if err != nil {
		c.fail(w, r, "transactions not fetched", err, start)
		return
	}

	response := commons.SuccessResponse("transactions fetched", models.NewTransactionResponses(records))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.DepositFundsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.DepositFundsResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	result, err := c.service.Deposit(r.Context(), r.PathValue("id"), string(req.Amount))
	if err != nil {
		c.fail(w, r, "deposit rejected", err, start)
		return
	}

	response := commons.SuccessResponse("deposit completed", models.DepositFundsResponse{
		TransactionID: result.Record.ID,
		Amount:        result.Record.Amount,
		NewBalance:    result.NewBalance,
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) fail(w http.ResponseWriter, r *http.Request, message string, err error, start time.Time) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logError(r, err, nil)
	}
	response := commons.RejectionResponse[struct{}](message, err)
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}
