package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

type Registration struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type DepositResult struct {
	Record     domain.TransactionRecord
	NewBalance domain.Money
}

// AccountService covers the account lifecycle around the transfer core:
// registration with a zero balance, deposits, balance and history reads.
type AccountService struct {
	accounts  domain.AccountRepository
	history   domain.TransactionRepository
	txManager domain.TransactionManager
	ledger    domain.LedgerStore
	recorder  domain.TransactionRecorder
	hashCost  int
	validate  *validator.Validate
}

func NewAccountService(
	accounts domain.AccountRepository,
	history domain.TransactionRepository,
	txManager domain.TransactionManager,
	ledger domain.LedgerStore,
	recorder domain.TransactionRecorder,
	hashCost int,
) *AccountService {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &AccountService{
		accounts:  accounts,
		history:   history,
		txManager: txManager,
		ledger:    ledger,
		recorder:  recorder,
		hashCost:  hashCost,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *AccountService) Register(ctx context.Context, reg Registration) (domain.Account, error) {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	reg.FullName = strings.TrimSpace(reg.FullName)

	logger.Info("account service register request", logger.Fields{
		"payload": logger.SanitizePayload(reg),
	})

	if err := s.validate.Struct(reg); err != nil {
		return domain.Account{}, registrationError(err)
	}

	if _, err := s.accounts.GetByEmail(ctx, reg.Email); err == nil {
		return domain.Account{}, domain.Reject(domain.ErrEmailTaken, "an account with this email already exists")
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		logger.Error("account service register lookup failed", err, nil)
		return domain.Account{}, domain.Fail(domain.ErrStoreUnavailable, "unable to create account right now", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.hashCost)
	if err != nil {
		logger.Error("account service register hash password failed", err, nil)
		return domain.Account{}, domain.Fail(domain.ErrStoreUnavailable, "unable to create account right now", err)
	}

	created, err := s.accounts.Create(ctx, domain.Account{
		ID:           uuid.NewString(),
		Email:        reg.Email,
		FullName:     reg.FullName,
		PasswordHash: string(hash),
		Balance:      domain.ZeroMoney,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return domain.Account{}, domain.Reject(domain.ErrEmailTaken, "an account with this email already exists")
		}
		logger.Error("account service register create failed", err, nil)
		return domain.Account{}, domain.Fail(domain.ErrStoreUnavailable, "unable to create account right now", err)
	}

	logger.Info("account service register success", logger.Fields{
		"accountId": created.ID,
	})
	return created, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Account{}, domain.Reject(domain.ErrMissingField, "account id is required")
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.Account{}, domain.Reject(domain.ErrAccountNotFound, "account not found")
		}
		logger.Error("account service get account failed", err, logger.Fields{"accountId": id})
		return domain.Account{}, domain.Fail(domain.ErrStoreUnavailable, "unable to fetch account right now", err)
	}
	return account, nil
}

// Deposit credits the account and appends a deposit record in one unit of
// work.
func (s *AccountService) Deposit(ctx context.Context, id string, rawAmount string) (result DepositResult, err error) {
	logger.Info("account service deposit request", logger.Fields{
		"accountId": id,
		"amount":    rawAmount,
	})

	id = strings.TrimSpace(id)
	if id == "" || strings.TrimSpace(rawAmount) == "" {
		return result, domain.Reject(domain.ErrMissingField, "account id and amount are required")
	}
	amount, parseErr := domain.ParseMoney(rawAmount)
	if parseErr != nil || !amount.IsPositive() {
		return result, domain.Fail(domain.ErrInvalidAmount, "amount must be a positive number with at most two decimal places", parseErr)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return result, classifyStoreError("begin unit of work", err)
	}
	defer func() {
		if err != nil {
			err = rollback(ctx, tx, err)
			if errors.Is(err, domain.ErrStoreUnavailable) {
				logger.Error("account service deposit failed", err, logger.Fields{"accountId": id})
			}
		}
	}()

	result.NewBalance, err = s.ledger.Credit(ctx, tx, id, amount)
	if err != nil {
		return result, classifyStoreError("credit account", err)
	}

	result.Record, err = s.recorder.Append(ctx, tx, domain.TransactionRecord{
		AccountID:   id,
		Kind:        domain.TransactionKindDeposit,
		Amount:      amount,
		Description: "Deposit",
		Status:      domain.TransactionStatusCompleted,
	})
	if err != nil {
		return result, classifyStoreError("append transaction record", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return result, classifyStoreError("commit unit of work", err)
	}

	logger.Info("account service deposit success", logger.Fields{
		"accountId":     id,
		"transactionId": result.Record.ID,
		"newBalance":    result.NewBalance.String(),
	})
	return result, nil
}

func (s *AccountService) ListTransactions(ctx context.Context, id string) ([]domain.TransactionRecord, error) {
	if _, err := s.GetAccount(ctx, id); err != nil {
		return nil, err
	}

	records, err := s.history.ListByAccount(ctx, strings.TrimSpace(id))
	if err != nil {
		logger.Error("account service list transactions failed", err, logger.Fields{"accountId": id})
		return nil, domain.Fail(domain.ErrStoreUnavailable, "unable to fetch transactions right now", err)
	}
	return records, nil
}

func registrationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Fail(domain.ErrInvalidField, "registration data is invalid", err)
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	if field == "fullname" {
		field = "full_name"
	}
	if fe.Tag() == "required" {
		return domain.Reject(domain.ErrMissingField, fmt.Sprintf("%s is required", field))
	}
	return domain.Fail(domain.ErrInvalidField, fmt.Sprintf("%s is invalid", field), err)
}
