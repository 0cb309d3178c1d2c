package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/logger"
)

const unavailableReason = "transfer could not be completed right now, please try again"

type Classifier interface {
	Classify(cardNumber string) string
}

// TransferService runs a transfer through Validating, Debiting, Recording and
// Committed. Debiting and Recording share one unit of work, so a transfer is
// either fully applied or not visible at all.
type TransferService struct {
	txManager        domain.TransactionManager
	ledger           domain.LedgerStore
	recorder         domain.TransactionRecorder
	classifier       Classifier
	recordRejections bool
}

func NewTransferService(
	txManager domain.TransactionManager,
	ledger domain.LedgerStore,
	recorder domain.TransactionRecorder,
	classifier Classifier,
	recordRejections bool,
) *TransferService {
	return &TransferService{
		txManager:        txManager,
		ledger:           ledger,
		recorder:         recorder,
		classifier:       classifier,
		recordRejections: recordRejections,
	}
}

func (s *TransferService) Transfer(ctx context.Context, raw domain.RawTransfer) (domain.TransferResult, error) {
	logger.Info("transfer service transfer request", logger.Fields{
		"sourceAccountId": raw.SourceAccountID,
		"cardNumber":      raw.DestinationCardNumber,
		"amount":          raw.Amount,
	})

	req, err := domain.NewTransferRequest(raw)
	if err != nil {
		logRejection(domain.TransferStateValidating, raw.SourceAccountID, err)
		return domain.TransferResult{}, err
	}

	record, newBalance, state, err := s.debitAndRecord(ctx, req)
	if err != nil {
		logRejection(state, req.SourceAccountID, err)
		if s.recordRejections && errors.Is(err, domain.ErrInsufficientFunds) {
			s.recordRejection(ctx, req)
		}
		return domain.TransferResult{}, err
	}

	masked := domain.MaskCardNumber(req.DestinationCardNumber)
	label := s.classifier.Classify(req.DestinationCardNumber)
	result := domain.TransferResult{
		Record:            record,
		NewBalance:        newBalance,
		Amount:            req.Amount,
		MaskedDestination: masked,
		Classification:    label,
		Summary:           fmt.Sprintf("Transfer of %s to %s card %s completed", req.Amount, label, masked),
	}

	logger.Info("transfer service transfer committed", logger.Fields{
		"state":           domain.TransferStateCommitted,
		"transactionId":   record.ID,
		"sourceAccountId": req.SourceAccountID,
		"amount":          req.Amount.String(),
		"newBalance":      newBalance.String(),
		"classification":  label,
	})

	return result, nil
}

// debitAndRecord is the atomic unit of work: one locked read, one conditional
// write, one insert. The returned state is where a failure happened.
func (s *TransferService) debitAndRecord(ctx context.Context, req domain.TransferRequest) (record domain.TransactionRecord, newBalance domain.Money, state domain.TransferState, err error) {
	state = domain.TransferStateDebiting

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return record, newBalance, state, classifyStoreError("begin unit of work", err)
	}
	defer func() {
		if err != nil {
			err = rollback(ctx, tx, err)
		}
	}()

	newBalance, err = s.ledger.Debit(ctx, tx, req.SourceAccountID, req.Amount)
	if err != nil {
		return record, newBalance, state, classifyStoreError("debit account", err)
	}

	state = domain.TransferStateRecording
	record, err = s.recorder.Append(ctx, tx, domain.TransactionRecord{
		AccountID:             req.SourceAccountID,
		Kind:                  domain.TransactionKindTransfer,
		Amount:                req.Amount,
		Description:           "Transfer to card " + domain.MaskCardNumber(req.DestinationCardNumber),
		DestinationCardNumber: req.DestinationCardNumber,
		Status:                domain.TransactionStatusCompleted,
	})
	if err != nil {
		return record, newBalance, state, classifyStoreError("append transaction record", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return record, newBalance, state, classifyStoreError("commit unit of work", err)
	}

	return record, newBalance, domain.TransferStateCommitted, nil
}

// recordRejection appends an audit record for a transfer refused for lack of
// funds. It runs in its own unit of work after the failed one rolled back and
// never changes the outcome returned to the caller.
func (s *TransferService) recordRejection(ctx context.Context, req domain.TransferRequest) {
	fields := logger.Fields{"sourceAccountId": req.SourceAccountID, "amount": req.Amount.String()}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		logger.Error("transfer service record rejection begin failed", err, fields)
		return
	}

	_, err = s.recorder.Append(ctx, tx, domain.TransactionRecord{
		AccountID:             req.SourceAccountID,
		Kind:                  domain.TransactionKindTransfer,
		Amount:                req.Amount,
		Description:           "Rejected transfer to card " + domain.MaskCardNumber(req.DestinationCardNumber),
		DestinationCardNumber: req.DestinationCardNumber,
		Status:                domain.TransactionStatusInsufficientFunds,
	})
	if err == nil {
		err = tx.Commit(ctx)
	}
	if err != nil {
		logger.Error("transfer service record rejection failed", rollback(ctx, tx, err), fields)
	}
}

func rollback(ctx context.Context, tx domain.Tx, cause error) error {
	if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
		logger.Error("transfer service rollback failed", rbErr, nil)
		return errors.Join(cause, rbErr)
	}
	return cause
}

func classifyStoreError(op string, err error) error {
	var te *domain.TransferError
	switch {
	case errors.As(err, &te):
		return err
	case errors.Is(err, domain.ErrAccountNotFound):
		return domain.Reject(domain.ErrAccountNotFound, "account not found")
	case errors.Is(err, domain.ErrInsufficientFunds):
		return domain.Reject(domain.ErrInsufficientFunds, "insufficient funds")
	case errors.Is(err, domain.ErrBalanceLimit):
		return domain.Fail(domain.ErrInvalidAmount, "amount would take the balance over the account limit", err)
	default:
		return domain.Fail(domain.ErrStoreUnavailable, unavailableReason, fmt.Errorf("%s: %w", op, err))
	}
}

func logRejection(state domain.TransferState, accountID string, err error) {
	fields := logger.Fields{
		"state":           domain.TransferStateRejected,
		"failedIn":        state,
		"sourceAccountId": accountID,
	}
	if errors.Is(err, domain.ErrStoreUnavailable) {
		logger.Error("transfer service transfer failed", err, fields)
		return
	}
	fields["reason"] = domain.ReasonOf(err, err.Error())
	logger.Info("transfer service transfer rejected", fields)
}
