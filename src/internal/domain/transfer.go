package domain

import "strings"

const cardNumberLength = 16

// RawTransfer holds transfer fields as received from the transport layer.
type RawTransfer struct {
	SourceAccountID       string
	DestinationCardNumber string
	Amount                string
}

// TransferRequest is a validated transfer. It only exists for one
// orchestration call.
type TransferRequest struct {
	SourceAccountID       string
	DestinationCardNumber string
	Amount                Money
}

type TransferResult struct {
	Record            TransactionRecord
	NewBalance        Money
	Amount            Money
	MaskedDestination string
	Classification    string
	Summary           string
}

type TransferState string

const (
	TransferStateValidating TransferState = "validating"
	TransferStateDebiting   TransferState = "debiting"
	TransferStateRecording  TransferState = "recording"
	TransferStateCommitted  TransferState = "committed"
	TransferStateRejected   TransferState = "rejected"
)

// NewTransferRequest normalizes raw and rejects malformed input. It has no
// side effects.
func NewTransferRequest(raw RawTransfer) (TransferRequest, error) {
	source := strings.TrimSpace(raw.SourceAccountID)
	card := strings.ReplaceAll(strings.TrimSpace(raw.DestinationCardNumber), " ", "")
	amountText := strings.TrimSpace(raw.Amount)

	if source == "" || card == "" || amountText == "" {
		return TransferRequest{}, Reject(ErrMissingField, "all fields are required")
	}

	amount, err := ParseMoney(amountText)
	if err != nil {
		return TransferRequest{}, Fail(ErrInvalidAmount, "amount must be a positive number with at most two decimal places", err)
	}
	if !amount.IsPositive() {
		return TransferRequest{}, Reject(ErrInvalidAmount, "amount must be a positive number with at most two decimal places")
	}

	if !IsCardNumber(card) {
		return TransferRequest{}, Reject(ErrInvalidDestination, "card number must contain 16 digits")
	}

	return TransferRequest{
		SourceAccountID:       source,
		DestinationCardNumber: card,
		Amount:                amount,
	}, nil
}

func IsCardNumber(value string) bool {
	if len(value) != cardNumberLength {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

// MaskCardNumber keeps only the last four digits. Anything shorter than a
// card suffix is masked completely.
func MaskCardNumber(card string) string {
	if len(card) <= 4 {
		return "****"
	}
	return "**** " + card[len(card)-4:]
}
