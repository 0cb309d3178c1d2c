package models

import (
	"time"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
)

type CreateAccountRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type AccountResponse struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	FullName  string       `json:"full_name"`
	Balance   domain.Money `json:"balance"`
	CreatedAt string       `json:"created_at"`
}

func NewAccountResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Email:     account.Email,
		FullName:  account.FullName,
		Balance:   account.Balance,
		CreatedAt: formatTime(account.CreatedAt),
	}
}

type DepositFundsRequest struct {
	Amount RawAmount `json:"amount"`
}

type DepositFundsResponse struct {
	TransactionID int64        `json:"transaction_id"`
	Amount        domain.Money `json:"amount"`
	NewBalance    domain.Money `json:"new_balance"`
}

type TransactionResponse struct {
	ID          int64        `json:"id"`
	Kind        string       `json:"kind"`
	Amount      domain.Money `json:"amount"`
	Description string       `json:"description"`
	CardMask    string       `json:"card_mask,omitempty"`
	Status      string       `json:"status"`
	CreatedAt   string       `json:"created_at"`
}

func NewTransactionResponses(records []domain.TransactionRecord) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(records))
	for _, record := range records {
		item := TransactionResponse{
			ID:          record.ID,
			Kind:        string(record.Kind),
			Amount:      record.Amount,
			Description: record.Description,
			Status:      string(record.Status),
			CreatedAt:   formatTime(record.CreatedAt),
		}
		if record.DestinationCardNumber != "" {
			item.CardMask = domain.MaskCardNumber(record.DestinationCardNumber)
		}
		out = append(out, item)
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
