package models

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
)

// RawAmount keeps an amount exactly as the client sent it. Both a JSON number
// and a JSON string are accepted; parsing and range checks happen in the
// domain validator.
type RawAmount string

func (a *RawAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = RawAmount(s)
		return nil
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*a = RawAmount(n.String())
		return nil
	default:
		return errors.New("amount must be a number or a string")
	}
}

type TransferFundsRequest struct {
	FromUserID string    `json:"from_user_id"`
	ToCard     string    `json:"to_card"`
	Amount     RawAmount `json:"amount"`
}

func (r TransferFundsRequest) ToRaw(sourceAccountID string) domain.RawTransfer {
	if sourceAccountID == "" {
		sourceAccountID = r.FromUserID
	}
	return domain.RawTransfer{
		SourceAccountID:       sourceAccountID,
		DestinationCardNumber: r.ToCard,
		Amount:                string(r.Amount),
	}
}

type TransferDetails struct {
	CardMask string       `json:"card_mask"`
	Amount   domain.Money `json:"amount"`
	Bank     string       `json:"bank"`
}

type TransferFundsResponse struct {
	TransactionID   int64           `json:"transaction_id"`
	NewBalance      domain.Money    `json:"new_balance"`
	TransferDetails TransferDetails `json:"transfer_details"`
}

func NewTransferFundsResponse(result domain.TransferResult) TransferFundsResponse {
	return TransferFundsResponse{
		TransactionID: result.Record.ID,
		NewBalance:    result.NewBalance,
		TransferDetails: TransferDetails{
			CardMask: result.MaskedDestination,
			Amount:   result.Amount,
			Bank:     result.Classification,
		},
	}
}
