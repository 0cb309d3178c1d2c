package domain_test

import (
	"errors"
	"testing"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransferRequest(t *testing.T) {
	tests := []struct {
		name    string
		raw     domain.RawTransfer
		wantErr error
		card    string
		amount  string
	}{
		{
			name:   "valid with spaces in card",
			raw:    domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "4000 0000 0000 0001", Amount: "250.50"},
			card:   "4000000000000001",
			amount: "250.50",
		},
		{
			name:   "leading and trailing whitespace",
			raw:    domain.RawTransfer{SourceAccountID: " acc-1 ", DestinationCardNumber: "\t2200000000000002\n", Amount: " 1 "},
			card:   "2200000000000002",
			amount: "1.00",
		},
		{
			name:    "missing source",
			raw:     domain.RawTransfer{DestinationCardNumber: "4000000000000001", Amount: "1"},
			wantErr: domain.ErrMissingField,
		},
		{
			name:    "destination only spaces",
			raw:     domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "    ", Amount: "1"},
			wantErr: domain.ErrMissingField,
		},
		{
			name:    "missing amount",
			raw:     domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "4000000000000001"},
			wantErr: domain.ErrMissingField,
		},
		{
			name:    "zero amount",
			raw:     domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "4000000000000001", Amount: "0"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "zero amount with decimals",
			raw:     domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "4000000000000001", Amount: "0.00"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			raw:     domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "4000000000000001", Amount: "-5"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "non numeric amount",
			raw:     domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "4000000000000001", Amount: "ten"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "sub cent amount",
			raw:     domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "4000000000000001", Amount: "0.001"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "huge exponent amount",
			raw:     domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "4000000000000001", Amount: "1e50000000"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "amount over the balance limit",
			raw:     domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "4000000000000001", Amount: "92233720368547758.07"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "hyphenated fifteen digits",
			raw:     domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "1234-5678-9012-345", Amount: "1"},
			wantErr: domain.ErrInvalidDestination,
		},
		{
			name:    "hyphenated sixteen digits",
			raw:     domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "1234-5678-9012-3456", Amount: "1"},
			wantErr: domain.ErrInvalidDestination,
		},
		{
			name:    "seventeen digits",
			raw:     domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "40000000000000011", Amount: "1"},
			wantErr: domain.ErrInvalidDestination,
		},
		{
			name:    "non ascii digits",
			raw:     domain.RawTransfer{SourceAccountID: "acc-1", DestinationCardNumber: "４０００000000000001", Amount: "1"},
			wantErr: domain.ErrInvalidDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NewTransferRequest(tt.raw)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

				var te *domain.TransferError
				require.True(t, errors.As(err, &te))
				assert.NotEmpty(t, te.Reason)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.card, got.DestinationCardNumber)
			assert.Equal(t, tt.amount, got.Amount.String())
			assert.Equal(t, "acc-1", got.SourceAccountID)
		})
	}
}

func TestMaskCardNumber(t *testing.T) {
	tests := []struct {
		card string
		want string
	}{
		{card: "4000000000000001", want: "**** 0001"},
		{card: "22000000000000021", want: "**** 0021"},
		{card: "12345", want: "**** 2345"},
		{card: "1234", want: "****"},
		{card: "123", want: "****"},
		{card: "", want: "****"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.MaskCardNumber(tt.card), tt.card)
	}
}

func TestTransferErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(domain.Fail(domain.ErrStoreUnavailable, "try again later", cause))

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, "try again later", domain.ReasonOf(err, "fallback"))
	assert.Equal(t, "fallback", domain.ReasonOf(cause, "fallback"))
}
