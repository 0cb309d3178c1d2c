package domain_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		minor   int64
		wantErr bool
	}{
		{name: "integer", raw: "1000", minor: 100000},
		{name: "two decimals", raw: "250.50", minor: 25050},
		{name: "one decimal", raw: "0.5", minor: 50},
		{name: "trailing zeros beyond scale", raw: "10.500", minor: 1050},
		{name: "zero with decimals", raw: "0.00", minor: 0},
		{name: "negative", raw: "-3.25", minor: -325},
		{name: "exponent", raw: "1e3", minor: 100000},
		{name: "surrounding spaces", raw: "  7.10 ", minor: 710},
		{name: "too precise", raw: "0.001", wantErr: true},
		{name: "not a number", raw: "abc", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "overflow", raw: "1e30", wantErr: true},
		{name: "largest balance", raw: "9999999999999999.99", minor: 999_999_999_999_999_999},
		{name: "smallest balance", raw: "-9999999999999999.99", minor: -999_999_999_999_999_999},
		{name: "one past largest", raw: "10000000000000000", wantErr: true},
		{name: "past int64", raw: "92233720368547758.08", wantErr: true},
		{name: "zero with huge exponent", raw: "0e50000000", minor: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseMoney(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.minor, got.MinorUnits())
		})
	}
}

func TestMoneyArithmeticAndFormatting(t *testing.T) {
	balance := domain.MustParseMoney("1000.00")
	amount := domain.MustParseMoney("250.50")

	left := balance.Sub(amount)
	assert.Equal(t, "749.50", left.String())
	sum, err := left.Add(amount)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", sum.String())
	assert.True(t, amount.LessThan(balance))
	assert.False(t, balance.LessThan(balance))
	assert.True(t, balance.Sub(balance).IsZero())
	assert.True(t, amount.Sub(balance).IsNegative())
	assert.Equal(t, "0.00", domain.ZeroMoney.String())
}

func TestParseMoneyRejectsHugeInputQuickly(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "huge positive exponent", raw: "1e50000000"},
		{name: "huge negative value", raw: "-1e50000000"},
		{name: "huge negative exponent", raw: "1e-50000000"},
		{name: "long digits with negative exponent", raw: "1000000000000000000000000000e-50000000"},
		{name: "too long", raw: "1" + strings.Repeat("0", 40)},
		{name: "too long fraction", raw: "0." + strings.Repeat("0", 39) + "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			_, err := domain.ParseMoney(tt.raw)
			assert.Error(t, err)
			assert.Less(t, time.Since(start), 100*time.Millisecond)
		})
	}
}

func TestMoneyAddBounds(t *testing.T) {
	largest := domain.MustParseMoney("9999999999999999.99")
	cent := domain.MustParseMoney("0.01")

	tests := []struct {
		name    string
		left    domain.Money
		right   domain.Money
		want    string
		wantErr bool
	}{
		{name: "up to the limit", left: largest.Sub(cent), right: cent, want: "9999999999999999.99"},
		{name: "one cent over", left: largest, right: cent, wantErr: true},
		{name: "largest twice", left: largest, right: largest, wantErr: true},
		{name: "below the negative limit", left: domain.ZeroMoney.Sub(largest), right: domain.ZeroMoney.Sub(cent), wantErr: true},
		{name: "largest plus negative", left: largest, right: domain.ZeroMoney.Sub(largest), want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.left.Add(tt.right)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestMoneyJSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		Balance domain.Money `json:"balance"`
	}{Balance: domain.MustParseMoney("749.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"balance":749.50}`, string(payload))
	assert.Contains(t, string(payload), "749.50")

	var decoded struct {
		A domain.Money `json:"a"`
		B domain.Money `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12.3,"b":"4.56"}`), &decoded))
	assert.Equal(t, int64(1230), decoded.A.MinorUnits())
	assert.Equal(t, int64(456), decoded.B.MinorUnits())
}

func TestMoneyScan(t *testing.T) {
	var m domain.Money
	require.NoError(t, m.Scan([]byte("100.00")))
	assert.Equal(t, int64(10000), m.MinorUnits())

	require.NoError(t, m.Scan("0.01"))
	assert.Equal(t, int64(1), m.MinorUnits())

	require.NoError(t, m.Scan(int64(5)))
	assert.Equal(t, int64(500), m.MinorUnits())

	assert.Error(t, m.Scan(int64(math.MaxInt64)))
	assert.Error(t, m.Scan(int64(10_000_000_000_000_000)))
	require.NoError(t, m.Scan(int64(9_999_999_999_999_999)))
	assert.Equal(t, "9999999999999999.00", m.String())

	assert.Error(t, m.Scan(nil))
	assert.Error(t, m.Scan(3.14))

	v, err := domain.MustParseMoney("3.1").Value()
	require.NoError(t, err)
	assert.Equal(t, "3.10", v)
}
