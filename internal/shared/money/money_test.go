package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{"35", 3500, false},
		{"35.5", 3550, false},
		{"35.05", 3505, false},
		{"0.99", 99, false},
		{"-1.25", -125, false},
		{"1.234", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"+2.50", 250, false},
		{".5", 50, false},
		{"92233720368547757.99", 9223372036854775799, false},
		{"1.-5", 0, true},
		{"1.+5", 0, true},
		{"--5", 0, true},
		{"-+5", 0, true},
		{"-", 0, true},
		{"5.", 0, true},
		{"1,000", 0, true},
		{"1e3", 0, true},
		{"92233720368547758.00", 0, true},
		{"99999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmount_MulAndString(t *testing.T) {
	price := FromMajor(35.00)
	assert.Equal(t, "105.00", price.Mul(3).String())
	assert.Equal(t, "AUD 105.00", price.Mul(3).Format(""))
	assert.Equal(t, "-0.05", Amount(-5).String())
}

func TestAmount_JSON(t *testing.T) {
	var payload struct {
		Price Amount `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price": 12.5}`), &payload))
	assert.Equal(t, Amount(1250), payload.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"price": "7.10"}`), &payload))
	assert.Equal(t, Amount(710), payload.Price)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price": 7.10}`, string(out))
}

func TestIsSupportedCurrency(t *testing.T) {
	assert.True(t, IsSupportedCurrency("aud"))
	assert.True(t, IsSupportedCurrency("GBP"))
	assert.False(t, IsSupportedCurrency("NPR"))
}
