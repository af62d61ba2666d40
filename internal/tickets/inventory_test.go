package tickets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhukuti/internal/shared/clock"
	"dhukuti/internal/shared/money"
)

var now = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func generalAdmission() *TicketType {
	return &TicketType{
		Name:          "General Admission",
		Price:         money.FromMajor(35),
		Currency:      "AUD",
		Quantity:      100,
		Sold:          0,
		IsActive:      true,
		SaleStartDate: now.AddDate(0, -1, 0),
		SaleEndDate:   now.AddDate(0, 1, 0),
	}
}

func TestTicketType_Status(t *testing.T) {
	tests := []struct {
		name   string
		modify func(tt *TicketType)
		want   Status
	}{
		{"plenty left", func(tt *TicketType) { tt.Sold = 10 }, StatusAvailable},
		{"exactly 25 percent left", func(tt *TicketType) { tt.Sold = 75 }, StatusSellingFast},
		{"20 percent left", func(tt *TicketType) { tt.Sold = 80 }, StatusSellingFast},
		{"26 percent left", func(tt *TicketType) { tt.Sold = 74 }, StatusAvailable},
		{"sold out", func(tt *TicketType) { tt.Sold = 100 }, StatusSoldOut},
		{"inactive beats sold out", func(tt *TicketType) { tt.Sold = 100; tt.IsActive = false }, StatusNotOnSale},
		{"sale not started", func(tt *TicketType) { tt.SaleStartDate = now.Add(time.Hour) }, StatusNotOnSale},
		{"sale ended", func(tt *TicketType) { tt.SaleEndDate = now.Add(-time.Hour) }, StatusNotOnSale},
		{"open window", func(tt *TicketType) { tt.SaleStartDate, tt.SaleEndDate = time.Time{}, time.Time{} }, StatusAvailable},
	}

	inv := NewInventory(clock.NewFixed(now))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := generalAdmission()
			tt.modify(ticket)
			assert.Equal(t, tt.want, inv.Status(ticket))
		})
	}
}

func TestInventory_CustomThreshold(t *testing.T) {
	ticket := generalAdmission()
	ticket.Sold = 80

	assert.Equal(t, StatusAvailable, NewInventory(clock.NewFixed(now), WithSellingFastThreshold(0.1)).Status(ticket))
	assert.Equal(t, 0.25, NewInventory(clock.NewFixed(now), WithSellingFastThreshold(3)).Threshold())
}

func TestTicketType_RecordSale(t *testing.T) {
	ticket := generalAdmission()
	ticket.Sold = 95

	require.NoError(t, ticket.RecordSale(3))
	assert.Equal(t, 98, ticket.Sold)
	assert.Equal(t, 2, ticket.Available())

	err := ticket.RecordSale(3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 98, ticket.Sold, "never partially fulfilled")

	assert.ErrorIs(t, ticket.RecordSale(0), ErrInvalidQuantity)

	require.NoError(t, ticket.RecordSale(2))
	assert.Equal(t, 0, ticket.Available())
	assert.Equal(t, ticket.Quantity, ticket.Sold+ticket.Available())
}

func TestInventory_IsPurchasable(t *testing.T) {
	inv := NewInventory(clock.NewFixed(now))
	ticket := generalAdmission()
	assert.True(t, inv.IsPurchasable(ticket))
	assert.NoError(t, inv.CheckPurchasable(ticket))

	ticket.Sold = 90
	assert.True(t, inv.IsPurchasable(ticket))

	ticket.Sold = 100
	assert.False(t, inv.IsPurchasable(ticket))
	assert.ErrorIs(t, inv.CheckPurchasable(ticket), ErrInsufficientStock)

	ticket.Sold = 0
	ticket.IsActive = false
	assert.False(t, inv.IsPurchasable(ticket))
	assert.ErrorIs(t, inv.CheckPurchasable(ticket), ErrNotOnSale)
}
