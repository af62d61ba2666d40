package tickets

import (
	"errors"
	"fmt"
	"time"

	"dhukuti/internal/shared/clock"
)

var (
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrNotOnSale          = errors.New("ticket type is not on sale")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrPerPersonLimit     = errors.New("quantity exceeds the per-person limit")
)

// DefaultSellingFastThreshold is the remaining share of stock at or below which a ticket
// type is reported as selling fast.
const DefaultSellingFastThreshold = 0.25

// Available is the unsold stock. It never goes below zero.
func (t *TicketType) Available() int {
	if left := t.Quantity - t.Sold; left > 0 {
		return left
	}
	return 0
}

// OnSaleAt reports whether now falls within the sale window. A zero bound is open.
func (t *TicketType) OnSaleAt(now time.Time) bool {
	if !t.SaleStartDate.IsZero() && now.Before(t.SaleStartDate) {
		return false
	}
	if !t.SaleEndDate.IsZero() && now.After(t.SaleEndDate) {
		return false
	}
	return true
}

// StatusAt derives the sales status. Rules apply in order and the first match wins.
func (t *TicketType) StatusAt(now time.Time, threshold float64) Status {
	if !t.IsActive || !t.OnSaleAt(now) {
		return StatusNotOnSale
	}
	available := t.Available()
	if available == 0 {
		return StatusSoldOut
	}
	if float64(available)/float64(t.Quantity) <= threshold {
		return StatusSellingFast
	}
	return StatusAvailable
}

// RecordSale takes n tickets from stock. It either takes all of them or none.
func (t *TicketType) RecordSale(n int) error {
	if n < 1 {
		return ErrInvalidQuantity
	}
	if n > t.Available() {
		return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, n, t.Available())
	}
	t.Sold += n
	return nil
}

// Inventory evaluates ticket types against a clock and a selling-fast threshold.
type Inventory struct {
	clock     clock.Clock
	threshold float64
}

type Option func(*Inventory)

// WithSellingFastThreshold overrides the default threshold. Values outside (0, 1) are ignored.
func WithSellingFastThreshold(threshold float64) Option {
	return func(i *Inventory) {
		if threshold > 0 && threshold < 1 {
			i.threshold = threshold
		}
	}
}

func NewInventory(clk clock.Clock, opts ...Option) *Inventory {
	if clk == nil {
		clk = clock.NewSystem()
	}
	inv := &Inventory{clock: clk, threshold: DefaultSellingFastThreshold}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

func (i *Inventory) Threshold() float64 {
	return i.threshold
}

func (i *Inventory) Status(t *TicketType) Status {
	return t.StatusAt(i.clock.Now(), i.threshold)
}

// IsPurchasable is true for available and selling_fast ticket types.
func (i *Inventory) IsPurchasable(t *TicketType) bool {
	switch i.Status(t) {
	case StatusAvailable, StatusSellingFast:
		return true
	default:
		return false
	}
}

// CheckPurchasable explains why a ticket type cannot be bought right now.
func (i *Inventory) CheckPurchasable(t *TicketType) error {
	switch i.Status(t) {
	case StatusAvailable, StatusSellingFast:
		return nil
	case StatusSoldOut:
		return fmt.Errorf("%w: %s is sold out", ErrInsufficientStock, t.Name)
	default:
		return fmt.Errorf("%w: %s", ErrNotOnSale, t.Name)
	}
}
