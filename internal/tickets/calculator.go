package tickets

import (
	"fmt"

	"dhukuti/internal/shared/money"
)

// Selection is a quantity of one ticket type chosen for purchase. It references the ticket
// type and never modifies it.
type Selection struct {
	ticket   *TicketType
	quantity int
}

// NewSelection starts a selection of one ticket of t.
func NewSelection(t *TicketType) *Selection {
	return &Selection{ticket: t, quantity: 1}
}

func (s *Selection) TicketType() *TicketType {
	return s.ticket
}

func (s *Selection) Quantity() int {
	return s.quantity
}

// Select switches the ticket type and resets the quantity to 1.
func (s *Selection) Select(t *TicketType) {
	s.ticket = t
	s.quantity = 1
}

// SetQuantity clamps n into [1, available] and returns the stored quantity.
func (s *Selection) SetQuantity(n int) int {
	limit := 1
	if s.ticket != nil && s.ticket.Available() > 1 {
		limit = s.ticket.Available()
	}
	switch {
	case n < 1:
		n = 1
	case n > limit:
		n = limit
	}
	s.quantity = n
	return n
}

func (s *Selection) Increment() int {
	return s.SetQuantity(s.quantity + 1)
}

func (s *Selection) Decrement() int {
	return s.SetQuantity(s.quantity - 1)
}

// TotalPrice is the unit price times the quantity, exact to the cent.
func (s *Selection) TotalPrice() money.Amount {
	if s.ticket == nil {
		return 0
	}
	return s.ticket.Price.Mul(s.quantity)
}

// Validate re-checks the quantity against the current stock of the ticket type.
func (s *Selection) Validate() error {
	if s.ticket == nil {
		return ErrTicketTypeNotFound
	}
	if s.quantity < 1 {
		return ErrInvalidQuantity
	}
	if s.quantity > s.ticket.Available() {
		return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, s.quantity, s.ticket.Available())
	}
	return nil
}
