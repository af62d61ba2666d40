package tickets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"dhukuti/internal/activity"
	"dhukuti/internal/shared/clock"
	"dhukuti/internal/shared/constants"
	"dhukuti/internal/shared/session"
	"dhukuti/pkg/cache"
	"dhukuti/pkg/logger"
	"dhukuti/pkg/metrics"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrForbidden     = errors.New("only the event organizer can manage its tickets")
)

// EventRules are the event-level limits applied to every purchase.
type EventRules struct {
	EventID             uuid.UUID
	OwnerID             uuid.UUID
	Title               string
	MaxTicketsPerPerson int
}

// EventLookup resolves the event a ticket type belongs to.
type EventLookup interface {
	PurchaseRules(ctx context.Context, eventID uuid.UUID) (*EventRules, error)
}

type Service interface {
	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]TicketTypeResponse, error)
	Quote(ctx context.Context, eventID uuid.UUID, req QuoteRequest) (*QuoteResponse, error)
	Purchase(ctx context.Context, s session.Session, eventID uuid.UUID, req PurchaseRequest) (*PurchaseResponse, error)
	ListMyPurchases(ctx context.Context, userID uuid.UUID) ([]PurchaseResponse, error)
	SetActive(ctx context.Context, s session.Session, eventID, ticketTypeID uuid.UUID, active bool) error
}

type service struct {
	repo      Repository
	events    EventLookup
	inventory *Inventory
	guard     *StockGuard
	cache     cache.Service
	publisher activity.Publisher
	clock     clock.Clock
	log       *logger.Logger
}

type ServiceOption func(*service)

func WithStockGuard(g *StockGuard) ServiceOption {
	return func(s *service) { s.guard = g }
}

func WithCache(c cache.Service) ServiceOption {
	return func(s *service) { s.cache = c }
}

func WithPublisher(p activity.Publisher) ServiceOption {
	return func(s *service) { s.publisher = p }
}

func NewService(repo Repository, events EventLookup, inventory *Inventory, opts ...ServiceOption) Service {
	s := &service{
		repo:      repo,
		events:    events,
		inventory: inventory,
		cache:     cache.NewService(nil),
		publisher: activity.NopPublisher{},
		clock:     inventory.clock,
		log:       logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) toResponse(t *TicketType) TicketTypeResponse {
	return TicketTypeResponse{
		ID:            t.ID,
		EventID:       t.EventID,
		Name:          t.Name,
		Description:   t.Description,
		Price:         t.Price,
		Currency:      t.Currency,
		Quantity:      t.Quantity,
		Sold:          t.Sold,
		Available:     t.Available(),
		Status:        s.inventory.Status(t),
		Benefits:      t.Benefits,
		IsActive:      t.IsActive,
		SaleStartDate: t.SaleStartDate,
		SaleEndDate:   t.SaleEndDate,
	}
}

// ListForEvent caches the rows and derives status on every read, so a cached list never
// reports a stale sale window.
func (s *service) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]TicketTypeResponse, error) {
	if _, err := s.events.PurchaseRules(ctx, eventID); err != nil {
		return nil, err
	}

	var types []TicketType
	err := s.cache.GetOrSet(ctx, constants.BuildTicketsByEventKey(eventID.String()), constants.TTL_TICKETS_BY_EVENT,
		func() (interface{}, error) {
			return s.repo.ListByEvent(ctx, eventID)
		}, &types)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket types: %w", err)
	}

	result := make([]TicketTypeResponse, 0, len(types))
	for i := range types {
		result = append(result, s.toResponse(&types[i]))
	}
	return result, nil
}

func (s *service) ticketForEvent(ctx context.Context, eventID uuid.UUID, rawID string) (*TicketType, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrTicketTypeNotFound
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.EventID != eventID {
		return nil, ErrTicketTypeNotFound
	}
	return t, nil
}

func (s *service) Quote(ctx context.Context, eventID uuid.UUID, req QuoteRequest) (*QuoteResponse, error) {
	t, err := s.ticketForEvent(ctx, eventID, req.TicketTypeID)
	if err != nil {
		return nil, err
	}

	sel := NewSelection(t)
	sel.SetQuantity(req.Quantity)
	total := sel.TotalPrice()

	return &QuoteResponse{
		TicketTypeID:      t.ID,
		RequestedQuantity: req.Quantity,
		Quantity:          sel.Quantity(),
		UnitPrice:         t.Price,
		TotalPrice:        total,
		Currency:          t.Currency,
		Display:           total.Format(t.Currency),
		Status:            s.inventory.Status(t),
		Available:         t.Available(),
		Purchasable:       s.inventory.IsPurchasable(t),
	}, nil
}

func (s *service) Purchase(ctx context.Context, sess session.Session, eventID uuid.UUID, req PurchaseRequest) (*PurchaseResponse, error) {
	p, err := s.purchase(ctx, sess, eventID, req)
	metrics.TicketPurchases.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	metrics.TicketsSold.Add(float64(p.Quantity))
	s.log.LogTicketPurchase(ctx, p.ID.String(), p.TicketTypeID.String(), sess.UserID.String(), p.Quantity, p.TotalPrice.Format(p.Currency))

	resp := toPurchaseResponse(p)
	return &resp, nil
}

func (s *service) purchase(ctx context.Context, sess session.Session, eventID uuid.UUID, req PurchaseRequest) (*Purchase, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	rules, err := s.events.PurchaseRules(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if rules.MaxTicketsPerPerson > 0 && req.Quantity > rules.MaxTicketsPerPerson {
		return nil, fmt.Errorf("%w of %d", ErrPerPersonLimit, rules.MaxTicketsPerPerson)
	}

	t, err := s.ticketForEvent(ctx, eventID, req.TicketTypeID)
	if err != nil {
		return nil, err
	}
	if err := s.inventory.CheckPurchasable(t); err != nil {
		return nil, err
	}

	if err := s.guard.Reserve(ctx, t.ID, req.Quantity, t.Available()); err != nil {
		return nil, err
	}

	purchase, err := s.repo.Purchase(ctx, t.ID, sess.UserID, func(locked *TicketType, bought int) (*Purchase, error) {
		if err := s.inventory.CheckPurchasable(locked); err != nil {
			return nil, err
		}
		if rules.MaxTicketsPerPerson > 0 && bought+req.Quantity > rules.MaxTicketsPerPerson {
			return nil, fmt.Errorf("%w of %d, already purchased %d", ErrPerPersonLimit, rules.MaxTicketsPerPerson, bought)
		}
		if err := locked.RecordSale(req.Quantity); err != nil {
			return nil, err
		}
		return &Purchase{
			EventID:      locked.EventID,
			TicketTypeID: locked.ID,
			UserID:       sess.UserID,
			Quantity:     req.Quantity,
			UnitPrice:    locked.Price,
			TotalPrice:   locked.Price.Mul(req.Quantity),
			Currency:     locked.Currency,
			Status:       PurchaseConfirmed,
			CreatedAt:    s.clock.Now(),
		}, nil
	})
	if err != nil {
		s.rollbackReservation(ctx, t.ID, req.Quantity, err)
		return nil, err
	}

	if err := s.cache.Delete(ctx,
		constants.BuildTicketsByEventKey(eventID.String()),
		constants.BuildEventDetailKey(eventID.String()),
	); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate ticket cache", "event_id", eventID.String())
	}

	msg := activity.NewMessage(activity.TypeTicketPurchased, sess.UserID, "Tickets purchased",
		fmt.Sprintf("%d x %s for %s", purchase.Quantity, t.Name, rules.Title)).
		ForEvent(eventID).
		With("ticketTypeId", t.ID.String()).
		With("quantity", purchase.Quantity).
		With("total", purchase.TotalPrice.String())
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.WithError(err).Warn("Failed to publish purchase activity", "purchase_id", purchase.ID.String())
	}

	return purchase, nil
}

// rollbackReservation gives the guard back what the failed purchase took. When the
// database itself found the stock short, the counter has drifted and is dropped instead.
// It runs even when the request context is already cancelled.
func (s *service) rollbackReservation(ctx context.Context, ticketTypeID uuid.UUID, n int, cause error) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if errors.Is(cause, ErrInsufficientStock) {
		err = s.guard.Forget(ctx, ticketTypeID)
	} else {
		err = s.guard.Release(ctx, ticketTypeID, n)
	}
	if err != nil {
		s.log.WithError(err).Warn("Failed to restore stock counter", "ticket_type_id", ticketTypeID.String())
	}
}

func (s *service) ListMyPurchases(ctx context.Context, userID uuid.UUID) ([]PurchaseResponse, error) {
	purchases, err := s.repo.ListPurchasesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	result := make([]PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		result = append(result, toPurchaseResponse(&purchases[i]))
	}
	return result, nil
}

func (s *service) SetActive(ctx context.Context, sess session.Session, eventID, ticketTypeID uuid.UUID, active bool) error {
	rules, err := s.events.PurchaseRules(ctx, eventID)
	if err != nil {
		return err
	}
	if rules.OwnerID != sess.UserID && !sess.IsAdmin() {
		return ErrForbidden
	}
	if _, err := s.ticketForEvent(ctx, eventID, ticketTypeID.String()); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, ticketTypeID, active); err != nil {
		return err
	}
	return s.cache.Delete(ctx,
		constants.BuildTicketsByEventKey(eventID.String()),
		constants.BuildEventDetailKey(eventID.String()),
	)
}
