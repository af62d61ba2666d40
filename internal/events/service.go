package events

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"dhukuti/internal/activity"
	"dhukuti/internal/shared/clock"
	"dhukuti/internal/shared/constants"
	"dhukuti/internal/shared/money"
	"dhukuti/internal/shared/session"
	"dhukuti/internal/tags"
	"dhukuti/internal/tickets"
	"dhukuti/internal/wizard"
	"dhukuti/pkg/cache"
	"dhukuti/pkg/logger"
)

var (
	ErrInvalidSchedule  = errors.New("invalid event date or time")
	ErrEventInPast      = errors.New("event date must be in the future")
	ErrCapacityExceeded = errors.New("total ticket quantity exceeds event capacity")
)

// TagReader loads the tags of a batch of events.
type TagReader interface {
	GetTagsByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]tags.TagResponse, error)
}

type Service interface {
	Create(ctx context.Context, s session.Session, req CreateEventRequest) (*Event, error)
	List(ctx context.Context, q ListEventsQuery) (*EventListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*Event, error)

	// PurchaseRules exposes the limits ticket purchases must respect.
	PurchaseRules(ctx context.Context, eventID uuid.UUID) (*tickets.EventRules, error)

	// Submitter creates events from completed wizard forms on behalf of s.
	Submitter(s session.Session) wizard.Submitter[FormData]
}

type service struct {
	repo      Repository
	tags      TagReader
	cache     cache.Service
	publisher activity.Publisher
	clock     clock.Clock
	location  *time.Location
	log       *logger.Logger
}

func NewService(repo Repository, tagReader TagReader, cacheService cache.Service, publisher activity.Publisher, clk clock.Clock) Service {
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	if publisher == nil {
		publisher = activity.NopPublisher{}
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &service{
		repo:      repo,
		tags:      tagReader,
		cache:     cacheService,
		publisher: publisher,
		clock:     clk,
		location:  time.UTC,
		log:       logger.GetDefault(),
	}
}

func (s *service) Create(ctx context.Context, sess session.Session, req CreateEventRequest) (*Event, error) {
	now := s.clock.Now()
	startsAt, err := req.StartsAt(s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	if !startsAt.After(now) {
		return nil, ErrEventInPast
	}

	total := 0
	for _, t := range req.TicketTypes {
		total += t.Quantity
	}
	if total > req.Capacity {
		return nil, fmt.Errorf("%w: %d tickets for %d places", ErrCapacityExceeded, total, req.Capacity)
	}

	currency := req.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}
	settings := req.Settings
	if settings.MaxTicketsPerPerson < 1 {
		settings.MaxTicketsPerPerson = 1
	}
	if settings.RefundPolicy == "" {
		settings.RefundPolicy = RefundNone
	}

	event := &Event{
		Title:       strings.TrimSpace(req.Title),
		Category:    req.Category,
		Description: strings.TrimSpace(req.Description),
		ImageURL:    req.ImageURL,
		StartsAt:    startsAt,
		Location:    strings.TrimSpace(req.Location),
		Venue:       strings.TrimSpace(req.Venue),
		Capacity:    req.Capacity,
		Currency:    currency,
		Marketing:   req.Marketing,
		Settings:    settings,
		CreatedBy:   sess.UserID,
		TicketTypes: ticketTypesFrom(req.TicketTypes, currency, now, startsAt),
	}

	if err := s.repo.Create(ctx, event, wizard.Tags(req.Tags).Normalize()); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	event.Status = DeriveStatus(event.StartsAt, now)
	if event.Tags == nil {
		event.Tags = []tags.TagResponse{}
	}

	if err := s.cache.DeletePattern(ctx, constants.BuildEventListPattern()); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate event list cache")
	}
	s.log.LogEventCreated(ctx, event.ID.String(), sess.UserID.String(), len(event.TicketTypes))

	msg := activity.NewMessage(activity.TypeEventCreated, sess.UserID,
		fmt.Sprintf("New event %q", event.Title),
		fmt.Sprintf("%s on %s at %s", event.Title, event.StartsAt.Format(dateLayout), event.Venue)).
		ForEvent(event.ID).
		With("category", string(event.Category)).
		With("startsAt", event.StartsAt.Format(time.RFC3339))
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.WithError(err).Warn("Failed to publish activity", "type", string(msg.Type))
	}

	return event, nil
}

// ticketTypesFrom converts request inputs into ticket types on sale from saleStart until
// saleEnd unless the input carries its own dates.
func ticketTypesFrom(inputs []TicketTypeInput, currency string, saleStart, saleEnd time.Time) []tickets.TicketType {
	out := make([]tickets.TicketType, 0, len(inputs))
	for _, in := range inputs {
		start, end := saleStart, saleEnd
		if in.SaleStartDate != nil {
			start = *in.SaleStartDate
		}
		if in.SaleEndDate != nil {
			end = *in.SaleEndDate
		}
		benefits := append([]string{}, in.Benefits...)
		out = append(out, tickets.TicketType{
			Name:          strings.TrimSpace(in.Name),
			Description:   in.Description,
			Price:         in.Price,
			Currency:      currency,
			Quantity:      in.Quantity,
			Benefits:      benefits,
			IsActive:      true,
			SaleStartDate: start,
			SaleEndDate:   end,
		})
	}
	return out
}

func (s *service) List(ctx context.Context, q ListEventsQuery) (*EventListResponse, error) {
	page, limit := constants.ClampPage(q.Page, q.Limit)
	category := strings.ToLower(strings.TrimSpace(q.Category))

	var resp EventListResponse
	err := s.cache.GetOrSet(ctx, constants.BuildEventListKey(page, limit, category), constants.TTL_EVENT_LIST,
		func() (interface{}, error) {
			events, total, err := s.repo.List(ctx, page, limit, category)
			if err != nil {
				return nil, err
			}
			if events == nil {
				events = []Event{}
			}
			if err := s.attachTags(ctx, events); err != nil {
				return nil, err
			}
			return &EventListResponse{
				Events:     events,
				TotalCount: total,
				Page:       page,
				Limit:      limit,
				TotalPages: int(math.Ceil(float64(total) / float64(limit))),
			}, nil
		}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	now := s.clock.Now()
	for i := range resp.Events {
		resp.Events[i].Status = DeriveStatus(resp.Events[i].StartsAt, now)
	}
	return &resp, nil
}

// Get caches the stored event and derives its status on every read.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := s.cache.GetOrSet(ctx, constants.BuildEventDetailKey(id.String()), constants.TTL_EVENT_DETAIL,
		func() (interface{}, error) {
			e, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			one := []Event{*e}
			if err := s.attachTags(ctx, one); err != nil {
				return nil, err
			}
			return &one[0], nil
		}, &event)
	if err != nil {
		return nil, err
	}
	event.Status = DeriveStatus(event.StartsAt, s.clock.Now())
	return &event, nil
}

func (s *service) attachTags(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	byEvent, err := s.tags.GetTagsByEventIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load event tags: %w", err)
	}
	for i := range events {
		events[i].Tags = byEvent[events[i].ID]
		if events[i].Tags == nil {
			events[i].Tags = []tags.TagResponse{}
		}
	}
	return nil
}

func (s *service) PurchaseRules(ctx context.Context, eventID uuid.UUID) (*tickets.EventRules, error) {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return nil, tickets.ErrEventNotFound
		}
		return nil, err
	}
	return &tickets.EventRules{
		EventID:             event.ID,
		OwnerID:             event.CreatedBy,
		Title:               event.Title,
		MaxTicketsPerPerson: event.Settings.MaxTicketsPerPerson,
	}, nil
}

func (s *service) Submitter(sess session.Session) wizard.Submitter[FormData] {
	return wizard.SubmitFunc[FormData](func(ctx context.Context, form FormData) (wizard.Result, error) {
		event, err := s.Create(ctx, sess, ToCreateRequest(form))
		if err != nil {
			return wizard.Result{}, submissionError(err)
		}
		return wizard.Result{
			ID:       event.ID.String(),
			Redirect: "/events/" + event.ID.String(),
			Data:     event,
		}, nil
	})
}

// submissionError lets business rule violations reach the user verbatim.
func submissionError(err error) error {
	for _, rule := range []error{ErrInvalidSchedule, ErrEventInPast, ErrCapacityExceeded} {
		if errors.Is(err, rule) {
			return wizard.NewUserError(rule.Error(), err)
		}
	}
	return err
}
