package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhukuti/internal/activity"
	"dhukuti/internal/shared/clock"
	"dhukuti/internal/shared/money"
	"dhukuti/internal/shared/session"
	"dhukuti/internal/tags"
	"dhukuti/internal/tickets"
	"dhukuti/internal/wizard"
)

type memRepository struct {
	mu     sync.Mutex
	events map[uuid.UUID]*Event
	tags   map[uuid.UUID][]tags.TagResponse
	err    error
}

func newMemRepository() *memRepository {
	return &memRepository{events: map[uuid.UUID]*Event{}, tags: map[uuid.UUID][]tags.TagResponse{}}
}

func (r *memRepository) Create(_ context.Context, event *Event, tagNames []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	event.ID = uuid.New()
	for i := range event.TicketTypes {
		event.TicketTypes[i].ID = uuid.New()
		event.TicketTypes[i].EventID = event.ID
	}
	attached := []tags.TagResponse{}
	for _, n := range tags.Normalize(tagNames) {
		attached = append(attached, tags.TagResponse{Name: n.Name, Slug: n.Slug})
	}
	event.Tags = attached
	r.tags[event.ID] = attached
	stored := *event
	r.events[event.ID] = &stored
	return nil
}

func (r *memRepository) GetByID(_ context.Context, id uuid.UUID) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	cp := *e
	cp.Tags = nil
	return &cp, nil
}

func (r *memRepository) List(_ context.Context, page, limit int, category string) ([]Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if category == "" || string(e.Category) == category {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memRepository) GetTagsByEventIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]tags.TagResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[uuid.UUID][]tags.TagResponse{}
	for _, id := range ids {
		if t, ok := r.tags[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

type capturePublisher struct {
	msgs []activity.Message
}

func (p *capturePublisher) Publish(_ context.Context, msg activity.Message) error {
	p.msgs = append(p.msgs, msg)
	return nil
}

var now = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func newTestService() (Service, *memRepository, *capturePublisher) {
	repo := newMemRepository()
	pub := &capturePublisher{}
	return NewService(repo, repo, nil, pub, clock.NewFixed(now)), repo, pub
}

var organizer = session.Session{UserID: uuid.New(), Email: "organizer@dhukuti.app", Role: session.RoleUser}

func TestCreate_PersistsEventWithTicketsAndTags(t *testing.T) {
	svc, _, pub := newTestService()

	req := ToCreateRequest(validForm())
	req.Tags = []string{"Music", "music", "Food"}
	req.Settings.MaxTicketsPerPerson = 0
	req.Settings.RefundPolicy = ""
	req.Currency = ""

	event, err := svc.Create(context.Background(), organizer, req)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 11, 20, 18, 30, 0, 0, time.UTC), event.StartsAt)
	assert.Equal(t, StatusUpcoming, event.Status)
	assert.Equal(t, "AUD", event.Currency)
	assert.Equal(t, 1, event.Settings.MaxTicketsPerPerson)
	assert.Equal(t, RefundNone, event.Settings.RefundPolicy)
	assert.Equal(t, organizer.UserID, event.CreatedBy)
	require.Len(t, event.Tags, 2)
	assert.Equal(t, "Music", event.Tags[0].Name)
	assert.Equal(t, "music", event.Tags[0].Slug)
	assert.Equal(t, "food", event.Tags[1].Slug)

	require.Len(t, event.TicketTypes, 2)
	vip := event.TicketTypes[1]
	assert.Equal(t, event.ID, vip.EventID)
	assert.Equal(t, money.FromMajor(90), vip.Price)
	assert.Equal(t, "AUD", vip.Currency)
	assert.True(t, vip.IsActive)
	assert.Equal(t, now, vip.SaleStartDate)
	assert.Equal(t, event.StartsAt, vip.SaleEndDate)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, activity.TypeEventCreated, pub.msgs[0].Type)
	require.NotNil(t, pub.msgs[0].EventID)
	assert.Equal(t, event.ID, *pub.msgs[0].EventID)
}

func TestCreate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *CreateEventRequest)
		want   error
	}{
		{"past date", func(r *CreateEventRequest) { r.Date = "2026-09-30" }, ErrEventInPast},
		{"unparsable time", func(r *CreateEventRequest) { r.Time = "25:99" }, ErrInvalidSchedule},
		{"over capacity", func(r *CreateEventRequest) { r.Capacity = 50 }, ErrCapacityExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, pub := newTestService()
			req := ToCreateRequest(validForm())
			tt.modify(&req)
			_, err := svc.Create(context.Background(), organizer, req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, pub.msgs)
		})
	}
}

func TestGet_AttachesTagsAndStatus(t *testing.T) {
	svc, _, _ := newTestService()
	created, err := svc.Create(context.Background(), organizer, ToCreateRequest(validForm()))
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.NotNil(t, got.Tags)
	assert.Equal(t, StatusUpcoming, got.Status)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), organizer, ToCreateRequest(validForm()))
	require.NoError(t, err)

	resp, err := svc.List(context.Background(), ListEventsQuery{Page: 0, Limit: 500, Category: "Cultural"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 100, resp.Limit)
	assert.EqualValues(t, 1, resp.TotalCount)
	assert.Equal(t, 1, resp.TotalPages)

	resp, err = svc.List(context.Background(), ListEventsQuery{Category: "sports"})
	require.NoError(t, err)
	assert.Empty(t, resp.Events)
	assert.NotNil(t, resp.Events)
}

func TestPurchaseRules(t *testing.T) {
	svc, _, _ := newTestService()
	req := ToCreateRequest(validForm())
	req.Settings.MaxTicketsPerPerson = 4
	event, err := svc.Create(context.Background(), organizer, req)
	require.NoError(t, err)

	rules, err := svc.PurchaseRules(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, &tickets.EventRules{
		EventID:             event.ID,
		OwnerID:             organizer.UserID,
		Title:               "Dashain Night",
		MaxTicketsPerPerson: 4,
	}, rules)

	_, err = svc.PurchaseRules(context.Background(), uuid.New())
	assert.ErrorIs(t, err, tickets.ErrEventNotFound)
}

func TestSubmitter_SurfacesRuleViolations(t *testing.T) {
	svc, repo, _ := newTestService()

	form := validForm()
	form.Capacity = 10
	w, err := wizard.New(Definition(), form, svc.Submitter(organizer))
	require.NoError(t, err)

	_, err = w.Submit(context.Background())
	var failure *wizard.SubmissionError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, ErrCapacityExceeded.Error(), failure.Message)

	require.NoError(t, w.UpdateField("capacity", 200))
	repo.err = errors.New("connection refused")
	_, err = w.Submit(context.Background())
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "Failed to create event", failure.Message)

	repo.err = nil
	res, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/events/"+res.ID, res.Redirect)
	assert.Equal(t, wizard.PhaseCompleted, w.Phase())
}

func TestDeriveStatus(t *testing.T) {
	start := time.Date(2026, 11, 20, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, StatusUpcoming, DeriveStatus(start, start.Add(-time.Minute)))
	assert.Equal(t, StatusActive, DeriveStatus(start, start))
	assert.Equal(t, StatusActive, DeriveStatus(start, start.Add(23*time.Hour)))
	assert.Equal(t, StatusEnded, DeriveStatus(start, start.Add(24*time.Hour)))
}
