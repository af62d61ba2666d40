package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dhukuti/internal/tags"
)

var ErrEventNotFound = errors.New("event not found")

// TagAttacher links tags to an event inside the caller's transaction.
type TagAttacher interface {
	AttachToEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, names []string) ([]tags.TagResponse, error)
}

type Repository interface {
	// Create stores the event, its ticket types and its tags in one transaction.
	Create(ctx context.Context, event *Event, tagNames []string) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	List(ctx context.Context, page, limit int, category string) ([]Event, int64, error)
}

type repository struct {
	db   *gorm.DB
	tags TagAttacher
}

func NewRepository(db *gorm.DB, tagAttacher TagAttacher) Repository {
	return &repository{db: db, tags: tagAttacher}
}

func (r *repository) Create(ctx context.Context, event *Event, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticketTypes := event.TicketTypes
		if err := tx.Omit(clause.Associations).Create(event).Error; err != nil {
			return err
		}

		for i := range ticketTypes {
			ticketTypes[i].EventID = event.ID
		}
		if len(ticketTypes) > 0 {
			if err := tx.Create(&ticketTypes).Error; err != nil {
				return err
			}
		}
		event.TicketTypes = ticketTypes

		attached, err := r.tags.AttachToEvent(ctx, tx, event.ID, tagNames)
		if err != nil {
			return err
		}
		event.Tags = attached
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Preload("TicketTypes", func(db *gorm.DB) *gorm.DB { return db.Order("price ASC, name ASC") }).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) List(ctx context.Context, page, limit int, category string) ([]Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&Event{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []Event
	err := query.
		Order("starts_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error
	return events, total, err
}
