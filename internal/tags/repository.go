package tags

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("a tag with a similar name already exists")
	ErrInvalidName = errors.New("tag name must contain at least one letter or digit")
)

type Repository interface {
	Create(ctx context.Context, tag *Tag) error
	GetBySlug(ctx context.Context, slug string) (*Tag, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Tag, error)
	GetActive(ctx context.Context) ([]Tag, error)
	GetByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]Tag, error)

	// AttachToEvent upserts the named tags and links them to eventID using tx.
	AttachToEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, names []string) ([]Tag, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tag *Tag) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(tag)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTagExists
	}
	return nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Tag, error) {
	var tag Tag
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Tag, error) {
	var tag Tag
	result := r.db.WithContext(ctx).Model(&Tag{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTagNotFound
	}
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *repository) GetActive(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *repository) GetByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]Tag, error) {
	result := make(map[uuid.UUID][]Tag, len(eventIDs))
	if len(eventIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		Tag
		EventID uuid.UUID
	}
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.*, event_tags.event_id").
		Joins("JOIN event_tags ON event_tags.tag_id = tags.id").
		Where("event_tags.event_id IN ?", eventIDs).
		Order("event_tags.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.EventID] = append(result[row.EventID], row.Tag)
	}
	return result, nil
}

func (r *repository) AttachToEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, names []string) ([]Tag, error) {
	if tx == nil {
		tx = r.db
	}
	tx = tx.WithContext(ctx)

	normalized := Normalize(names)
	tags := make([]Tag, 0, len(normalized))
	for _, n := range normalized {
		tag := Tag{Name: n.Name, Slug: n.Slug, Color: DefaultColor, IsActive: true}
		err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
			Create(&tag).Error
		if err != nil {
			return nil, err
		}
		if err := tx.Where("slug = ?", n.Slug).First(&tag).Error; err != nil {
			return nil, err
		}

		link := EventTag{EventID: eventID, TagID: tag.ID}
		err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
