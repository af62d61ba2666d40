package tags

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a label shared across events. Slug is the identity; Name keeps the first spelling seen.
type Tag struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string     `json:"name" gorm:"not null;size:50"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;not null;size:100"`
	Description string     `json:"description" gorm:"size:500"`
	Color       string     `json:"color" gorm:"size:7;not null"`
	IsActive    bool       `json:"isActive" gorm:"not null"`
	CreatedBy   *uuid.UUID `json:"createdBy,omitempty" gorm:"type:uuid"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}

// EventTag links an event to a tag.
type EventTag struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID   uuid.UUID `json:"eventId" gorm:"type:uuid;not null;index;uniqueIndex:idx_event_tag_unique"`
	TagID     uuid.UUID `json:"tagId" gorm:"type:uuid;not null;index;uniqueIndex:idx_event_tag_unique"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (Tag) TableName() string {
	return "tags"
}

func (EventTag) TableName() string {
	return "event_tags"
}

func (t *Tag) ToResponse() TagResponse {
	return TagResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		Color:       t.Color,
		IsActive:    t.IsActive,
	}
}
