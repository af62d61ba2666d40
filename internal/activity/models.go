package activity

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeGroupCreated        Type = "GROUP_CREATED"
	TypeMemberJoined        Type = "MEMBER_JOINED"
	TypeContributionPaid    Type = "CONTRIBUTION_PAID"
	TypeContributionOverdue Type = "CONTRIBUTION_OVERDUE"
	TypeEventCreated        Type = "EVENT_CREATED"
	TypeTicketPurchased     Type = "TICKET_PURCHASED"
)

// Activity is one entry of the feed.
type Activity struct {
	ID          uuid.UUID              `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	MessageID   uuid.UUID              `json:"-" gorm:"type:uuid;uniqueIndex;not null"`
	Type        Type                   `json:"type" gorm:"not null;index"`
	UserID      uuid.UUID              `json:"userId" gorm:"type:uuid;not null;index"`
	GroupID     *uuid.UUID             `json:"groupId,omitempty" gorm:"type:uuid;index"`
	EventID     *uuid.UUID             `json:"eventId,omitempty" gorm:"type:uuid;index"`
	Title       string                 `json:"title" gorm:"not null"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time              `json:"createdAt" gorm:"index"`
}

func (Activity) TableName() string {
	return "activities"
}

// Message is what domain services publish. The ID makes redelivery idempotent.
type Message struct {
	ID          uuid.UUID              `json:"id"`
	Type        Type                   `json:"type"`
	UserID      uuid.UUID              `json:"userId"`
	GroupID     *uuid.UUID             `json:"groupId,omitempty"`
	EventID     *uuid.UUID             `json:"eventId,omitempty"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt  time.Time              `json:"occurredAt"`
}

func NewMessage(t Type, userID uuid.UUID, title, description string) Message {
	return Message{
		ID:          uuid.New(),
		Type:        t,
		UserID:      userID,
		Title:       title,
		Description: description,
		OccurredAt:  time.Now().UTC(),
	}
}

func (m Message) ForGroup(groupID uuid.UUID) Message {
	m.GroupID = &groupID
	return m
}

func (m Message) ForEvent(eventID uuid.UUID) Message {
	m.EventID = &eventID
	return m
}

func (m Message) With(key string, value interface{}) Message {
	meta := make(map[string]interface{}, len(m.Metadata)+1)
	for k, v := range m.Metadata {
		meta[k] = v
	}
	meta[key] = value
	m.Metadata = meta
	return m
}

// PartitionKey keeps a group's or event's activities in order on one partition.
func (m Message) PartitionKey() string {
	switch {
	case m.GroupID != nil:
		return m.GroupID.String()
	case m.EventID != nil:
		return m.EventID.String()
	default:
		return m.UserID.String()
	}
}

func (m Message) ToActivity() Activity {
	return Activity{
		MessageID:   m.ID,
		Type:        m.Type,
		UserID:      m.UserID,
		GroupID:     m.GroupID,
		EventID:     m.EventID,
		Title:       m.Title,
		Description: m.Description,
		Metadata:    m.Metadata,
		CreatedAt:   m.OccurredAt,
	}
}

// ListQuery filters the feed. Zero values mean no filter.
type ListQuery struct {
	GroupID *uuid.UUID
	EventID *uuid.UUID
	UserID  *uuid.UUID
	Limit   int
}

type FeedRequest struct {
	GroupID string `form:"groupId" binding:"omitempty,uuid"`
	EventID string `form:"eventId" binding:"omitempty,uuid"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
