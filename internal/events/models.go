package events

import (
	"time"

	"github.com/google/uuid"

	"dhukuti/internal/tags"
	"dhukuti/internal/tickets"
)

type Category string

const (
	CategoryConcert     Category = "concert"
	CategoryWorkshop    Category = "workshop"
	CategoryMeeting     Category = "meeting"
	CategoryCelebration Category = "celebration"
	CategorySports      Category = "sports"
	CategoryCultural    Category = "cultural"
	CategoryCommunity   Category = "community"
	CategoryEducational Category = "educational"
)

var Categories = []Category{
	CategoryConcert, CategoryWorkshop, CategoryMeeting, CategoryCelebration,
	CategorySports, CategoryCultural, CategoryCommunity, CategoryEducational,
}

type RefundPolicy string

const (
	RefundNone    RefundPolicy = "no_refunds"
	Refund24Hours RefundPolicy = "24_hours"
	Refund7Days   RefundPolicy = "7_days"
	RefundFull    RefundPolicy = "full_refund"
)

type Marketing struct {
	SocialSharing     bool   `json:"socialSharing"`
	EmailMarketing    bool   `json:"emailMarketing"`
	FeaturedEvent     bool   `json:"featuredEvent"`
	PromotionalCode   string `json:"promotionalCode"`
	EarlyBirdDiscount string `json:"earlyBirdDiscount"`
	ReferralReward    string `json:"referralReward"`
	CustomMessage     string `json:"customMessage"`
}

type Settings struct {
	AllowWaitlist       bool         `json:"allowWaitlist"`
	RequireApproval     bool         `json:"requireApproval"`
	MaxTicketsPerPerson int          `json:"maxTicketsPerPerson" binding:"omitempty,min=1" validate:"gte=1"`
	RefundPolicy        RefundPolicy `json:"refundPolicy" binding:"omitempty,oneof=no_refunds 24_hours 7_days full_refund" validate:"oneof=no_refunds 24_hours 7_days full_refund"`
	TermsConditions     string       `json:"termsConditions"`
	ContactEmail        string       `json:"contactEmail" binding:"required,email" validate:"required,email"`
	ContactPhone        string       `json:"contactPhone"`
}

// Event is a ticketed gathering organized by a user.
type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:200"`
	Category    Category  `json:"category" gorm:"not null;size:30;index"`
	Description string    `json:"description" gorm:"type:text"`
	ImageURL    string    `json:"imageUrl" gorm:"size:500"`
	StartsAt    time.Time `json:"startsAt" gorm:"not null;index"`
	Location    string    `json:"location" gorm:"not null"`
	Venue       string    `json:"venue"`
	Capacity    int       `json:"capacity" gorm:"not null"`
	Currency    string    `json:"currency" gorm:"size:3;not null"`
	Marketing   Marketing `json:"marketing" gorm:"serializer:json"`
	Settings    Settings  `json:"settings" gorm:"serializer:json"`
	CreatedBy   uuid.UUID `json:"createdBy" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	TicketTypes []tickets.TicketType `json:"ticketTypes,omitempty" gorm:"foreignKey:EventID"`
	Tags        []tags.TagResponse   `json:"tags" gorm:"-"`
	Status      Status               `json:"status" gorm:"-"`
}

func (Event) TableName() string {
	return "events"
}
