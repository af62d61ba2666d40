package groups

import (
	"time"

	"github.com/google/uuid"

	"dhukuti/internal/shared/money"
)

type MemberRole string

const (
	RoleOwner  MemberRole = "OWNER"
	RoleAdmin  MemberRole = "ADMIN"
	RoleMember MemberRole = "MEMBER"
)

type MemberStatus string

const (
	MemberActive    MemberStatus = "ACTIVE"
	MemberInactive  MemberStatus = "INACTIVE"
	MemberSuspended MemberStatus = "SUSPENDED"
)

// Metadata holds the meeting details collected by the group wizard.
type Metadata struct {
	MeetingDay  string `json:"meetingDay,omitempty"`
	MeetingTime string `json:"meetingTime,omitempty"`
	Location    string `json:"location,omitempty"`
	Rules       string `json:"rules,omitempty"`
	IsPrivate   bool   `json:"isPrivate"`
}

// Group is a rotating savings group. Every cycle each member contributes
// ContributionAmount and one member receives the pot.
type Group struct {
	ID                 uuid.UUID     `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name               string        `json:"name" gorm:"not null"`
	Description        string        `json:"description"`
	ContributionAmount money.Amount  `json:"contributionAmount" gorm:"type:bigint;not null"`
	Currency           string        `json:"currency" gorm:"size:3;not null"`
	CycleDuration      int           `json:"cycleDuration" gorm:"not null"`
	MaxMembers         int           `json:"maxMembers" gorm:"not null"`
	StartDate          *time.Time    `json:"startDate"`
	IsActive           bool          `json:"isActive" gorm:"not null"`
	Metadata           Metadata      `json:"metadata" gorm:"serializer:json"`
	CreatedBy          uuid.UUID     `json:"createdBy" gorm:"type:uuid;not null;index"`
	Members            []GroupMember `json:"members,omitempty" gorm:"foreignKey:GroupID"`
	MemberCount        int64         `json:"memberCount" gorm:"->;-:migration"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

func (Group) TableName() string {
	return "groups"
}

type GroupMember struct {
	ID       uuid.UUID    `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	GroupID  uuid.UUID    `json:"groupId" gorm:"type:uuid;not null;uniqueIndex:idx_group_member"`
	UserID   uuid.UUID    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_group_member;index"`
	Role     MemberRole   `json:"role" gorm:"not null"`
	Status   MemberStatus `json:"status" gorm:"not null"`
	JoinedAt time.Time    `json:"joinedAt"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
