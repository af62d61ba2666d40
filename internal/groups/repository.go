package groups

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrGroupNotFound = errors.New("group not found")
	ErrGroupFull     = errors.New("group is full")
	ErrAlreadyMember = errors.New("already a member of this group")
	ErrGroupInactive = errors.New("group is not accepting members")
)

const memberCountSelect = "groups.*, (SELECT COUNT(*) FROM group_members m WHERE m.group_id = groups.id AND m.status = 'ACTIVE') AS member_count"

type Repository interface {
	CreateWithOwner(ctx context.Context, group *Group, owner *GroupMember) error
	GetByID(ctx context.Context, id uuid.UUID) (*Group, error)
	ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]Group, int64, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	AddMember(ctx context.Context, member *GroupMember) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithOwner(ctx context.Context, group *Group, owner *GroupMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Create(group).Error; err != nil {
			return err
		}
		owner.GroupID = group.ID
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		group.Members = []GroupMember{*owner}
		group.MemberCount = 1
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Group, error) {
	var group Group
	err := r.db.WithContext(ctx).
		Select(memberCountSelect).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at ASC") }).
		Where("groups.id = ?", id).
		First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]Group, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&Group{}).
		Joins("JOIN group_members gm ON gm.group_id = groups.id").
		Where("gm.user_id = ? AND gm.status = ?", userID, MemberActive)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var groups []Group
	err := base.
		Select(memberCountSelect).
		Order("groups.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&groups).Error
	return groups, total, err
}

func (r *repository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&GroupMember{}).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, MemberActive).
		Count(&count).Error
	return count > 0, err
}

// AddMember locks the group row so concurrent joins cannot push it past MaxMembers.
func (r *repository) AddMember(ctx context.Context, member *GroupMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group Group
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", member.GroupID).
			First(&group).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if !group.IsActive {
			return ErrGroupInactive
		}

		var existing int64
		if err := tx.Model(&GroupMember{}).
			Where("group_id = ? AND user_id = ?", member.GroupID, member.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyMember
		}

		var active int64
		if err := tx.Model(&GroupMember{}).
			Where("group_id = ? AND status = ?", member.GroupID, MemberActive).
			Count(&active).Error; err != nil {
			return err
		}
		if int(active) >= group.MaxMembers {
			return ErrGroupFull
		}

		return tx.Create(member).Error
	})
}
