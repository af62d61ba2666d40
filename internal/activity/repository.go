package activity

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, a *Activity) error
	List(ctx context.Context, q ListQuery) ([]Activity, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts a, ignoring a message that was already recorded.
func (r *repository) Create(ctx context.Context, a *Activity) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "message_id"}}, DoNothing: true}).
		Create(a).Error
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]Activity, error) {
	db := r.db.WithContext(ctx).Model(&Activity{})
	if q.GroupID != nil {
		db = db.Where("group_id = ?", *q.GroupID)
	}
	if q.EventID != nil {
		db = db.Where("event_id = ?", *q.EventID)
	}
	if q.UserID != nil {
		db = db.Where("user_id = ?", *q.UserID)
	}

	var activities []Activity
	err := db.Order("created_at DESC").Limit(q.Limit).Find(&activities).Error
	return activities, err
}
