package contributions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrContributionNotFound = errors.New("contribution not found")
	ErrDuplicateCycle       = errors.New("a contribution for this cycle already exists")
	ErrAlreadyPaid          = errors.New("contribution already paid")
)

type Repository interface {
	Create(ctx context.Context, c *Contribution) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contribution, error)
	List(ctx context.Context, f Filter) ([]Contribution, error)

	// MarkPaid locks the row and moves a PENDING or OVERDUE contribution to PAID.
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (*Contribution, error)

	// MarkOverdue moves at most limit PENDING contributions due before now to OVERDUE
	// and returns them. Rows locked by another sweeper are skipped.
	MarkOverdue(ctx context.Context, now time.Time, limit int) ([]Contribution, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Contribution) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}, {Name: "cycle_number"}},
			DoNothing: true,
		}).
		Create(c)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDuplicateCycle
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Contribution, error) {
	var c Contribution
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContributionNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, f Filter) ([]Contribution, error) {
	query := r.db.WithContext(ctx).Model(&Contribution{})
	if f.GroupID != nil {
		query = query.Where("group_id = ?", *f.GroupID)
	}
	if f.UserID != nil {
		query = query.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var out []Contribution
	err := query.Order("due_date DESC, cycle_number DESC").Find(&out).Error
	return out, err
}

func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (*Contribution, error) {
	var c Contribution
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&c).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContributionNotFound
			}
			return err
		}
		if c.Status == StatusPaid {
			return ErrAlreadyPaid
		}

		c.Status = StatusPaid
		c.PaidAt = &paidAt
		return tx.Model(&c).Updates(map[string]interface{}{
			"status":  c.Status,
			"paid_at": paidAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) MarkOverdue(ctx context.Context, now time.Time, limit int) ([]Contribution, error) {
	var due []Contribution
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND due_date < ?", StatusPending, now).
			Order("due_date ASC").
			Limit(limit).
			Find(&due).Error
		if err != nil || len(due) == 0 {
			return err
		}

		ids := make([]uuid.UUID, len(due))
		for i := range due {
			ids[i] = due[i].ID
			due[i].Status = StatusOverdue
		}
		return tx.Model(&Contribution{}).Where("id IN ?", ids).Update("status", StatusOverdue).Error
	})
	if err != nil {
		return nil, err
	}
	return due, nil
}
