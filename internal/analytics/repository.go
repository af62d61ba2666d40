package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dhukuti/internal/contributions"
)

type Repository interface {
	GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// groupTotalsQuery counts groups the user created or belongs to.
func groupTotalsQuery(tx *gorm.DB, userID uuid.UUID, dest *groupTotals) *gorm.DB {
	members := tx.Session(&gorm.Session{NewDB: true}).
		Table("group_members").
		Select("group_id").
		Where("user_id = ?", userID)

	return tx.Table("groups").
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE is_active = ?) AS active", true).
		Where("created_by = ? OR id IN (?)", userID, members).
		Find(dest)
}

func contributionTotalsQuery(tx *gorm.DB, userID uuid.UUID, dest *contributionTotals) *gorm.DB {
	return tx.Table("contributions").
		Select("COUNT(*) FILTER (WHERE status = ?) AS paid, "+
			"COUNT(*) FILTER (WHERE status = ?) AS pending, "+
			"COALESCE(SUM(amount) FILTER (WHERE status = ?), 0)::bigint AS balance",
			contributions.StatusPaid, contributions.StatusPending, contributions.StatusPaid).
		Where("user_id = ?", userID).
		Find(dest)
}

func (r *repository) GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	db := r.db.WithContext(ctx)

	var groups groupTotals
	if err := groupTotalsQuery(db, userID, &groups).Error; err != nil {
		return nil, fmt.Errorf("failed to count groups: %w", err)
	}

	var totals contributionTotals
	if err := contributionTotalsQuery(db, userID, &totals).Error; err != nil {
		return nil, fmt.Errorf("failed to total contributions: %w", err)
	}

	return &DashboardStats{
		TotalGroups:          groups.Total,
		ActiveGroups:         groups.Active,
		TotalContributions:   totals.Paid,
		PendingContributions: totals.Pending,
		Balance:              totals.Balance,
	}, nil
}
