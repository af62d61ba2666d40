package analytics

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	return s.repo.GetDashboardStats(ctx, userID)
}

func (s *service) GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	stats, err := s.repo.GetDashboardStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	short := stats.UserStats()
	return &short, nil
}
