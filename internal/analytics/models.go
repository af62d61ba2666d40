package analytics

import "dhukuti/internal/shared/money"

// DashboardStats summarises one user's savings activity.
type DashboardStats struct {
	TotalGroups          int64        `json:"totalGroups"`
	ActiveGroups         int64        `json:"activeGroups"`
	TotalContributions   int64        `json:"totalContributions"`
	PendingContributions int64        `json:"pendingContributions"`
	Balance              money.Amount `json:"balance"`
}

// UserStats is the short form shown on the profile page.
type UserStats struct {
	Groups        int64        `json:"groups"`
	Contributions int64        `json:"contributions"`
	Balance       money.Amount `json:"balance"`
}

func (d *DashboardStats) UserStats() UserStats {
	return UserStats{
		Groups:        d.TotalGroups,
		Contributions: d.TotalContributions,
		Balance:       d.Balance,
	}
}

type groupTotals struct {
	Total  int64
	Active int64
}

type contributionTotals struct {
	Paid    int64
	Pending int64
	Balance money.Amount
}
