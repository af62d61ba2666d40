package database

import (
	"fmt"

	"gorm.io/gorm"
)

type checkConstraint struct {
	table string
	name  string
	expr  string
}

// checks keep counters and amounts sane even when a write bypasses the services.
var checks = []checkConstraint{
	{"ticket_types", "chk_ticket_types_sold", "sold >= 0 AND sold <= quantity"},
	{"ticket_types", "chk_ticket_types_price", "price >= 0"},
	{"ticket_purchases", "chk_ticket_purchases_quantity", "quantity > 0"},
	{"groups", "chk_groups_max_members", "max_members >= 2"},
	{"groups", "chk_groups_contribution_amount", "contribution_amount > 0"},
	{"contributions", "chk_contributions_amount", "amount > 0"},
	{"contributions", "chk_contributions_status", "status IN ('PENDING', 'PAID', 'OVERDUE')"},
}

// MigrateConstraints adds the check constraints that are not yet present.
func MigrateConstraints(db *gorm.DB) error {
	for _, c := range checks {
		var count int64
		err := db.Raw(`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`, c.name).Scan(&count).Error
		if err != nil {
			return fmt.Errorf("inspect constraint %s: %w", c.name, err)
		}
		if count > 0 {
			continue
		}
		stmt := fmt.Sprintf(`ALTER TABLE %q ADD CONSTRAINT %q CHECK (%s)`, c.table, c.name, c.expr)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("add constraint %s: %w", c.name, err)
		}
	}
	return nil
}
