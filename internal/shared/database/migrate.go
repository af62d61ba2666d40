package database

import (
	"fmt"

	"gorm.io/gorm"

	"dhukuti/internal/activity"
	"dhukuti/internal/contributions"
	"dhukuti/internal/events"
	"dhukuti/internal/groups"
	"dhukuti/internal/tags"
	"dhukuti/internal/tickets"
	"dhukuti/internal/users"
)

// Models lists every table the API owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&users.User{},
		&groups.Group{},
		&groups.GroupMember{},
		&contributions.Contribution{},
		&activity.Activity{},
		&events.Event{},
		&tags.Tag{},
		&tags.EventTag{},
		&tickets.TicketType{},
		&tickets.Purchase{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
