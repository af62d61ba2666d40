package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"dhukuti/internal/auth"
	"dhukuti/internal/contributions"
	"dhukuti/internal/events"
	"dhukuti/internal/groups"
	"dhukuti/internal/shared/config"
	"dhukuti/internal/shared/database"
	"dhukuti/internal/shared/money"
	"dhukuti/internal/tags"
	"dhukuti/internal/tickets"
	"dhukuti/internal/users"
	"dhukuti/pkg/cache"
)

// demoPassword is shared by every seeded account.
const demoPassword = "dhukuti123"

type Seeder struct {
	db  *database.DB
	now time.Time
}

func main() {
	fmt.Println("Starting Dhukuti database seeder...")

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db, now: time.Now().UTC()}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Printf("\nSeeding completed. Log in as demo@dhukuti.app / %s\n", demoPassword)
}

// CleanDatabase truncates every table owned by the API.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"ticket_purchases",
		"ticket_types",
		"event_tags",
		"events",
		"tags",
		"activities",
		"contributions",
		"group_members",
		"groups",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return tx.Commit().Error
}

func (s *Seeder) SeedAll(ctx context.Context) error {
	userIDs, err := s.SeedUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	groupID, err := s.SeedGroup(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("failed to seed group: %w", err)
	}

	if err := s.SeedContributions(ctx, groupID, userIDs); err != nil {
		return fmt.Errorf("failed to seed contributions: %w", err)
	}

	if err := s.SeedEvent(ctx, userIDs["admin"]); err != nil {
		return fmt.Errorf("failed to seed event: %w", err)
	}

	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: failed to clear Redis: %v", err)
		}
	}
	return nil
}

// SeedUsers creates an admin, a read-only demo account and three members.
func (s *Seeder) SeedUsers(ctx context.Context) (map[string]uuid.UUID, error) {
	fmt.Println("  Seeding users...")

	hashed, err := auth.HashPassword(demoPassword)
	if err != nil {
		return nil, err
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
		demo      bool
	}{
		{"admin", "Admin", "User", "admin@dhukuti.app", users.RoleAdmin, false},
		{"demo", "Demo", "Visitor", "demo@dhukuti.app", users.RoleUser, true},
		{"sita", "Sita", "Gurung", "sita@dhukuti.app", users.RoleUser, false},
		{"ram", "Ram", "Thapa", "ram@dhukuti.app", users.RoleUser, false},
		{"maya", "Maya", "Rai", "maya@dhukuti.app", users.RoleUser, false},
	}

	repo := users.NewRepository(s.db.PostgreSQL)
	ids := make(map[string]uuid.UUID, len(usersData))
	for _, u := range usersData {
		user := &users.User{
			FirstName: u.firstName,
			LastName:  u.lastName,
			Email:     u.email,
			Password:  hashed,
			Role:      u.role,
			IsDemo:    u.demo,
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", u.email, err)
		}
		ids[u.key] = user.ID
		fmt.Printf("    Created user: %s (%s, demo=%t)\n", user.Email, user.Role, user.IsDemo)
	}
	return ids, nil
}

// SeedGroup creates a monthly group owned by sita, joined by everyone else.
func (s *Seeder) SeedGroup(ctx context.Context, userIDs map[string]uuid.UUID) (uuid.UUID, error) {
	fmt.Println("  Seeding group...")

	start := s.now.AddDate(0, -2, 0).Truncate(24 * time.Hour)
	group := groups.Group{
		Name:               "Sunday Savers",
		Description:        "Neighbourhood dhukuti meeting after Sunday market",
		ContributionAmount: money.FromMajor(200),
		Currency:           money.DefaultCurrency,
		CycleDuration:      30,
		MaxMembers:         10,
		StartDate:          &start,
		IsActive:           true,
		Metadata: groups.Metadata{
			MeetingDay:  "sunday",
			MeetingTime: "19:00",
			Location:    "Community hall, Auburn",
			Rules:       "Contributions due by the meeting day.",
		},
		CreatedBy: userIDs["sita"],
	}

	err := s.db.PostgreSQL.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Create(&group).Error; err != nil {
			return err
		}
		members := []groups.GroupMember{
			{GroupID: group.ID, UserID: userIDs["sita"], Role: groups.RoleOwner, Status: groups.MemberActive, JoinedAt: start},
			{GroupID: group.ID, UserID: userIDs["ram"], Role: groups.RoleMember, Status: groups.MemberActive, JoinedAt: start},
			{GroupID: group.ID, UserID: userIDs["maya"], Role: groups.RoleMember, Status: groups.MemberActive, JoinedAt: start},
			{GroupID: group.ID, UserID: userIDs["demo"], Role: groups.RoleMember, Status: groups.MemberActive, JoinedAt: start},
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return uuid.Nil, err
	}

	fmt.Printf("    Created group: %s (%s)\n", group.Name, group.ID)
	return group.ID, nil
}

// SeedContributions records two cycles: the first paid, the second pending and
// past due so the sweeper has something to mark overdue.
func (s *Seeder) SeedContributions(ctx context.Context, groupID uuid.UUID, userIDs map[string]uuid.UUID) error {
	fmt.Println("  Seeding contributions...")

	repo := contributions.NewRepository(s.db.PostgreSQL)
	amount := money.FromMajor(200)
	firstDue := s.now.AddDate(0, -1, -15)
	secondDue := s.now.AddDate(0, 0, -3)

	for _, key := range []string{"sita", "ram", "maya", "demo"} {
		paidAt := firstDue.Add(-24 * time.Hour)
		rows := []contributions.Contribution{
			{GroupID: groupID, UserID: userIDs[key], CycleNumber: 1, Amount: amount, Currency: money.DefaultCurrency, DueDate: firstDue, PaidAt: &paidAt, Status: contributions.StatusPaid},
			{GroupID: groupID, UserID: userIDs[key], CycleNumber: 2, Amount: amount, Currency: money.DefaultCurrency, DueDate: secondDue, Status: contributions.StatusPending},
		}
		for i := range rows {
			if err := repo.Create(ctx, &rows[i]); err != nil {
				return fmt.Errorf("failed to create contribution for %s: %w", key, err)
			}
		}
	}
	fmt.Println("    Created 8 contributions")
	return nil
}

// SeedEvent creates one upcoming community event with three ticket tiers.
func (s *Seeder) SeedEvent(ctx context.Context, adminID uuid.UUID) error {
	fmt.Println("  Seeding event...")

	tagService := tags.NewService(tags.NewRepository(s.db.PostgreSQL), cache.NewService(nil))
	repo := events.NewRepository(s.db.PostgreSQL, tagService)

	startsAt := s.now.AddDate(0, 1, 0).Truncate(24 * time.Hour).Add(18 * time.Hour)
	saleEnd := startsAt.Add(-time.Hour)
	tier := func(name string, price float64, quantity int, benefits ...string) tickets.TicketType {
		return tickets.TicketType{
			Name:          name,
			Price:         money.FromMajor(price),
			Currency:      money.DefaultCurrency,
			Quantity:      quantity,
			Benefits:      benefits,
			IsActive:      true,
			SaleStartDate: s.now,
			SaleEndDate:   saleEnd,
		}
	}

	event := &events.Event{
		Title:       "Dashain Community Night",
		Category:    events.CategoryCultural,
		Description: "Food, music and dance to celebrate Dashain together.",
		StartsAt:    startsAt,
		Location:    "Auburn, NSW",
		Venue:       "Auburn Town Hall",
		Capacity:    300,
		Currency:    money.DefaultCurrency,
		Marketing:   events.Marketing{SocialSharing: true, EmailMarketing: true, FeaturedEvent: true},
		Settings: events.Settings{
			MaxTicketsPerPerson: 6,
			RefundPolicy:        events.Refund7Days,
			ContactEmail:        "events@dhukuti.app",
		},
		CreatedBy: adminID,
		TicketTypes: []tickets.TicketType{
			tier("General Admission", 25, 200),
			tier("Family Pass", 80, 60, "Entry for four", "Reserved table"),
			tier("VIP", 120, 40, "Front seating", "Dinner included"),
		},
	}

	if err := repo.Create(ctx, event, []string{"Festival", "Music", "Food"}); err != nil {
		return err
	}
	fmt.Printf("    Created event: %s with %d ticket types and %d tags\n", event.Title, len(event.TicketTypes), len(event.Tags))
	return nil
}
