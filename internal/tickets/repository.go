package tickets

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseFunc validates and applies a sale to a locked ticket type. bought is how many
// tickets of the same event the buyer already holds.
type PurchaseFunc func(t *TicketType, bought int) (*Purchase, error)

type Repository interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketType, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TicketType, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// Purchase locks the ticket type row and the buyer's purchases of its event, applies
	// fn, then persists the new sold count and the purchase in one transaction.
	Purchase(ctx context.Context, ticketTypeID, userID uuid.UUID, fn PurchaseFunc) (*Purchase, error)
	ListPurchasesByUser(ctx context.Context, userID uuid.UUID) ([]Purchase, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketType, error) {
	var types []TicketType
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("price ASC, name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*TicketType, error) {
	var t TicketType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).Model(&TicketType{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketTypeNotFound
	}
	return nil
}

func (r *repository) Purchase(ctx context.Context, ticketTypeID, userID uuid.UUID, fn PurchaseFunc) (*Purchase, error) {
	var purchase *Purchase
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t TicketType
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ticketTypeID).
			First(&t).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketTypeNotFound
			}
			return err
		}

		if err := lockBuyer(tx, userID, t.EventID).Error; err != nil {
			return err
		}

		var bought int64
		err = tx.Model(&Purchase{}).
			Select("COALESCE(SUM(quantity), 0)").
			Where("user_id = ? AND event_id = ? AND status = ?", userID, t.EventID, PurchaseConfirmed).
			Scan(&bought).Error
		if err != nil {
			return err
		}

		p, err := fn(&t, int(bought))
		if err != nil {
			return err
		}

		if err := tx.Model(&TicketType{}).Where("id = ?", t.ID).Update("sold", t.Sold).Error; err != nil {
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		purchase = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// buyerLockKey names the purchases of one buyer for one event.
func buyerLockKey(userID, eventID uuid.UUID) string {
	return "ticket-buyer:" + eventID.String() + ":" + userID.String()
}

// lockBuyer takes a transaction-scoped advisory lock on buyerLockKey. Purchases of
// different tiers by the same buyer wait on it, so each sees the others' quantities.
func lockBuyer(tx *gorm.DB, userID, eventID uuid.UUID) *gorm.DB {
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", buyerLockKey(userID, eventID))
}

func (r *repository) ListPurchasesByUser(ctx context.Context, userID uuid.UUID) ([]Purchase, error) {
	var purchases []Purchase
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}
