package deals

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-pricing/internal/repo"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const liveWindow = "start_date <= ? AND end_date >= ?"

// Repository reads and maintains campaign deals.
type Repository struct {
	repo.Base
}

// NewRepository constructs a deals repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListActive returns deals whose window contains now, highest priority first.
// Activity is derived from the window at read time, so results never depend on
// how recently the activation sweep ran.
func (r *Repository) ListActive(ctx context.Context, now time.Time) ([]models.Deal, error) {
	var rows []models.Deal
	err := r.DB(ctx).
		Where(liveWindow, now, now).
		Order("priority DESC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active deals")
	}
	return rows, nil
}

// Create inserts a deal after checking its window and discount type.
func (r *Repository) Create(ctx context.Context, deal *models.Deal) error {
	if deal == nil {
		return fmt.Errorf("deal required")
	}
	if !deal.DiscountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid deal discount type")
	}
	if !deal.StartDate.Before(deal.EndDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "deal start date must precede end date")
	}
	if deal.DiscountValue.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "deal discount value must not be negative")
	}
	if deal.ID == uuid.Nil {
		deal.ID = uuid.New()
	}
	return r.DB(ctx).Create(deal).Error
}

// SyncActivation materializes is_active from the window so admin listings and
// indexes agree with what pricing sees. Returns rows flipped on and off.
func (r *Repository) SyncActivation(ctx context.Context, now time.Time) (activated, deactivated int64, err error) {
	err = r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		on := tx.Model(&models.Deal{}).
			Where("is_active = ?", false).
			Where(liveWindow, now, now).
			Updates(map[string]any{"is_active": true, "updated_at": now})
		if on.Error != nil {
			return on.Error
		}
		off := tx.Model(&models.Deal{}).
			Where("is_active = ?", true).
			Where("(start_date > ? OR end_date < ?)", now, now).
			Updates(map[string]any{"is_active": false, "updated_at": now})
		if off.Error != nil {
			return off.Error
		}
		activated, deactivated = on.RowsAffected, off.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync deal activation")
	}
	return activated, deactivated, nil
}
