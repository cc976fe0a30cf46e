package coupons

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-pricing/internal/repo"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists coupons and their redemption counters.
type Repository struct {
	repo.Base
}

// NewRepository constructs a coupon repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// NormalizeCode trims and upper-cases a shopper-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create inserts a coupon with a normalized code.
func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) error {
	if coupon == nil {
		return fmt.Errorf("coupon required")
	}
	coupon.Code = NormalizeCode(coupon.Code)
	if coupon.Code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if !coupon.DiscountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon discount type")
	}
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	return r.DB(ctx).Create(coupon).Error
}

// FindByCode looks a coupon up by its case-insensitive code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	var coupon models.Coupon
	err := r.DB(ctx).Where("UPPER(code) = ?", normalized).First(&coupon).Error
	if err != nil {
		return nil, repo.Translate(err, "coupon", "load coupon")
	}
	return &coupon, nil
}

// FindByID loads a coupon by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.DB(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		return nil, repo.Translate(err, "coupon", "load coupon")
	}
	return &coupon, nil
}

// UserUsage returns how many times userID has redeemed the coupon.
func (r *Repository) UserUsage(ctx context.Context, couponID, userID uuid.UUID) (int, error) {
	var usage models.CouponUsage
	err := r.DB(ctx).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Limit(1).
		Find(&usage).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon usage")
	}
	return usage.Count, nil
}

// Redeem takes one usage slot for userID. Both counters are bumped with
// guarded updates inside one transaction, so concurrent redemptions can never
// push used_count past usage_limit or the user past per_user_limit.
func (r *Repository) Redeem(ctx context.Context, couponID, userID uuid.UUID) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		var coupon models.Coupon
		if err := tx.First(&coupon, "id = ?", couponID).Error; err != nil {
			return repo.Translate(err, "coupon", "load coupon")
		}

		global := tx.Model(&models.Coupon{}).
			Where("id = ?", couponID).
			Where("(usage_limit IS NULL OR used_count < usage_limit)").
			UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
		if global.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, global.Error, "increment coupon usage")
		}
		if global.RowsAffected == 0 {
			return RejectionError(enums.CouponRejectionUsageLimitReached)
		}

		seed := models.CouponUsage{CouponID: couponID, UserID: userID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed coupon user usage")
		}

		perUser := tx.Model(&models.CouponUsage{}).
			Where("coupon_id = ? AND user_id = ?", couponID, userID)
		if coupon.PerUserLimit != nil {
			perUser = perUser.Where("count < ?", *coupon.PerUserLimit)
		}
		res := perUser.UpdateColumn("count", gorm.Expr("count + ?", 1))
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "increment coupon user usage")
		}
		if res.RowsAffected == 0 {
			return RejectionError(enums.CouponRejectionPerUserLimit)
		}
		return nil
	})
}

// Release returns one usage slot taken by Redeem. Counters never drop below zero.
func (r *Repository) Release(ctx context.Context, couponID, userID uuid.UUID) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Coupon{}).
			Where("id = ? AND used_count > 0", couponID).
			UpdateColumn("used_count", gorm.Expr("used_count - ?", 1)).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement coupon usage")
		}
		if err := tx.Model(&models.CouponUsage{}).
			Where("coupon_id = ? AND user_id = ? AND count > 0", couponID, userID).
			UpdateColumn("count", gorm.Expr("count - ?", 1)).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement coupon user usage")
		}
		return nil
	})
}
