package buynow

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-pricing/internal/repo"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists buy-now sessions, one per user.
type Repository struct {
	repo.Base
}

// NewRepository constructs a buy-now repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) SessionRepository {
	return &Repository{Base: r.Bind(tx)}
}

// FindByUser returns gorm.ErrRecordNotFound when the user has no session.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.BuyNow, error) {
	var session models.BuyNow
	if err := r.DB(ctx).Where("user_id = ?", userID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Create inserts a session. The user_id unique index rejects a second one.
func (r *Repository) Create(ctx context.Context, session *models.BuyNow) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	return r.DB(ctx).Create(session).Error
}

// Update writes the session's selections and totals snapshot.
func (r *Repository) Update(ctx context.Context, session *models.BuyNow) error {
	return r.DB(ctx).
		Model(&models.BuyNow{}).
		Where("id = ?", session.ID).
		Updates(map[string]any{
			"quantity":        session.Quantity,
			"variant_id":      session.VariantID,
			"coupon_id":       session.CouponID,
			"shipping_method": session.ShippingMethod,
			"payment_method":  session.PaymentMethod,
			"region":          session.Region,
			"subtotal":        session.Totals.Subtotal,
			"discount":        session.Totals.Discount,
			"shipping_fee":    session.Totals.ShippingFee,
			"cod_fee":         session.Totals.CODFee,
			"final_total":     session.Totals.FinalTotal,
		}).Error
}

// DeleteByUser removes the user's session if any.
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.DB(ctx).Where("user_id = ?", userID).Delete(&models.BuyNow{}).Error
}

// ListStale returns up to limit sessions last touched before cutoff, oldest first.
func (r *Repository) ListStale(ctx context.Context, cutoff time.Time, limit int) ([]models.BuyNow, error) {
	var rows []models.BuyNow
	q := r.DB(ctx).Where("updated_at < ?", cutoff).Order("updated_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteByID removes one session, inside tx when one is given.
func (r *Repository) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := r.DB(ctx)
	if tx != nil {
		db = tx.WithContext(ctx)
	}
	return db.Where("id = ?", id).Delete(&models.BuyNow{}).Error
}
