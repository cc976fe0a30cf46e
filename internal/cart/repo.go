package cart

import (
	"context"

	"github.com/angelmondragon/storefront-pricing/internal/repo"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists carts and their line references.
type Repository struct {
	repo.Base
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	return &Repository{Base: r.Bind(tx)}
}

// FindActiveByUser loads the user's active cart with its items in insertion
// order. Returns gorm.ErrRecordNotFound when the user has none.
func (r *Repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		Order("created_at DESC").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create inserts the cart row only; items are written by ReplaceItems.
func (r *Repository) Create(ctx context.Context, cart *models.Cart) error {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	if cart.Status == "" {
		cart.Status = enums.CartStatusActive
	}
	return r.DB(ctx).Omit(clause.Associations).Create(cart).Error
}

// Update writes the cart's selections and totals snapshot.
func (r *Repository) Update(ctx context.Context, cart *models.Cart) error {
	return r.DB(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cart.ID).
		Updates(map[string]any{
			"coupon_id":       cart.CouponID,
			"shipping_method": cart.ShippingMethod,
			"payment_method":  cart.PaymentMethod,
			"region":          cart.Region,
			"subtotal":        cart.Totals.Subtotal,
			"discount":        cart.Totals.Discount,
			"shipping_fee":    cart.Totals.ShippingFee,
			"cod_fee":         cart.Totals.CODFee,
			"final_total":     cart.Totals.FinalTotal,
		}).Error
}

// ReplaceItems swaps the cart's lines for items, keeping existing item ids.
func (r *Repository) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	db := r.DB(ctx)
	if err := db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].CartID = cartID
	}
	return db.Create(&items).Error
}

// Delete removes the cart and its items.
func (r *Repository) Delete(ctx context.Context, cartID uuid.UUID) error {
	db := r.DB(ctx)
	if err := db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", cartID).Delete(&models.Cart{}).Error
}
