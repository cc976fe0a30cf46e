package cart

import (
	"time"

	"github.com/google/uuid"

	checkoutdto "github.com/angelmondragon/storefront-pricing/api/controllers/checkout/dto"
	cartsvc "github.com/angelmondragon/storefront-pricing/internal/cart"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
)

type cartResponse struct {
	ID        *uuid.UUID       `json:"id,omitempty"`
	Status    enums.CartStatus `json:"status"`
	UpdatedAt *time.Time       `json:"updatedAt,omitempty"`
	*checkoutdto.Breakdown
}

func newCartResponse(view *cartsvc.View, currency string) cartResponse {
	resp := cartResponse{Breakdown: checkoutdto.NewBreakdown(view.Breakdown, currency)}
	if view.Cart == nil {
		return resp
	}
	resp.Status = view.Cart.Status
	if view.Cart.ID != uuid.Nil {
		id := view.Cart.ID
		resp.ID = &id
	}
	if !view.Cart.UpdatedAt.IsZero() {
		updated := view.Cart.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
