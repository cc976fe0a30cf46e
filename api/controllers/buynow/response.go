package buynow

import (
	"time"

	"github.com/google/uuid"

	checkoutdto "github.com/angelmondragon/storefront-pricing/api/controllers/checkout/dto"
	buynowsvc "github.com/angelmondragon/storefront-pricing/internal/buynow"
)

type sessionResponse struct {
	ID        uuid.UUID `json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`
	*checkoutdto.Breakdown
}

func newSessionResponse(view *buynowsvc.View, currency string) sessionResponse {
	resp := sessionResponse{Breakdown: checkoutdto.NewBreakdown(view.Breakdown, currency)}
	if view.Session != nil {
		resp.ID = view.Session.ID
		resp.UpdatedAt = view.Session.UpdatedAt
	}
	return resp
}
