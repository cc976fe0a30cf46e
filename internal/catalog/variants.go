package catalog

import (
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/google/uuid"
)

// AssignVariantIDs mints an opaque id for every variant that lacks one and
// renumbers positions to match slice order.
func AssignVariantIDs(product *models.Product) {
	if product == nil {
		return
	}
	for i := range product.Variants {
		v := &product.Variants[i]
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		v.ProductID = product.ID
		v.Position = i
	}
}
