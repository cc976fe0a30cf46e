package variants

import (
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
)

// Compatibility matchers for variant ids sent by older clients. New callers
// should send the canonical id returned in cart responses.

const compositeSeparator = "."

func resolveLegacy(list []models.ProductVariant, rawID string) *models.ProductVariant {
	if v := matchCompositePrefix(list, rawID); v != nil {
		return v
	}
	if v := matchLoose(list, rawID); v != nil {
		return v
	}
	return matchPosition(list, rawID)
}

// "<id>.1" style composites address the variant by the segment before the first separator.
func matchCompositePrefix(list []models.ProductVariant, rawID string) *models.ProductVariant {
	idx := strings.Index(rawID, compositeSeparator)
	if idx <= 0 {
		return nil
	}
	prefix := rawID[:idx]
	for i := range list {
		if list[i].ID == prefix {
			return &list[i]
		}
	}
	return nil
}

func matchLoose(list []models.ProductVariant, rawID string) *models.ProductVariant {
	needle := strings.TrimSpace(rawID)
	if needle == "" {
		return nil
	}
	for i := range list {
		if strings.EqualFold(strings.TrimSpace(list[i].ID), needle) {
			return &list[i]
		}
	}
	return nil
}

func matchPosition(list []models.ProductVariant, rawID string) *models.ProductVariant {
	idx, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil || idx < 0 || idx >= len(list) {
		return nil
	}
	return &list[idx]
}
