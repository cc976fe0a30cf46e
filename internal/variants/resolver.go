// Package variants locates product variants from client-supplied identifiers.
package variants

import (
	"strings"

	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
)

// Resolve returns the variant addressed by rawID, or nil when nothing matches.
// Canonical ids match exactly; older client encodings go through the
// compatibility matchers in compat.go.
func Resolve(list []models.ProductVariant, rawID string) *models.ProductVariant {
	if rawID == "" || len(list) == 0 {
		return nil
	}
	for i := range list {
		if list[i].ID == rawID {
			return &list[i]
		}
	}
	return resolveLegacy(list, rawID)
}

// Canonicalize maps rawID to the variant's canonical id so only that form is
// ever persisted on a line.
func Canonicalize(list []models.ProductVariant, rawID string) (string, error) {
	v := Resolve(list, strings.TrimSpace(rawID))
	if v == nil {
		return "", NotFound()
	}
	return v.ID, nil
}

// NotFound is the error callers surface when a variant id does not resolve.
func NotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
}

// ResolveImage walks the image fallback chain: variant image, product main
// image, media original, media thumbnail.
func ResolveImage(product *models.Product, variant *models.ProductVariant) *string {
	candidates := make([]*string, 0, 4)
	if variant != nil {
		candidates = append(candidates, variant.Image)
	}
	if product != nil {
		candidates = append(candidates, product.MainImage, product.MediaOriginal, product.MediaThumbnail)
	}
	for _, c := range candidates {
		if c != nil && strings.TrimSpace(*c) != "" {
			out := *c
			return &out
		}
	}
	return nil
}
