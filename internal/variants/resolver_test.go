package variants

import (
	"testing"

	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
)

func strPtr(v string) *string { return &v }

func sampleVariants() []models.ProductVariant {
	return []models.ProductVariant{
		{ID: "a1b2", SKU: "RED-64"},
		{ID: "C3D4", SKU: "BLUE-64"},
		{ID: "e5f6", SKU: "RED-128"},
	}
}

func TestResolveMatchingOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		raw   string
		want  string
		empty bool
	}{
		{name: "exact id", raw: "e5f6", want: "RED-128"},
		{name: "dotted composite", raw: "a1b2.1", want: "RED-64"},
		{name: "case folded", raw: "c3d4", want: "BLUE-64"},
		{name: "padded", raw: "  e5f6 ", want: "RED-128"},
		{name: "positional index", raw: "1", want: "BLUE-64"},
		{name: "index out of range", raw: "3", empty: true},
		{name: "negative index", raw: "-1", empty: true},
		{name: "unknown", raw: "zzz", empty: true},
		{name: "blank", raw: "", empty: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Resolve(sampleVariants(), tc.raw)
			if tc.empty {
				if got != nil {
					t.Fatalf("expected no match for %q, got %s", tc.raw, got.SKU)
				}
				return
			}
			if got == nil || got.SKU != tc.want {
				t.Fatalf("expected %s for %q, got %+v", tc.want, tc.raw, got)
			}
		})
	}
}

func TestResolveExactBeatsPosition(t *testing.T) {
	t.Parallel()

	list := []models.ProductVariant{{ID: "x", SKU: "first"}, {ID: "0", SKU: "zero-id"}}
	got := Resolve(list, "0")
	if got == nil || got.SKU != "zero-id" {
		t.Fatalf("exact id must win over positional index, got %+v", got)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	t.Parallel()

	list := sampleVariants()
	first := Resolve(list, "a1b2.9")
	for i := 0; i < 5; i++ {
		if again := Resolve(list, "a1b2.9"); again != first {
			t.Fatalf("resolution changed between calls")
		}
	}
}

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	id, err := Canonicalize(sampleVariants(), "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "e5f6" {
		t.Fatalf("expected canonical id e5f6, got %s", id)
	}

	_, err = Canonicalize(sampleVariants(), "nope")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestResolveImageFallbackChain(t *testing.T) {
	t.Parallel()

	product := &models.Product{
		MainImage:      strPtr(""),
		MediaOriginal:  strPtr("orig.jpg"),
		MediaThumbnail: strPtr("thumb.jpg"),
	}
	variant := &models.ProductVariant{Image: strPtr("variant.jpg")}

	if got := ResolveImage(product, variant); got == nil || *got != "variant.jpg" {
		t.Fatalf("expected variant image, got %v", got)
	}
	if got := ResolveImage(product, &models.ProductVariant{}); got == nil || *got != "orig.jpg" {
		t.Fatalf("expected media original when main image blank, got %v", got)
	}

	product.MediaOriginal = nil
	if got := ResolveImage(product, nil); got == nil || *got != "thumb.jpg" {
		t.Fatalf("expected thumbnail, got %v", got)
	}

	if got := ResolveImage(&models.Product{}, nil); got != nil {
		t.Fatalf("expected nil image, got %v", *got)
	}
}
