package deals

import (
	"testing"
	"time"

	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var evalNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func liveDeal(kind enums.DealDiscountType, value string, priority int) models.Deal {
	return models.Deal{
		ID:            uuid.New(),
		DiscountType:  kind,
		DiscountValue: dec(value),
		StartDate:     evalNow.Add(-time.Hour),
		EndDate:       evalNow.Add(time.Hour),
		Priority:      priority,
		IsActive:      true,
		IsGlobal:      true,
	}
}

func plainProduct(price string) *models.Product {
	return &models.Product{ID: uuid.New(), Price: dec(price)}
}

func TestEvaluateDealBeatsOwnSale(t *testing.T) {
	t.Parallel()

	start, end := evalNow.Add(-24*time.Hour), evalNow.Add(24*time.Hour)
	product := &models.Product{
		ID:        uuid.New(),
		Price:     dec("1000"),
		SalePrice: decPtr("900"),
		OnSale:    true,
		SaleStart: &start,
		SaleEnd:   &end,
	}
	deal := liveDeal(enums.DealDiscountPercentage, "20", 1)

	got := Evaluate(product, []models.Deal{deal}, evalNow)

	if !got.OriginalPrice.Equal(dec("900")) {
		t.Fatalf("expected original price 900, got %s", got.OriginalPrice)
	}
	if got.DealPrice == nil || !got.DealPrice.Equal(dec("800")) {
		t.Fatalf("expected deal price 800, got %v", got.DealPrice)
	}
	if got.AppliedDealID == nil || *got.AppliedDealID != deal.ID {
		t.Fatalf("expected applied deal %s, got %v", deal.ID, got.AppliedDealID)
	}
}

func TestEvaluateOwnSaleStandsWhenDealIsWorse(t *testing.T) {
	t.Parallel()

	start, end := evalNow.Add(-time.Hour), evalNow.Add(time.Hour)
	product := &models.Product{
		ID:        uuid.New(),
		Price:     dec("1000"),
		SalePrice: decPtr("900"),
		OnSale:    true,
		SaleStart: &start,
		SaleEnd:   &end,
	}
	got := Evaluate(product, []models.Deal{liveDeal(enums.DealDiscountFixed, "50", 1)}, evalNow)

	if got.DealPrice != nil {
		t.Fatalf("expected no deal when it does not beat the sale, got %s", got.DealPrice)
	}
	if !got.EffectivePrice().Equal(dec("900")) {
		t.Fatalf("expected effective 900, got %s", got.EffectivePrice())
	}
}

func TestOriginalPriceRespectsSaleWindow(t *testing.T) {
	t.Parallel()

	start, end := evalNow.Add(time.Hour), evalNow.Add(2*time.Hour)
	product := &models.Product{
		Price:     dec("500"),
		SalePrice: decPtr("400"),
		OnSale:    true,
		SaleStart: &start,
		SaleEnd:   &end,
	}
	if got := OriginalPrice(product, evalNow); !got.Equal(dec("500")) {
		t.Fatalf("sale not started should use base price, got %s", got)
	}

	product.SaleStart = ptrTime(evalNow.Add(-time.Hour))
	if got := OriginalPrice(product, evalNow); !got.Equal(dec("400")) {
		t.Fatalf("sale in window should use sale price, got %s", got)
	}

	product.SalePrice = nil
	product.LegacyDiscountPrice = decPtr("420")
	if got := OriginalPrice(product, evalNow); !got.Equal(dec("420")) {
		t.Fatalf("legacy discount price should be honoured, got %s", got)
	}

	product.OnSale = false
	if got := OriginalPrice(product, evalNow); !got.Equal(dec("500")) {
		t.Fatalf("not on sale should use base, got %s", got)
	}
}

func TestEvaluateTieKeepsHigherPriority(t *testing.T) {
	t.Parallel()

	product := plainProduct("1000")
	high := liveDeal(enums.DealDiscountPercentage, "10", 9)
	low := liveDeal(enums.DealDiscountFlat, "100", 1)

	got := Evaluate(product, []models.Deal{high, low}, evalNow)

	if got.AppliedDealID == nil || *got.AppliedDealID != high.ID {
		t.Fatalf("expected higher-priority deal on tie, got %v", got.AppliedDealID)
	}
	if !got.DealPrice.Equal(dec("900")) {
		t.Fatalf("expected 900, got %s", got.DealPrice)
	}
}

func TestEvaluateLowestPriceWinsRegardlessOfPriority(t *testing.T) {
	t.Parallel()

	product := plainProduct("1000")
	high := liveDeal(enums.DealDiscountPercentage, "5", 9)
	low := liveDeal(enums.DealDiscountFixed, "300", 1)

	got := Evaluate(product, []models.Deal{high, low}, evalNow)
	if got.AppliedDealID == nil || *got.AppliedDealID != low.ID {
		t.Fatalf("expected best discount to win, got %v", got.AppliedDealID)
	}
	if !got.DealPrice.Equal(dec("700")) {
		t.Fatalf("expected 700, got %s", got.DealPrice)
	}
}

func TestEvaluateScopes(t *testing.T) {
	t.Parallel()

	category := uuid.New()
	sub := uuid.New()
	product := plainProduct("200")
	product.CategoryID = &category
	product.SubCategoryID = &sub

	byProduct := liveDeal(enums.DealDiscountFixed, "10", 0)
	byProduct.IsGlobal = false
	byProduct.ProductIDs = pq.StringArray{product.ID.String()}

	byCategory := liveDeal(enums.DealDiscountFixed, "20", 0)
	byCategory.IsGlobal = false
	byCategory.CategoryIDs = pq.StringArray{category.String()}

	bySub := liveDeal(enums.DealDiscountFixed, "30", 0)
	bySub.IsGlobal = false
	bySub.SubCategoryIDs = pq.StringArray{sub.String()}

	unscoped := liveDeal(enums.DealDiscountFixed, "150", 0)
	unscoped.IsGlobal = false

	for _, tc := range []struct {
		name string
		deal models.Deal
		want string
	}{
		{"product", byProduct, "190"},
		{"category", byCategory, "180"},
		{"subcategory", bySub, "170"},
	} {
		got := Evaluate(product, []models.Deal{tc.deal}, evalNow)
		if got.DealPrice == nil || !got.DealPrice.Equal(dec(tc.want)) {
			t.Fatalf("%s scope: expected %s, got %v", tc.name, tc.want, got.DealPrice)
		}
	}

	if got := Evaluate(product, []models.Deal{unscoped}, evalNow); got.DealPrice != nil {
		t.Fatalf("deal without scope must match nothing, got %s", got.DealPrice)
	}
}

func TestEvaluateFixedClampsAtZero(t *testing.T) {
	t.Parallel()

	got := Evaluate(plainProduct("40"), []models.Deal{liveDeal(enums.DealDiscountFixed, "100", 0)}, evalNow)
	if got.DealPrice == nil || !got.DealPrice.IsZero() {
		t.Fatalf("expected price clamped to zero, got %v", got.DealPrice)
	}
}

func TestEvaluateSkipsExpiredDeals(t *testing.T) {
	t.Parallel()

	expired := liveDeal(enums.DealDiscountPercentage, "50", 5)
	expired.EndDate = evalNow.Add(-time.Minute)

	got := Evaluate(plainProduct("100"), []models.Deal{expired}, evalNow)
	if got.DealPrice != nil {
		t.Fatalf("expired deal must not apply")
	}
}

func TestEvaluateNeverRaisesPrice(t *testing.T) {
	t.Parallel()

	product := plainProduct("99.99")
	dealsList := []models.Deal{
		liveDeal(enums.DealDiscountPercentage, "0", 3),
		liveDeal(enums.DealDiscountPercentage, "-10", 2),
		liveDeal(enums.DealDiscountFixed, "0", 1),
		liveDeal(enums.DealDiscountPercentage, "33.3", 0),
	}
	got := Evaluate(product, dealsList, evalNow)
	if got.DealPrice != nil && got.DealPrice.GreaterThan(got.OriginalPrice) {
		t.Fatalf("deal price %s exceeds original %s", got.DealPrice, got.OriginalPrice)
	}
	if got.DealPrice == nil || !got.DealPrice.Equal(dec("66.69")) {
		t.Fatalf("expected 66.69 after rounding, got %v", got.DealPrice)
	}
}

func TestDiscountRate(t *testing.T) {
	t.Parallel()

	price := dec("450")
	e := Evaluation{OriginalPrice: dec("500"), DealPrice: &price}
	if !e.DiscountRate().Equal(dec("0.1")) {
		t.Fatalf("expected 0.1, got %s", e.DiscountRate())
	}
	if !(Evaluation{OriginalPrice: dec("500")}).DiscountRate().IsZero() {
		t.Fatal("expected zero rate without a deal")
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
