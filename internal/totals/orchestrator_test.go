package totals

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-pricing/internal/coupons"
	"github.com/angelmondragon/storefront-pricing/internal/shipping"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var now = time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func intPtr(v int) *int { return &v }

type stubProducts struct {
	products map[uuid.UUID]*models.Product
	calls    int
}

func (s *stubProducts) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	s.calls++
	out := make(map[uuid.UUID]*models.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type stubDeals struct {
	deals []models.Deal
	calls int
}

func (s *stubDeals) ListActive(ctx context.Context, now time.Time) ([]models.Deal, error) {
	s.calls++
	return s.deals, nil
}

type stubCoupons struct {
	userCount int
}

func (s stubCoupons) Apply(ctx context.Context, coupon *models.Coupon, subtotal decimal.Decimal, userID uuid.UUID, held bool) (coupons.Result, error) {
	return coupons.Evaluate(coupon, subtotal, coupons.Usage{UserCount: s.userCount, Held: held}, now), nil
}

type stubZones struct {
	zone *models.ShippingZone
}

func (s stubZones) FindByRegion(ctx context.Context, region string) (*models.ShippingZone, error) {
	return s.zone, nil
}

func defaultZone() *models.ShippingZone {
	return &models.ShippingZone{
		Region:                "default",
		BaseRate:              dec("60"),
		ExpressMultiplier:     dec("2"),
		RegionMultiplier:      dec("1"),
		FreeShippingThreshold: decPtr("2000"),
	}
}

type fixture struct {
	products *stubProducts
	deals    *stubDeals
	orch     *Orchestrator
}

func newFixture(t *testing.T, products []*models.Product, deals []models.Deal, zone *models.ShippingZone) fixture {
	t.Helper()
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	f := fixture{
		products: &stubProducts{products: byID},
		deals:    &stubDeals{deals: deals},
	}
	orch, err := NewOrchestrator(Deps{
		Products:   f.products,
		Deals:      f.deals,
		Coupons:    stubCoupons{},
		Zones:      stubZones{zone: zone},
		Calculator: shipping.NewCalculator(dec("50")),
		Now:        func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	f.orch = orch
	return f
}

func saleProduct() *models.Product {
	start := now.Add(-24 * time.Hour)
	end := now.Add(24 * time.Hour)
	return &models.Product{
		ID:        uuid.New(),
		Name:      "Headphones",
		Price:     dec("1000"),
		SalePrice: decPtr("900"),
		OnSale:    true,
		SaleStart: &start,
		SaleEnd:   &end,
		InStock:   true,
		Quantity:  10,
	}
}

func deal(kind enums.DealDiscountType, value string, priority int) models.Deal {
	return models.Deal{
		ID:            uuid.New(),
		DiscountType:  kind,
		DiscountValue: dec(value),
		StartDate:     now.Add(-time.Hour),
		EndDate:       now.Add(time.Hour),
		Priority:      priority,
		IsActive:      true,
		IsGlobal:      true,
	}
}

func baseRequest(lines ...Line) Request {
	return Request{
		Context:        ContextCart,
		UserID:         uuid.New(),
		Lines:          lines,
		ShippingMethod: enums.ShippingMethodStandard,
		PaymentMethod:  enums.PaymentMethodCard,
		Region:         "default",
	}
}

func TestComputeDealBeatsSalePrice(t *testing.T) {
	t.Parallel()

	product := saleProduct()
	f := newFixture(t, []*models.Product{product}, []models.Deal{deal(enums.DealDiscountPercentage, "20", 0)}, defaultZone())

	out, err := f.orch.Compute(context.Background(), baseRequest(Line{ProductID: product.ID, Quantity: 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := out.Lines[0]
	if !line.UnitPrice.Equal(dec("800")) {
		t.Fatalf("expected unit price 800, got %s", line.UnitPrice)
	}
	if !line.OriginalPrice.Equal(dec("900")) {
		t.Fatalf("expected original price 900, got %s", line.OriginalPrice)
	}
	if line.AppliedDealID == nil {
		t.Fatalf("expected applied deal id")
	}
	if !out.Subtotal.Equal(dec("800")) || !out.ShippingFee.Equal(dec("60")) || !out.FinalTotal.Equal(dec("860")) {
		t.Fatalf("unexpected totals: subtotal=%s shipping=%s final=%s", out.Subtotal, out.ShippingFee, out.FinalTotal)
	}
}

func TestComputeVariantInheritsDealRate(t *testing.T) {
	t.Parallel()

	product := &models.Product{
		ID:       uuid.New(),
		Price:    dec("1000"),
		InStock:  true,
		Quantity: 5,
		Variants: []models.ProductVariant{{ID: "v-1", Price: decPtr("500"), Stock: 3}},
	}
	f := newFixture(t, []*models.Product{product}, []models.Deal{deal(enums.DealDiscountPercentage, "10", 0)}, defaultZone())

	variantID := "v-1"
	out, err := f.orch.Compute(context.Background(), baseRequest(Line{ProductID: product.ID, Quantity: 2, VariantID: &variantID}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Lines[0].UnitPrice.Equal(dec("450")) {
		t.Fatalf("expected unit price 450, got %s", out.Lines[0].UnitPrice)
	}
	if !out.Lines[0].LineTotal.Equal(dec("900")) || !out.Subtotal.Equal(dec("900")) {
		t.Fatalf("unexpected line total %s subtotal %s", out.Lines[0].LineTotal, out.Subtotal)
	}
}

func TestComputeRejectsCouponBelowMinimum(t *testing.T) {
	t.Parallel()

	product := saleProduct()
	f := newFixture(t, []*models.Product{product}, []models.Deal{deal(enums.DealDiscountPercentage, "20", 0)}, defaultZone())

	req := baseRequest(Line{ProductID: product.ID, Quantity: 1})
	req.Coupon = &models.Coupon{
		ID:            uuid.New(),
		Code:          "BIG",
		DiscountType:  enums.CouponDiscountFixed,
		DiscountValue: dec("100"),
		MinCartValue:  decPtr("1000"),
	}

	out, err := f.orch.Compute(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Coupon != nil {
		t.Fatalf("expected coupon to be detached")
	}
	if !out.CouponDetached() || *out.CouponRejection != enums.CouponRejectionBelowMinimum {
		t.Fatalf("expected below minimum rejection, got %v", out.CouponRejection)
	}
	if !out.Discount.IsZero() {
		t.Fatalf("expected zero discount, got %s", out.Discount)
	}
}

func TestComputeAppliesPercentageCouponWithCap(t *testing.T) {
	t.Parallel()

	product := &models.Product{ID: uuid.New(), Price: dec("1500"), InStock: true, Quantity: 5}
	f := newFixture(t, []*models.Product{product}, nil, defaultZone())

	req := baseRequest(Line{ProductID: product.ID, Quantity: 1})
	req.PaymentMethod = enums.PaymentMethodCOD
	req.Coupon = &models.Coupon{
		ID:            uuid.New(),
		Code:          "TENOFF",
		DiscountType:  enums.CouponDiscountPercentage,
		DiscountValue: dec("10"),
		MaxDiscount:   decPtr("100"),
		UsageLimit:    intPtr(5),
	}

	out, err := f.orch.Compute(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Coupon == nil || !out.Discount.Equal(dec("100")) {
		t.Fatalf("expected capped discount 100, got %s", out.Discount)
	}
	if !out.CODFee.Equal(dec("50")) {
		t.Fatalf("expected cod fee 50, got %s", out.CODFee)
	}
	// 1500 - 100 + 60 + 50
	if !out.FinalTotal.Equal(dec("1510")) {
		t.Fatalf("expected final total 1510, got %s", out.FinalTotal)
	}
}

func TestComputeFreeShippingAboveThreshold(t *testing.T) {
	t.Parallel()

	product := &models.Product{ID: uuid.New(), Price: dec("2500"), InStock: true, Quantity: 5}
	f := newFixture(t, []*models.Product{product}, nil, defaultZone())

	req := baseRequest(Line{ProductID: product.ID, Quantity: 1})
	req.ShippingMethod = enums.ShippingMethodExpress
	out, err := f.orch.Compute(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.ShippingFee.IsZero() {
		t.Fatalf("expected free shipping, got %s", out.ShippingFee)
	}
	if !out.FinalTotal.Equal(dec("2500")) {
		t.Fatalf("expected final total 2500, got %s", out.FinalTotal)
	}
}

func TestComputeExpressShipping(t *testing.T) {
	t.Parallel()

	product := &models.Product{ID: uuid.New(), Price: dec("100"), InStock: true, Quantity: 5}
	f := newFixture(t, []*models.Product{product}, nil, defaultZone())

	req := baseRequest(Line{ProductID: product.ID, Quantity: 1})
	req.ShippingMethod = enums.ShippingMethodExpress
	out, err := f.orch.Compute(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.ShippingFee.Equal(dec("120")) {
		t.Fatalf("expected express fee 120, got %s", out.ShippingFee)
	}
}

func TestComputePriorityTieKeepsFirstDeal(t *testing.T) {
	t.Parallel()

	product := &models.Product{ID: uuid.New(), Price: dec("1000"), InStock: true, Quantity: 5}
	first := deal(enums.DealDiscountPercentage, "10", 5)
	second := deal(enums.DealDiscountFixed, "100", 5)
	f := newFixture(t, []*models.Product{product}, []models.Deal{first, second}, defaultZone())

	out, err := f.orch.Compute(context.Background(), baseRequest(Line{ProductID: product.ID, Quantity: 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Lines[0].AppliedDealID == nil || *out.Lines[0].AppliedDealID != first.ID {
		t.Fatalf("expected first deal to win the tie")
	}
}

func TestComputeFinalTotalNeverNegative(t *testing.T) {
	t.Parallel()

	product := &models.Product{ID: uuid.New(), Price: dec("40"), InStock: true, Quantity: 5}
	f := newFixture(t, []*models.Product{product}, nil, nil)

	req := baseRequest(Line{ProductID: product.ID, Quantity: 1})
	req.Coupon = &models.Coupon{
		ID:            uuid.New(),
		Code:          "HUGE",
		DiscountType:  enums.CouponDiscountFixed,
		DiscountValue: dec("500"),
	}
	out, err := f.orch.Compute(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Discount.Equal(dec("40")) {
		t.Fatalf("expected discount clamped to subtotal, got %s", out.Discount)
	}
	if out.FinalTotal.IsNegative() || !out.FinalTotal.IsZero() {
		t.Fatalf("expected final total 0, got %s", out.FinalTotal)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	t.Parallel()

	product := saleProduct()
	f := newFixture(t, []*models.Product{product}, []models.Deal{deal(enums.DealDiscountPercentage, "20", 0)}, defaultZone())
	req := baseRequest(Line{ProductID: product.ID, Quantity: 3})

	first, err := f.orch.Compute(context.Background(), req)
	if err != nil {
		t.Fatalf("first compute: %v", err)
	}
	second, err := f.orch.Compute(context.Background(), req)
	if err != nil {
		t.Fatalf("second compute: %v", err)
	}
	a, b := first.Snapshot(), second.Snapshot()
	if !a.Subtotal.Equal(b.Subtotal) || !a.Discount.Equal(b.Discount) || !a.ShippingFee.Equal(b.ShippingFee) ||
		!a.CODFee.Equal(b.CODFee) || !a.FinalTotal.Equal(b.FinalTotal) {
		t.Fatalf("expected identical snapshots, got %+v and %+v", a, b)
	}
	if !a.FinalTotal.Equal(dec("2400")) {
		t.Fatalf("expected final total 2400 with free shipping, got %s", a.FinalTotal)
	}
}

func TestComputeFetchesCatalogOncePerPass(t *testing.T) {
	t.Parallel()

	a := &models.Product{ID: uuid.New(), Price: dec("10"), InStock: true, Quantity: 5}
	b := &models.Product{ID: uuid.New(), Price: dec("20"), InStock: true, Quantity: 5}
	f := newFixture(t, []*models.Product{a, b}, nil, defaultZone())

	_, err := f.orch.Compute(context.Background(), baseRequest(
		Line{ProductID: a.ID, Quantity: 1},
		Line{ProductID: b.ID, Quantity: 2},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.products.calls != 1 || f.deals.calls != 1 {
		t.Fatalf("expected one product and one deal fetch, got %d and %d", f.products.calls, f.deals.calls)
	}
}

func TestComputeEmptyHasNoFees(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, nil, defaultZone())
	req := baseRequest()
	req.PaymentMethod = enums.PaymentMethodCOD

	out, err := f.orch.Compute(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.FinalTotal.IsZero() || !out.CODFee.IsZero() || !out.ShippingFee.IsZero() {
		t.Fatalf("expected zero totals for empty request, got %+v", out.Snapshot())
	}
}

func TestComputeMissingProduct(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, nil, defaultZone())
	_, err := f.orch.Compute(context.Background(), baseRequest(Line{ProductID: uuid.New(), Quantity: 1}))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestComputeValidatesRequest(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, nil, defaultZone())

	cases := map[string]Request{
		"shipping": {ShippingMethod: "drone", PaymentMethod: enums.PaymentMethodCard},
		"payment":  {ShippingMethod: enums.ShippingMethodStandard, PaymentMethod: "barter"},
		"quantity": {
			ShippingMethod: enums.ShippingMethodStandard,
			PaymentMethod:  enums.PaymentMethodCard,
			Lines:          []Line{{ProductID: uuid.New(), Quantity: 0}},
		},
	}
	for name, req := range cases {
		_, err := f.orch.Compute(context.Background(), req)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestNewOrchestratorRequiresDeps(t *testing.T) {
	t.Parallel()

	if _, err := NewOrchestrator(Deps{}); err == nil {
		t.Fatalf("expected error for missing deps")
	}
}
