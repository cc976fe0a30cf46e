package checkoutdto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-pricing/internal/totals"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
)

func TestNewBreakdownProjectsLines(t *testing.T) {
	productID := uuid.New()
	dealID := uuid.New()
	variantID := "v-1"
	dealPrice := decimal.RequireFromString("444.44")
	reason := enums.CouponRejectionBelowMinimum
	b := &totals.Breakdown{
		Lines: []totals.PricedLine{{
			ProductID:     productID,
			Product:       &models.Product{ID: productID, Name: "Kettle"},
			Quantity:      2,
			VariantID:     &variantID,
			Variant:       &models.ProductVariant{ID: variantID, SKU: "KET-RED"},
			UnitPrice:     dealPrice,
			OriginalPrice: decimal.RequireFromString("500"),
			DealPrice:     &dealPrice,
			AppliedDealID: &dealID,
			LineTotal:     decimal.RequireFromString("888.88"),
		}},
		Subtotal:        decimal.RequireFromString("888.88"),
		Discount:        decimal.Zero,
		ShippingFee:     decimal.RequireFromString("60"),
		CODFee:          decimal.Zero,
		FinalTotal:      decimal.RequireFromString("948.88"),
		CouponRejection: &reason,
		ShippingMethod:  enums.ShippingMethodStandard,
		PaymentMethod:   enums.PaymentMethodCard,
		Region:          "default",
		ComputedAt:      time.Now(),
	}

	out := NewBreakdown(b, "INR")
	if len(out.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(out.Items))
	}
	line := out.Items[0]
	if line.Name != "Kettle" || line.SKU == nil || *line.SKU != "KET-RED" {
		t.Fatalf("unexpected line projection %+v", line)
	}
	if out.Coupon != nil {
		t.Fatal("rejected coupon must not be projected")
	}

	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["finalTotal"] != "948.88" {
		t.Fatalf("expected decimal string total, got %v", decoded["finalTotal"])
	}
	if decoded["couponRejection"] != string(enums.CouponRejectionBelowMinimum) {
		t.Fatalf("expected rejection reason, got %v", decoded["couponRejection"])
	}
}

func TestNewBreakdownNil(t *testing.T) {
	if NewBreakdown(nil, "INR") != nil {
		t.Fatal("expected nil")
	}
}

func TestNewBreakdownRendersMoneyWithTwoPlaces(t *testing.T) {
	dealPrice := decimal.RequireFromString("712.5")
	b := &totals.Breakdown{
		Lines: []totals.PricedLine{{
			ProductID:     uuid.New(),
			Quantity:      1,
			UnitPrice:     dealPrice,
			OriginalPrice: decimal.NewFromInt(800),
			DealPrice:     &dealPrice,
			LineTotal:     dealPrice,
		}},
		Subtotal:    decimal.NewFromInt(800),
		Discount:    decimal.Zero,
		ShippingFee: decimal.RequireFromString("59.4"),
		FinalTotal:  decimal.RequireFromString("859.4"),
	}

	raw, err := json.Marshal(NewBreakdown(b, "PKR"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Subtotal    string `json:"subtotal"`
		Discount    string `json:"discount"`
		ShippingFee string `json:"shippingFee"`
		CODFee      string `json:"codFee"`
		FinalTotal  string `json:"finalTotal"`
		Items       []struct {
			UnitPrice     string `json:"unitPrice"`
			OriginalPrice string `json:"originalPrice"`
			DealPrice     string `json:"dealPrice"`
		} `json:"items"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := []string{decoded.Subtotal, decoded.Discount, decoded.ShippingFee, decoded.CODFee, decoded.FinalTotal}
	want := []string{"800.00", "0.00", "59.40", "0.00", "859.40"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v got %v", want, got)
		}
	}
	line := decoded.Items[0]
	if line.UnitPrice != "712.50" || line.OriginalPrice != "800.00" || line.DealPrice != "712.50" {
		t.Fatalf("unexpected line money %+v", line)
	}
}

func TestMoneyRoundTrip(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"19.9"`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !m.Decimal().Equal(decimal.RequireFromString("19.9")) || m.String() != "19.90" {
		t.Fatalf("unexpected money %s", m)
	}
}
