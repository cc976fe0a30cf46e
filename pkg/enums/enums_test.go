package enums

import (
	"encoding/json"
	"testing"
)

func TestParseCurrencyNormalizesCase(t *testing.T) {
	got, err := ParseCurrency(" inr ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != CurrencyINR {
		t.Fatalf("expected INR got %s", got)
	}
	if _, err := ParseCurrency("BTC"); err == nil {
		t.Fatal("expected BTC to be rejected")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	cases := map[string]PaymentMethod{
		"card":  PaymentMethodCard,
		" COD ": PaymentMethodCOD,
	}
	for raw, want := range cases {
		got, err := ParsePaymentMethod(raw)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("%q: expected %s got %s", raw, want, got)
		}
	}
	if _, err := ParsePaymentMethod("cheque"); err == nil {
		t.Fatal("expected cheque to be rejected")
	}
}

func TestCartStatusIsValid(t *testing.T) {
	if !CartStatusActive.IsValid() || !CartStatusConverted.IsValid() {
		t.Fatal("expected known statuses to be valid")
	}
	if CartStatus("abandoned").IsValid() {
		t.Fatal("expected unknown status to be invalid")
	}
}

func TestCartStatusText(t *testing.T) {
	var status CartStatus
	if err := json.Unmarshal([]byte(`"converted"`), &status); err != nil || status != CartStatusConverted {
		t.Fatalf("expected converted, got %q (%v)", status, err)
	}
	if err := json.Unmarshal([]byte(`"abandoned"`), &status); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
	if _, err := json.Marshal(CartStatus("bogus")); err == nil {
		t.Fatal("expected unknown status to fail marshalling")
	}
	if CartStatusConverted.Editable() || !CartStatusActive.Editable() {
		t.Fatal("only active carts are editable")
	}
}

func TestMethodPricingFlags(t *testing.T) {
	if !PaymentMethodCOD.CollectsOnDelivery() || PaymentMethodCard.CollectsOnDelivery() {
		t.Fatal("only cod collects on delivery")
	}
	if !ShippingMethodExpress.Expedited() || ShippingMethodStandard.Expedited() {
		t.Fatal("only express is expedited")
	}
}
