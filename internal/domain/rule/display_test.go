package rule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeriveDisplayCartValue(t *testing.T) {
	r := &Rule{
		Type:          TypeCartValue,
		MinPurchase:   dec("500"),
		DiscountType:  DiscountPercentage,
		DiscountValue: dec("10"),
	}

	desc, display := DeriveDisplay(r)
	if desc != "Get 10% off on purchases above 500" {
		t.Fatalf("description = %q", desc)
	}
	if display != "10% OFF" {
		t.Fatalf("display value = %q", display)
	}

	r.DiscountType = DiscountFlat
	r.DiscountValue = dec("50")
	desc, display = DeriveDisplay(r)
	if desc != "Get 50 off on purchases above 500" {
		t.Fatalf("flat description = %q", desc)
	}
	if display != "50 OFF" {
		t.Fatalf("flat display value = %q", display)
	}
}

func TestDeriveDisplayProductDisc(t *testing.T) {
	r := &Rule{
		Type:           TypeProductDisc,
		BuyProductName: "Rice",
		DiscountType:   DiscountPercentage,
		DiscountValue:  dec("20"),
	}

	desc, display := DeriveDisplay(r)
	if desc != "Get 20% off on Rice" {
		t.Fatalf("description = %q", desc)
	}
	if display != "20% OFF" {
		t.Fatalf("display value = %q", display)
	}
}

func TestDeriveDisplayBogo(t *testing.T) {
	r := &Rule{
		Type:           TypeBogo,
		BuyProductName: "Rice",
		BuyQty:         5,
		GetProductName: "Oil",
		GetQty:         1,
	}

	desc, display := DeriveDisplay(r)
	if desc != "Buy 5 Rice, get 1 Oil free" {
		t.Fatalf("description = %q", desc)
	}
	if display != "Buy 5 Get 1" {
		t.Fatalf("display value = %q", display)
	}
}

func TestDeriveDisplayFallsBackToProductID(t *testing.T) {
	r := &Rule{
		Type:          TypeProductDisc,
		BuyProductID:  "p42",
		DiscountType:  DiscountFlat,
		DiscountValue: dec("5"),
	}

	desc, _ := DeriveDisplay(r)
	if desc != "Get 5 off per p42" {
		t.Fatalf("description = %q", desc)
	}
}

func TestInitialStatus(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	longPast := now.Add(-48 * time.Hour)
	future := now.Add(time.Hour)

	if got := InitialStatus(future, nil, now); got != StatusScheduled {
		t.Fatalf("future start = %s, want scheduled", got)
	}
	if got := InitialStatus(past, nil, now); got != StatusActive {
		t.Fatalf("past start, no end = %s, want active", got)
	}
	if got := InitialStatus(past, &future, now); got != StatusActive {
		t.Fatalf("inside window = %s, want active", got)
	}
	if got := InitialStatus(longPast, &past, now); got != StatusExpired {
		t.Fatalf("past end = %s, want expired", got)
	}
}
