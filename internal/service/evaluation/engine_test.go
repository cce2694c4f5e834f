package evaluation

import (
	"testing"

	"offers-service/internal/domain/cart"
	"offers-service/internal/domain/rule"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestEngine() *Engine {
	return NewEngine(zap.NewNop())
}

func TestEvaluateCartValuePercentage(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductID: "p1", ProductName: "Rice", Qty: 2, Price: dec("500")},
	}
	rules := []rule.Rule{
		{
			ID:            "r1",
			Type:          rule.TypeCartValue,
			MinPurchase:   dec("500"),
			DiscountType:  rule.DiscountPercentage,
			DiscountValue: dec("10"),
			TargetType:    rule.TargetAll,
		},
	}

	res := e.Evaluate(items, rules, "cust-1", nil)

	if !res.Subtotal.Equal(dec("1000")) {
		t.Fatalf("subtotal = %s, want 1000", res.Subtotal)
	}
	if !res.Discount.Equal(dec("100")) {
		t.Fatalf("discount = %s, want 100", res.Discount)
	}
	if !res.GrandTotal.Equal(dec("900")) {
		t.Fatalf("grand total = %s, want 900", res.GrandTotal)
	}
	if len(res.AppliedOffers) != 1 || res.AppliedOffers[0].RuleID != "r1" {
		t.Fatalf("applied offers = %+v, want r1 applied", res.AppliedOffers)
	}
	if len(res.AvailableOffers) != 0 {
		t.Fatalf("available offers = %+v, want none", res.AvailableOffers)
	}
}

func TestEvaluateCartValueBelowMinimum(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductID: "p1", ProductName: "Rice", Qty: 1, Price: dec("100")},
	}
	rules := []rule.Rule{
		{
			ID:            "r1",
			Type:          rule.TypeCartValue,
			MinPurchase:   dec("500"),
			DiscountType:  rule.DiscountPercentage,
			DiscountValue: dec("10"),
			TargetType:    rule.TargetAll,
		},
	}

	res := e.Evaluate(items, rules, "cust-1", nil)

	if !res.Discount.IsZero() {
		t.Fatalf("discount = %s, want 0", res.Discount)
	}
	if len(res.AppliedOffers) != 0 {
		t.Fatalf("applied offers = %+v, want none", res.AppliedOffers)
	}
	if len(res.AvailableOffers) != 1 || res.AvailableOffers[0].RuleID != "r1" {
		t.Fatalf("available offers = %+v, want r1 available", res.AvailableOffers)
	}
}

func TestEvaluateBogoInjectsFreeItems(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductName: "Rice", Qty: 12, Price: dec("80")},
	}
	rules := []rule.Rule{
		{
			ID:             "r1",
			Type:           rule.TypeBogo,
			BuyProductName: "Rice",
			BuyQty:         5,
			GetProductName: "Oil",
			GetQty:         1,
			TargetType:     rule.TargetAll,
		},
	}

	res := e.Evaluate(items, rules, "cust-1", nil)

	// 12 / 5 = 2 sets -> 2 free Oil
	var free *cart.Item
	for i := range res.Items {
		if res.Items[i].IsFree {
			free = &res.Items[i]
		}
	}
	if free == nil {
		t.Fatal("expected a free item in the output cart")
	}
	if free.ProductName != "Oil" || free.Qty != 2 {
		t.Fatalf("free item = %+v, want Oil qty 2", free)
	}
	if free.Price.IsZero() {
		t.Fatal("free item must carry a positive nominal price")
	}
	if !res.Discount.IsZero() {
		t.Fatalf("bogo must not discount, got %s", res.Discount)
	}
	if len(res.AppliedOffers) != 1 {
		t.Fatalf("applied offers = %+v, want r1 applied", res.AppliedOffers)
	}
}

func TestEvaluateBogoTriggerNotMet(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductName: "Rice", Qty: 3, Price: dec("80")},
	}
	rules := []rule.Rule{
		{
			ID:             "r1",
			Type:           rule.TypeBogo,
			BuyProductName: "Rice",
			BuyQty:         5,
			GetProductName: "Oil",
			GetQty:         1,
			TargetType:     rule.TargetAll,
		},
	}

	res := e.Evaluate(items, rules, "cust-1", nil)

	if len(res.AppliedOffers) != 0 {
		t.Fatalf("applied offers = %+v, want none", res.AppliedOffers)
	}
	if len(res.AvailableOffers) != 1 {
		t.Fatalf("available offers = %+v, want r1 available", res.AvailableOffers)
	}
	for _, it := range res.Items {
		if it.IsFree {
			t.Fatalf("no free items expected, got %+v", it)
		}
	}
}

func TestEvaluateProductDiscClampedToItemAmount(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductName: "Soap", Qty: 1, Price: dec("50")},
	}
	rules := []rule.Rule{
		{
			ID:             "r1",
			Type:           rule.TypeProductDisc,
			BuyProductName: "Soap",
			DiscountType:   rule.DiscountFlat,
			DiscountValue:  dec("1000"),
			TargetType:     rule.TargetAll,
		},
	}

	res := e.Evaluate(items, rules, "cust-1", nil)

	if !res.Discount.Equal(dec("50")) {
		t.Fatalf("discount = %s, want 50 (clamped to item amount)", res.Discount)
	}
	if !res.GrandTotal.IsZero() {
		t.Fatalf("grand total = %s, want 0", res.GrandTotal)
	}
}

func TestEvaluateProductDiscPercentage(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductID: "p9", ProductName: "Soap", Qty: 4, Price: dec("25")},
	}
	rules := []rule.Rule{
		{
			ID:            "r1",
			Type:          rule.TypeProductDisc,
			BuyProductID:  "p9",
			DiscountType:  rule.DiscountPercentage,
			DiscountValue: dec("20"),
			TargetType:    rule.TargetAll,
		},
	}

	res := e.Evaluate(items, rules, "cust-1", nil)

	// 4 * 25 = 100, 20% -> 20
	if !res.Discount.Equal(dec("20")) {
		t.Fatalf("discount = %s, want 20", res.Discount)
	}
}

func TestEvaluateDiscountNeverExceedsSubtotal(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductName: "Soap", Qty: 1, Price: dec("100")},
	}
	rules := []rule.Rule{
		{
			ID:            "r1",
			Type:          rule.TypeCartValue,
			MinPurchase:   dec("0"),
			DiscountType:  rule.DiscountFlat,
			DiscountValue: dec("80"),
			TargetType:    rule.TargetAll,
		},
		{
			ID:            "r2",
			Type:          rule.TypeCartValue,
			MinPurchase:   dec("0"),
			DiscountType:  rule.DiscountFlat,
			DiscountValue: dec("80"),
			TargetType:    rule.TargetAll,
		},
	}

	res := e.Evaluate(items, rules, "cust-1", nil)

	if !res.Discount.Equal(dec("100")) {
		t.Fatalf("discount = %s, want clamped to subtotal 100", res.Discount)
	}
	if !res.GrandTotal.IsZero() {
		t.Fatalf("grand total = %s, want 0", res.GrandTotal)
	}
	// Both rules still applied; the clamp acts on the total, not per rule.
	if len(res.AppliedOffers) != 2 {
		t.Fatalf("applied offers = %+v, want both", res.AppliedOffers)
	}
}

func TestEvaluateRulesStackAdditively(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductID: "p1", ProductName: "Rice", Qty: 2, Price: dec("500")},
	}
	rules := []rule.Rule{
		{
			ID:            "r1",
			Type:          rule.TypeCartValue,
			MinPurchase:   dec("500"),
			DiscountType:  rule.DiscountPercentage,
			DiscountValue: dec("10"),
			TargetType:    rule.TargetAll,
		},
		{
			ID:            "r2",
			Type:          rule.TypeProductDisc,
			BuyProductID:  "p1",
			DiscountType:  rule.DiscountFlat,
			DiscountValue: dec("50"),
			TargetType:    rule.TargetAll,
		},
	}

	res := e.Evaluate(items, rules, "cust-1", nil)

	// 100 from cart_value + 100 flat (50 * qty 2) from product_disc
	if !res.Discount.Equal(dec("200")) {
		t.Fatalf("discount = %s, want 200", res.Discount)
	}
	if len(res.AppliedOffers) != 2 {
		t.Fatalf("applied offers = %+v, want both", res.AppliedOffers)
	}
	if res.AppliedOffers[0].RuleID != "r1" || res.AppliedOffers[1].RuleID != "r2" {
		t.Fatalf("applied order = %+v, want input order", res.AppliedOffers)
	}
}

func TestEvaluateFreeItemsDerivedFresh(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductName: "Rice", Qty: 12, Price: dec("80")},
	}
	rules := []rule.Rule{
		{
			ID:             "r1",
			Type:           rule.TypeBogo,
			BuyProductName: "Rice",
			BuyQty:         5,
			GetProductName: "Oil",
			GetQty:         1,
			TargetType:     rule.TargetAll,
		},
	}

	first := e.Evaluate(items, rules, "cust-1", nil)
	// Feed the output cart (including injected free lines) straight back in.
	second := e.Evaluate(first.Items, rules, "cust-1", nil)

	countFree := func(res cart.EvaluationResult) int {
		n := 0
		for _, it := range res.Items {
			if it.IsFree {
				n += it.Qty
			}
		}
		return n
	}

	if countFree(first) != countFree(second) {
		t.Fatalf("free qty changed between evaluations: %d vs %d", countFree(first), countFree(second))
	}
	if !first.Subtotal.Equal(second.Subtotal) {
		t.Fatalf("subtotal changed between evaluations: %s vs %s", first.Subtotal, second.Subtotal)
	}

	// Deactivating the rule removes its free items on the next evaluation.
	third := e.Evaluate(first.Items, nil, "cust-1", nil)
	if countFree(third) != 0 {
		t.Fatalf("free items must disappear with their rule, got %d", countFree(third))
	}
}

func TestEvaluateExcludedRuleAbsentFromBothLists(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductName: "Rice", Qty: 2, Price: dec("500")},
	}
	rules := []rule.Rule{
		{
			ID:            "r1",
			Type:          rule.TypeCartValue,
			MinPurchase:   dec("0"),
			DiscountType:  rule.DiscountPercentage,
			DiscountValue: dec("10"),
			TargetType:    rule.TargetAll,
		},
	}

	res := e.Evaluate(items, rules, "cust-1", []string{"r1"})

	if len(res.AppliedOffers) != 0 || len(res.AvailableOffers) != 0 {
		t.Fatalf("excluded rule leaked into result: applied=%+v available=%+v",
			res.AppliedOffers, res.AvailableOffers)
	}
	if !res.Discount.IsZero() {
		t.Fatalf("discount = %s, want 0", res.Discount)
	}
}

func TestEvaluateIDMatchPreferredOverName(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductID: "p1", ProductName: "Rice Flour", Qty: 1, Price: dec("40")},
		{ProductID: "p2", ProductName: "Plain Rice", Qty: 1, Price: dec("60")},
	}
	rules := []rule.Rule{
		{
			ID:             "r1",
			Type:           rule.TypeProductDisc,
			BuyProductID:   "p2",
			BuyProductName: "rice",
			DiscountType:   rule.DiscountPercentage,
			DiscountValue:  dec("50"),
			TargetType:     rule.TargetAll,
		},
	}

	res := e.Evaluate(items, rules, "cust-1", nil)

	// The id stage matches p2 (amount 60) even though the name stage would
	// have hit the first line.
	if !res.Discount.Equal(dec("30")) {
		t.Fatalf("discount = %s, want 30 (50%% of p2)", res.Discount)
	}
}

func TestEvaluateNameMatchCaseInsensitiveSubstring(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductName: "Basmati RICE 5kg", Qty: 1, Price: dec("100")},
	}
	rules := []rule.Rule{
		{
			ID:             "r1",
			Type:           rule.TypeProductDisc,
			BuyProductName: "rice",
			DiscountType:   rule.DiscountPercentage,
			DiscountValue:  dec("10"),
			TargetType:     rule.TargetAll,
		},
	}

	res := e.Evaluate(items, rules, "cust-1", nil)

	if !res.Discount.Equal(dec("10")) {
		t.Fatalf("discount = %s, want 10", res.Discount)
	}
}

func TestEvaluateMalformedRuleDegradesSilently(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductName: "Rice", Qty: 10, Price: dec("80")},
	}
	rules := []rule.Rule{
		{
			// bogo with no quantities is never applicable
			ID:             "bad",
			Type:           rule.TypeBogo,
			BuyProductName: "Rice",
			TargetType:     rule.TargetAll,
		},
		{
			ID:            "good",
			Type:          rule.TypeCartValue,
			MinPurchase:   dec("0"),
			DiscountType:  rule.DiscountFlat,
			DiscountValue: dec("10"),
			TargetType:    rule.TargetAll,
		},
	}

	res := e.Evaluate(items, rules, "cust-1", nil)

	if !res.Discount.Equal(dec("10")) {
		t.Fatalf("discount = %s, want 10 from the valid rule", res.Discount)
	}
	if len(res.AvailableOffers) != 1 || res.AvailableOffers[0].RuleID != "bad" {
		t.Fatalf("available offers = %+v, want the malformed rule", res.AvailableOffers)
	}
}

func TestEvaluateMalformedCartLineContributesNothing(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductName: "Rice", Qty: -3, Price: dec("80")},
		{ProductName: "Oil", Qty: 2, Price: dec("-5")},
		{ProductName: "Soap", Qty: 1, Price: dec("20")},
	}

	res := e.Evaluate(items, nil, "cust-1", nil)

	if !res.Subtotal.Equal(dec("20")) {
		t.Fatalf("subtotal = %s, want 20", res.Subtotal)
	}
	if !res.GrandTotal.Equal(dec("20")) {
		t.Fatalf("grand total = %s, want 20", res.GrandTotal)
	}
}

func TestEvaluateSpecificTargetingFiltersCustomers(t *testing.T) {
	e := newTestEngine()
	items := []cart.Item{
		{ProductName: "Rice", Qty: 2, Price: dec("500")},
	}
	rules := []rule.Rule{
		{
			ID:                "r1",
			Type:              rule.TypeCartValue,
			MinPurchase:       dec("0"),
			DiscountType:      rule.DiscountPercentage,
			DiscountValue:     dec("10"),
			TargetType:        rule.TargetSpecific,
			SelectedCustomers: []string{"cust-A"},
		},
	}

	forA := e.Evaluate(items, rules, "cust-A", nil)
	if len(forA.AppliedOffers) != 1 {
		t.Fatalf("rule should apply for cust-A, got %+v", forA.AppliedOffers)
	}

	forB := e.Evaluate(items, rules, "cust-B", nil)
	if len(forB.AppliedOffers) != 0 || len(forB.AvailableOffers) != 0 {
		t.Fatalf("rule should be invisible to cust-B, got applied=%+v available=%+v",
			forB.AppliedOffers, forB.AvailableOffers)
	}
}
