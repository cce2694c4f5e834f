// internal/service/evaluation/engine.go
package evaluation

import (
	"strings"

	"offers-service/internal/domain/cart"
	"offers-service/internal/domain/rule"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// freeItemUnitPrice is the nominal price carried by injected free lines.
// Downstream persistence rejects zero-priced records; the amount never
// reaches the grand total because free lines are excluded from the subtotal.
var freeItemUnitPrice = decimal.New(1, -2) // 0.01

var oneHundred = decimal.NewFromInt(100)

// Engine evaluates a cart against a set of candidate rules. It is stateless
// and side-effect-free; concurrent calls need no coordination.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Evaluate prices a cart against the supplied rules for one customer.
//
// Rules are processed in input order and stack additively; there is no
// mutual exclusion or best-for-customer selection. The caller is expected
// to pass only time-active rules and to have enforced usage caps already;
// the engine is cap-agnostic. Malformed rules or cart lines degrade to
// contributing nothing, never to an error.
func (e *Engine) Evaluate(items []cart.Item, activeRules []rule.Rule, customerID string, excludedRuleIDs []string) cart.EvaluationResult {
	// Re-derive free items fresh on every call: stale free lines from a
	// previous evaluation are stripped before anything else.
	paid := make([]cart.Item, 0, len(items))
	for _, it := range items {
		if it.IsFree {
			continue
		}
		it.Qty = sanitizeQty(it.Qty)
		it.Price = sanitizeAmount(it.Price)
		it.Amount = it.Price.Mul(decimal.NewFromInt(int64(it.Qty)))
		paid = append(paid, it)
	}

	subtotal := decimal.Zero
	for _, it := range paid {
		subtotal = subtotal.Add(it.Amount)
	}

	relevant := make([]rule.Rule, 0, len(activeRules))
	for _, r := range activeRules {
		if IsEligible(&r, customerID, excludedRuleIDs) {
			relevant = append(relevant, r)
		}
	}

	result := cart.EvaluationResult{
		Subtotal:        subtotal,
		AppliedOffers:   []cart.OfferSummary{},
		AvailableOffers: []cart.OfferSummary{},
	}

	discount := decimal.Zero
	freeItems := []cart.Item{}

	for _, r := range relevant {
		switch r.Type {
		case rule.TypeBogo:
			free, ok := e.applyBogo(&r, paid)
			if ok {
				freeItems = append(freeItems, free)
				result.AppliedOffers = append(result.AppliedOffers, summarize(&r, decimal.Zero))
			} else {
				result.AvailableOffers = append(result.AvailableOffers, summarize(&r, decimal.Zero))
			}
		case rule.TypeProductDisc:
			d, ok := e.applyProductDisc(&r, paid)
			if ok {
				discount = discount.Add(d)
				result.AppliedOffers = append(result.AppliedOffers, summarize(&r, d))
			} else {
				result.AvailableOffers = append(result.AvailableOffers, summarize(&r, decimal.Zero))
			}
		case rule.TypeCartValue:
			d, ok := e.applyCartValue(&r, subtotal)
			if ok {
				discount = discount.Add(d)
				result.AppliedOffers = append(result.AppliedOffers, summarize(&r, d))
			} else {
				result.AvailableOffers = append(result.AvailableOffers, summarize(&r, decimal.Zero))
			}
		default:
			// Unknown kind: skip silently rather than abort the evaluation.
			e.logger.Debug("skipping rule with unknown type",
				zap.String("rule_id", r.ID),
				zap.String("rule_type", string(r.Type)),
			)
		}
	}

	// Discount can never exceed the subtotal or go negative.
	if discount.LessThan(decimal.Zero) {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	result.Items = append(paid, freeItems...)
	result.Discount = discount
	result.GrandTotal = subtotal.Sub(discount)
	return result
}

// applyBogo injects a free line when the trigger quantity is met. A rule
// missing its quantities is never applicable.
func (e *Engine) applyBogo(r *rule.Rule, paid []cart.Item) (cart.Item, bool) {
	if r.BuyQty < 1 || r.GetQty < 1 {
		return cart.Item{}, false
	}
	idx := findItem(paid, r.BuyProductID, r.BuyProductName)
	if idx < 0 || paid[idx].Qty < r.BuyQty {
		return cart.Item{}, false
	}
	sets := paid[idx].Qty / r.BuyQty
	freeQty := sets * r.GetQty
	if freeQty <= 0 {
		return cart.Item{}, false
	}
	return cart.Item{
		ProductID:   r.GetProductID,
		ProductName: r.GetProductName,
		Qty:         freeQty,
		Price:       freeItemUnitPrice,
		Amount:      freeItemUnitPrice.Mul(decimal.NewFromInt(int64(freeQty))),
		IsFree:      true,
	}, true
}

// applyProductDisc discounts a single matching line, clamped so the
// discount never exceeds that line's own amount.
func (e *Engine) applyProductDisc(r *rule.Rule, paid []cart.Item) (decimal.Decimal, bool) {
	idx := findItem(paid, r.BuyProductID, r.BuyProductName)
	if idx < 0 || paid[idx].Qty < 1 {
		return decimal.Zero, false
	}
	it := paid[idx]

	var d decimal.Decimal
	if r.DiscountType == rule.DiscountPercentage {
		d = it.Amount.Mul(r.DiscountValue).Div(oneHundred)
	} else {
		d = r.DiscountValue.Mul(decimal.NewFromInt(int64(it.Qty)))
	}
	if d.LessThan(decimal.Zero) {
		d = decimal.Zero
	}
	if d.GreaterThan(it.Amount) {
		d = it.Amount
	}
	return d, true
}

// applyCartValue discounts the whole cart once the subtotal meets the floor.
func (e *Engine) applyCartValue(r *rule.Rule, subtotal decimal.Decimal) (decimal.Decimal, bool) {
	if subtotal.LessThan(r.MinPurchase) {
		return decimal.Zero, false
	}
	var d decimal.Decimal
	if r.DiscountType == rule.DiscountPercentage {
		d = subtotal.Mul(r.DiscountValue).Div(oneHundred)
	} else {
		d = r.DiscountValue
	}
	if d.LessThan(decimal.Zero) {
		d = decimal.Zero
	}
	return d, true
}

// findItem locates a cart line by product reference: exact id match first,
// then a case-insensitive substring scan over names. The first matching
// line wins in either stage; ties never consider later lines.
func findItem(items []cart.Item, productID, productName string) int {
	if productID != "" {
		for i := range items {
			if items[i].ProductID == productID {
				return i
			}
		}
	}
	if productName != "" {
		needle := strings.ToLower(productName)
		for i := range items {
			if strings.Contains(strings.ToLower(items[i].ProductName), needle) {
				return i
			}
		}
	}
	return -1
}

func summarize(r *rule.Rule, discount decimal.Decimal) cart.OfferSummary {
	return cart.OfferSummary{
		RuleID:       r.ID,
		Name:         r.Name,
		Type:         r.Type,
		Description:  r.Description,
		DisplayValue: r.DisplayValue,
		Discount:     discount,
	}
}

func sanitizeQty(q int) int {
	if q < 0 {
		return 0
	}
	return q
}

func sanitizeAmount(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return d
}
