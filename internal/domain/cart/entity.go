// internal/domain/cart/entity.go
package cart

import (
	"offers-service/internal/domain/rule"

	"github.com/shopspring/decimal"
)

// Item is one cart line. Amount is always recomputed by the engine from
// Qty and Price; IsFree marks lines injected by the engine rather than
// chosen by the customer.
type Item struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Qty         int             `json:"qty"`
	Price       decimal.Decimal `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
	IsFree      bool            `json:"is_free"`
}

// OfferSummary describes one rule's outcome inside an evaluation result.
type OfferSummary struct {
	RuleID       string          `json:"rule_id"`
	Name         string          `json:"name"`
	Type         rule.Type       `json:"rule_type"`
	Description  string          `json:"description"`
	DisplayValue string          `json:"display_value"`
	Discount     decimal.Decimal `json:"discount"`
}

// EvaluationResult is the priced cart plus an explanation of what applied.
// AppliedOffers changed the price or added items; AvailableOffers were
// eligible but their conditions were not met.
type EvaluationResult struct {
	Items           []Item          `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	AppliedOffers   []OfferSummary  `json:"applied_offers"`
	AvailableOffers []OfferSummary  `json:"available_offers"`
}

type EvaluateRequest struct {
	CustomerID      string   `json:"customer_id"`
	Items           []Item   `json:"items" binding:"required"`
	ExcludedRuleIDs []string `json:"excluded_rule_ids"`
}
