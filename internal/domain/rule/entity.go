// internal/domain/rule/entity.go
package rule

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeCartValue   Type = "cart_value"
	TypeProductDisc Type = "product_disc"
	TypeBogo        Type = "bogo"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

type UsageType string

const (
	UsageSingle    UsageType = "single"
	UsageUnlimited UsageType = "unlimited"
	UsageLimited   UsageType = "limited"
)

type TargetType string

const (
	TargetAll         TargetType = "all"
	TargetTopSpenders TargetType = "top_spenders"
	TargetFrequent    TargetType = "frequent"
	TargetSpecific    TargetType = "specific"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusExpired   Status = "expired"
)

// Rule is one promotional rule owned by a business. Exactly one Type's
// parameter subset is authoritative; code must never read fields belonging
// to a different kind.
type Rule struct {
	ID         string `json:"id" db:"id"`
	BusinessID int64  `json:"business_id" db:"business_id"`

	Name string `json:"name" db:"name"`
	Type Type   `json:"rule_type" db:"rule_type"`

	// cart_value parameters
	MinPurchase decimal.Decimal `json:"min_purchase" db:"min_purchase"`

	// cart_value + product_disc parameters
	DiscountType  DiscountType    `json:"discount_type,omitempty" db:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value" db:"discount_value"`

	// product_disc + bogo trigger parameters
	BuyProductID   string `json:"buy_product_id,omitempty" db:"buy_product_id"`
	BuyProductName string `json:"buy_product_name,omitempty" db:"buy_product_name"`

	// bogo parameters
	BuyQty         int    `json:"buy_qty,omitempty" db:"buy_qty"`
	GetProductID   string `json:"get_product_id,omitempty" db:"get_product_id"`
	GetProductName string `json:"get_product_name,omitempty" db:"get_product_name"`
	GetQty         int    `json:"get_qty,omitempty" db:"get_qty"`

	// Usage policy. Enforcement against the redemption ledger happens in the
	// checkout layer, never inside the engine.
	UsageType       UsageType `json:"usage_type" db:"usage_type"`
	UsageLimitCount int       `json:"usage_limit_count,omitempty" db:"usage_limit_count"`

	// Targeting. top_spenders/frequent qualification is resolved upstream by
	// the analytics collaborator; the window parameters are carried opaquely.
	TargetType        TargetType      `json:"target_type" db:"target_type"`
	SelectedCustomers []string        `json:"selected_customers,omitempty" db:"selected_customers"`
	SpendWindowDays   int             `json:"spend_window_days,omitempty" db:"spend_window_days"`
	MinSpendAmount    decimal.Decimal `json:"min_spend_amount" db:"min_spend_amount"`
	MinVisitCount     int             `json:"min_visit_count,omitempty" db:"min_visit_count"`

	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"`

	Status Status `json:"status" db:"status"`

	// Derived display fields, recomputed via DeriveDisplay on every write.
	Description  string `json:"description" db:"description"`
	DisplayValue string `json:"display_value" db:"display_value"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InitialStatus computes the status a freshly written rule should carry,
// given its temporal window against now. The sweeper keeps it in sync
// afterwards.
func InitialStatus(startDate time.Time, endDate *time.Time, now time.Time) Status {
	if endDate != nil && now.After(*endDate) {
		return StatusExpired
	}
	if now.Before(startDate) {
		return StatusScheduled
	}
	return StatusActive
}

// BuyProductLabel returns the display name of the trigger product, falling
// back to the id when no name was captured.
func (r *Rule) BuyProductLabel() string {
	if r.BuyProductName != "" {
		return r.BuyProductName
	}
	return r.BuyProductID
}

// GetProductLabel returns the display name of the reward product.
func (r *Rule) GetProductLabel() string {
	if r.GetProductName != "" {
		return r.GetProductName
	}
	return r.GetProductID
}
