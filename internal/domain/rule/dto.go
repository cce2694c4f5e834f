// internal/domain/rule/dto.go
package rule

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateRuleRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Type Type   `json:"rule_type" binding:"required,oneof=cart_value product_disc bogo"`

	MinPurchase decimal.Decimal `json:"min_purchase"`

	DiscountType  DiscountType    `json:"discount_type" binding:"omitempty,oneof=percentage flat"`
	DiscountValue decimal.Decimal `json:"discount_value"`

	BuyProductID   string `json:"buy_product_id"`
	BuyProductName string `json:"buy_product_name"`
	BuyQty         int    `json:"buy_qty" binding:"omitempty,min=1"`
	GetProductID   string `json:"get_product_id"`
	GetProductName string `json:"get_product_name"`
	GetQty         int    `json:"get_qty" binding:"omitempty,min=1"`

	UsageType       UsageType `json:"usage_type" binding:"required,oneof=single unlimited limited"`
	UsageLimitCount int       `json:"usage_limit_count" binding:"omitempty,min=1"`

	TargetType        TargetType      `json:"target_type" binding:"required,oneof=all top_spenders frequent specific"`
	SelectedCustomers []string        `json:"selected_customers"`
	SpendWindowDays   int             `json:"spend_window_days" binding:"omitempty,min=1"`
	MinSpendAmount    decimal.Decimal `json:"min_spend_amount"`
	MinVisitCount     int             `json:"min_visit_count" binding:"omitempty,min=1"`

	StartDate time.Time  `json:"start_date" binding:"required"`
	EndDate   *time.Time `json:"end_date"`
}

type UpdateRuleRequest struct {
	Name *string `json:"name" binding:"omitempty,max=255"`

	MinPurchase *decimal.Decimal `json:"min_purchase"`

	DiscountType  *DiscountType    `json:"discount_type" binding:"omitempty,oneof=percentage flat"`
	DiscountValue *decimal.Decimal `json:"discount_value"`

	BuyProductID   *string `json:"buy_product_id"`
	BuyProductName *string `json:"buy_product_name"`
	BuyQty         *int    `json:"buy_qty" binding:"omitempty,min=1"`
	GetProductID   *string `json:"get_product_id"`
	GetProductName *string `json:"get_product_name"`
	GetQty         *int    `json:"get_qty" binding:"omitempty,min=1"`

	UsageType       *UsageType `json:"usage_type" binding:"omitempty,oneof=single unlimited limited"`
	UsageLimitCount *int       `json:"usage_limit_count" binding:"omitempty,min=1"`

	TargetType        *TargetType      `json:"target_type" binding:"omitempty,oneof=all top_spenders frequent specific"`
	SelectedCustomers []string         `json:"selected_customers"`
	SpendWindowDays   *int             `json:"spend_window_days" binding:"omitempty,min=1"`
	MinSpendAmount    *decimal.Decimal `json:"min_spend_amount"`
	MinVisitCount     *int             `json:"min_visit_count" binding:"omitempty,min=1"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

type ListFilters struct {
	Status   *Status `form:"status" binding:"omitempty,oneof=scheduled active paused expired"`
	Type     *Type   `form:"rule_type" binding:"omitempty,oneof=cart_value product_disc bogo"`
	Page     int     `form:"page" binding:"omitempty,min=1"`
	PageSize int     `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type ListResponse struct {
	Rules      []Rule `json:"rules"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}
