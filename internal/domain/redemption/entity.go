// internal/domain/redemption/entity.go
package redemption

import (
	"time"

	"github.com/shopspring/decimal"
)

// Redemption is one ledger row: a rule applied to a committed checkout.
// The ledger is consulted by the checkout layer to pre-filter capped rules;
// the rule engine itself never reads or writes it.
type Redemption struct {
	ID         string          `json:"id" db:"id"`
	BusinessID int64           `json:"business_id" db:"business_id"`
	RuleID     string          `json:"rule_id" db:"rule_id"`
	CustomerID string          `json:"customer_id" db:"customer_id"`
	Discount   decimal.Decimal `json:"discount" db:"discount"`
	RedeemedAt time.Time       `json:"redeemed_at" db:"redeemed_at"`
}
