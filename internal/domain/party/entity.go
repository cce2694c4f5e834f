// internal/domain/party/entity.go
package party

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the slice of the platform's party record this service reads:
// identity, contact and outstanding balance for message personalization.
type Customer struct {
	ID             string          `json:"id" db:"id"`
	BusinessID     int64           `json:"business_id" db:"business_id"`
	Name           string          `json:"name" db:"name"`
	Phone          string          `json:"phone" db:"phone"`
	PendingBalance decimal.Decimal `json:"pending_balance" db:"pending_balance"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// BusinessProfile carries the business-facing fields used in messages.
type BusinessProfile struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Address string `json:"address" db:"address"`
	Phone   string `json:"phone" db:"phone"`
}
