// internal/service/message/personalizer.go
package message

import (
	"strings"
	"time"

	"offers-service/internal/domain/party"
	"offers-service/internal/domain/rule"
)

// Mode selects the fallback policy for missing data. Live substitution
// (actual sends) uses empty strings; preview substitution keeps descriptive
// bracketed placeholders so the owner can see which fields would fill in.
type Mode string

const (
	ModeLive    Mode = "live"
	ModePreview Mode = "preview"
)

const dateLayout = "Jan 2, 2006"

// Fixed token set. Tokens outside this set are left verbatim in the output;
// an unknown token is not an error.
const (
	tokenCustomerName    = "{{customerName}}"
	tokenPendingBalance  = "{{pendingBalance}}"
	tokenBusinessName    = "{{businessName}}"
	tokenBusinessAddress = "{{businessAddress}}"
	tokenBusinessPhone   = "{{businessPhone}}"
	tokenDate            = "{{date}}"
	tokenOfferName       = "{{offerName}}"
	tokenOfferDiscount   = "{{offerDiscount}}"
	tokenOfferStart      = "{{offerStart}}"
	tokenOfferEnd        = "{{offerEnd}}"
)

var previewPlaceholders = map[string]string{
	tokenCustomerName:    "[Customer Name]",
	tokenPendingBalance:  "[Pending Balance]",
	tokenBusinessName:    "[Business Name]",
	tokenBusinessAddress: "[Business Address]",
	tokenBusinessPhone:   "[Business Phone]",
}

// Personalize substitutes the known tokens in templateText from customer,
// business and (when bound) rule data. It is a pure string transform: it
// never fails, regardless of which inputs are nil or which fields are empty.
// The offer tokens are substituted only when a rule is bound; otherwise they
// pass through verbatim.
func Personalize(templateText string, customer *party.Customer, business *party.BusinessProfile, r *rule.Rule, mode Mode) string {
	pairs := make([]string, 0, 20)

	pairs = append(pairs, tokenDate, time.Now().Format(dateLayout))

	if customer != nil {
		pairs = append(pairs,
			tokenCustomerName, customer.Name,
			tokenPendingBalance, customer.PendingBalance.String(),
		)
	} else {
		pairs = append(pairs,
			tokenCustomerName, fallback(tokenCustomerName, mode),
			tokenPendingBalance, fallback(tokenPendingBalance, mode),
		)
	}

	if business != nil {
		pairs = append(pairs,
			tokenBusinessName, business.Name,
			tokenBusinessAddress, business.Address,
			tokenBusinessPhone, business.Phone,
		)
	} else {
		pairs = append(pairs,
			tokenBusinessName, fallback(tokenBusinessName, mode),
			tokenBusinessAddress, fallback(tokenBusinessAddress, mode),
			tokenBusinessPhone, fallback(tokenBusinessPhone, mode),
		)
	}

	if r != nil {
		end := "Ongoing"
		if r.EndDate != nil {
			end = r.EndDate.Format(dateLayout)
		}
		pairs = append(pairs,
			tokenOfferName, r.Name,
			tokenOfferDiscount, r.Description,
			tokenOfferStart, r.StartDate.Format(dateLayout),
			tokenOfferEnd, end,
		)
	}

	return strings.NewReplacer(pairs...).Replace(templateText)
}

func fallback(token string, mode Mode) string {
	if mode == ModePreview {
		return previewPlaceholders[token]
	}
	return ""
}
