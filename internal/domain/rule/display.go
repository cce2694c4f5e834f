// internal/domain/rule/display.go
package rule

import "fmt"

// DeriveDisplay computes the presentational description and display value
// for a rule from its kind-specific parameters. Callers must invoke it on
// every create/update so the derived fields never drift from their source
// parameters.
func DeriveDisplay(r *Rule) (description, displayValue string) {
	switch r.Type {
	case TypeCartValue:
		if r.DiscountType == DiscountPercentage {
			description = fmt.Sprintf("Get %s%% off on purchases above %s",
				r.DiscountValue.String(), r.MinPurchase.String())
			displayValue = fmt.Sprintf("%s%% OFF", r.DiscountValue.String())
		} else {
			description = fmt.Sprintf("Get %s off on purchases above %s",
				r.DiscountValue.String(), r.MinPurchase.String())
			displayValue = fmt.Sprintf("%s OFF", r.DiscountValue.String())
		}
	case TypeProductDisc:
		if r.DiscountType == DiscountPercentage {
			description = fmt.Sprintf("Get %s%% off on %s",
				r.DiscountValue.String(), r.BuyProductLabel())
			displayValue = fmt.Sprintf("%s%% OFF", r.DiscountValue.String())
		} else {
			description = fmt.Sprintf("Get %s off per %s",
				r.DiscountValue.String(), r.BuyProductLabel())
			displayValue = fmt.Sprintf("%s OFF", r.DiscountValue.String())
		}
	case TypeBogo:
		description = fmt.Sprintf("Buy %d %s, get %d %s free",
			r.BuyQty, r.BuyProductLabel(), r.GetQty, r.GetProductLabel())
		displayValue = fmt.Sprintf("Buy %d Get %d", r.BuyQty, r.GetQty)
	}
	return description, displayValue
}

// ApplyDisplay recomputes and stores the derived fields in place.
func ApplyDisplay(r *Rule) {
	r.Description, r.DisplayValue = DeriveDisplay(r)
}
