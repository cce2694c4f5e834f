// internal/service/evaluation/targeting.go
package evaluation

import "offers-service/internal/domain/rule"

// IsEligible decides whether a rule may be considered for a customer.
//
// Rules present in excludedRuleIDs are suppressed regardless of targeting
// (the caller uses this when a customer manually removed an offer). For
// specific targeting the customer must be on the rule's list. For all,
// top_spenders and frequent the rule is eligible at this boundary: the
// spend/visit qualification is computed upstream by the analytics
// collaborator before the rule is handed in, and is not re-derived here.
func IsEligible(r *rule.Rule, customerID string, excludedRuleIDs []string) bool {
	for _, id := range excludedRuleIDs {
		if id == r.ID {
			return false
		}
	}

	if r.TargetType == rule.TargetSpecific {
		for _, c := range r.SelectedCustomers {
			if c == customerID {
				return true
			}
		}
		return false
	}

	return true
}
