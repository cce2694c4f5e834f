package evaluation

import (
	"testing"

	"offers-service/internal/domain/rule"
)

func TestIsEligibleExcludedRule(t *testing.T) {
	r := &rule.Rule{ID: "r1", TargetType: rule.TargetAll}

	if IsEligible(r, "cust-1", []string{"r1"}) {
		t.Fatal("excluded rule must not be eligible")
	}
	if !IsEligible(r, "cust-1", []string{"other"}) {
		t.Fatal("rule not on the exclusion list must stay eligible")
	}
}

func TestIsEligibleSpecificTargeting(t *testing.T) {
	r := &rule.Rule{
		ID:                "r1",
		TargetType:        rule.TargetSpecific,
		SelectedCustomers: []string{"cust-A", "cust-B"},
	}

	if !IsEligible(r, "cust-A", nil) {
		t.Fatal("listed customer must be eligible")
	}
	if IsEligible(r, "cust-Z", nil) {
		t.Fatal("unlisted customer must not be eligible")
	}
	if IsEligible(r, "", nil) {
		t.Fatal("empty customer id must not match a specific list")
	}
}

func TestIsEligibleAnalyticsModesPassThrough(t *testing.T) {
	// Qualification for these modes happens upstream; at this boundary the
	// rule is eligible by default.
	for _, tt := range []rule.TargetType{rule.TargetAll, rule.TargetTopSpenders, rule.TargetFrequent} {
		r := &rule.Rule{ID: "r1", TargetType: tt}
		if !IsEligible(r, "anyone", nil) {
			t.Fatalf("target type %s should be eligible at the engine boundary", tt)
		}
	}
}
