package message

import (
	"strings"
	"testing"
	"time"

	"offers-service/internal/domain/party"
	"offers-service/internal/domain/rule"

	"github.com/shopspring/decimal"
)

func TestPersonalizeLiveSubstitution(t *testing.T) {
	customer := &party.Customer{
		Name:           "Asha",
		PendingBalance: decimal.RequireFromString("250.50"),
	}
	business := &party.BusinessProfile{
		Name:    "Corner Mart",
		Address: "12 Main St",
		Phone:   "+254700000000",
	}

	out := Personalize(
		"Hi {{customerName}}, you owe {{pendingBalance}} at {{businessName}} ({{businessPhone}})",
		customer, business, nil, ModeLive,
	)

	want := "Hi Asha, you owe 250.5 at Corner Mart (+254700000000)"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestPersonalizeLiveMissingDataRendersEmpty(t *testing.T) {
	out := Personalize("Hello {{customerName}} from {{businessName}}!", nil, nil, nil, ModeLive)

	if out != "Hello  from !" {
		t.Fatalf("got %q, want empty substitutions", out)
	}
}

func TestPersonalizePreviewMissingDataRendersPlaceholders(t *testing.T) {
	out := Personalize("Hello {{customerName}} from {{businessName}}!", nil, nil, nil, ModePreview)

	if out != "Hello [Customer Name] from [Business Name]!" {
		t.Fatalf("got %q, want bracketed placeholders", out)
	}
}

func TestPersonalizeRuleTokens(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
	r := &rule.Rule{
		Name:        "March Madness",
		Description: "Get 10% off on purchases above 500",
		StartDate:   start,
		EndDate:     &end,
	}

	out := Personalize("{{offerName}}: {{offerDiscount}} ({{offerStart}} - {{offerEnd}})", nil, nil, r, ModeLive)

	want := "March Madness: Get 10% off on purchases above 500 (Mar 1, 2026 - Mar 31, 2026)"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestPersonalizeMissingEndDateRendersOngoing(t *testing.T) {
	r := &rule.Rule{
		Name:      "Evergreen",
		StartDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
	}

	out := Personalize("Valid until {{offerEnd}}", nil, nil, r, ModeLive)

	if out != "Valid until Ongoing" {
		t.Fatalf("got %q, want Ongoing", out)
	}
}

func TestPersonalizeUnboundRuleTokensPassThrough(t *testing.T) {
	out := Personalize("{{offerName}} and {{offerEnd}}", nil, nil, nil, ModeLive)

	if out != "{{offerName}} and {{offerEnd}}" {
		t.Fatalf("got %q, want rule tokens verbatim without a bound rule", out)
	}
}

func TestPersonalizeUnknownTokenLeftVerbatim(t *testing.T) {
	out := Personalize("Hello {{noSuchToken}}!", nil, nil, nil, ModeLive)

	if out != "Hello {{noSuchToken}}!" {
		t.Fatalf("got %q, want unknown token untouched", out)
	}
}

func TestPersonalizeDateToken(t *testing.T) {
	out := Personalize("Today is {{date}}", nil, nil, nil, ModeLive)

	if strings.Contains(out, "{{date}}") {
		t.Fatalf("got %q, want date substituted", out)
	}
	if !strings.HasPrefix(out, "Today is ") || len(out) <= len("Today is ") {
		t.Fatalf("got %q, want a formatted date", out)
	}
}
