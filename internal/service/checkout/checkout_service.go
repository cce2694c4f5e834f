// internal/service/checkout/checkout_service.go
package checkout

import (
	"context"
	"fmt"

	"offers-service/internal/domain/cart"
	"offers-service/internal/domain/redemption"
	"offers-service/internal/domain/rule"
	"offers-service/internal/service/evaluation"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// RuleSource loads the currently active rules for a business.
type RuleSource interface {
	FindActiveForBusiness(ctx context.Context, businessID int64) ([]rule.Rule, error)
}

// RuleCache fronts the rule source for checkout traffic.
type RuleCache interface {
	Get(ctx context.Context, businessID int64) ([]rule.Rule, bool)
	Set(ctx context.Context, businessID int64, rules []rule.Rule)
}

// Ledger is the redemption history consulted to drop capped rules before
// they reach the engine, and appended to when a checkout commits.
// RecordAll is atomic: either every row lands or none does.
type Ledger interface {
	CountForRule(ctx context.Context, ruleID string) (int64, error)
	CountForRuleAndCustomer(ctx context.Context, ruleID, customerID string) (int64, error)
	RecordAll(ctx context.Context, recs []*redemption.Redemption) error
}

// CheckoutService runs the caller side of an evaluation: fetch active
// rules, enforce usage caps, hand the survivors to the cap-agnostic engine.
type CheckoutService struct {
	rules  RuleSource
	cache  RuleCache
	ledger Ledger
	engine *evaluation.Engine
	logger *zap.Logger
}

func NewCheckoutService(rules RuleSource, cache RuleCache, ledger Ledger, engine *evaluation.Engine, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		rules:  rules,
		cache:  cache,
		ledger: ledger,
		engine: engine,
		logger: logger,
	}
}

// Quote evaluates a cart without recording anything. Safe to call
// repeatedly while the customer edits the cart.
func (s *CheckoutService) Quote(ctx context.Context, businessID int64, req *cart.EvaluateRequest) (*cart.EvaluationResult, error) {
	activeRules, err := s.activeRules(ctx, businessID)
	if err != nil {
		return nil, err
	}

	candidates := s.filterCapped(ctx, activeRules, req.CustomerID)
	result := s.engine.Evaluate(req.Items, candidates, req.CustomerID, req.ExcludedRuleIDs)
	return &result, nil
}

// Commit evaluates a cart and appends one redemption-ledger row per applied
// rule, all in a single atomic write. A failed commit leaves no ledger
// state behind: no cap is burned and a retry cannot double-record. The
// engine itself stays ledger-blind; this is the single place usage history
// is written.
func (s *CheckoutService) Commit(ctx context.Context, businessID int64, req *cart.EvaluateRequest) (*cart.EvaluationResult, error) {
	result, err := s.Quote(ctx, businessID, req)
	if err != nil {
		return nil, err
	}

	recs := make([]*redemption.Redemption, 0, len(result.AppliedOffers))
	for _, applied := range result.AppliedOffers {
		recs = append(recs, &redemption.Redemption{
			ID:         ulid.Make().String(),
			BusinessID: businessID,
			RuleID:     applied.RuleID,
			CustomerID: req.CustomerID,
			Discount:   applied.Discount,
		})
	}
	if err := s.ledger.RecordAll(ctx, recs); err != nil {
		return nil, fmt.Errorf("failed to record redemptions: %w", err)
	}

	s.logger.Info("checkout committed",
		zap.Int64("business_id", businessID),
		zap.String("customer_id", req.CustomerID),
		zap.Int("applied_offers", len(result.AppliedOffers)),
	)
	return result, nil
}

func (s *CheckoutService) activeRules(ctx context.Context, businessID int64) ([]rule.Rule, error) {
	if cached, ok := s.cache.Get(ctx, businessID); ok {
		return cached, nil
	}

	rules, err := s.rules.FindActiveForBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active rules: %w", err)
	}
	s.cache.Set(ctx, businessID, rules)
	return rules, nil
}

// filterCapped drops rules whose usage policy is exhausted. A ledger read
// failure keeps the rule in play and logs: an over-applied offer is a
// better failure mode at the till than a missing one.
func (s *CheckoutService) filterCapped(ctx context.Context, rules []rule.Rule, customerID string) []rule.Rule {
	kept := make([]rule.Rule, 0, len(rules))
	for _, r := range rules {
		switch r.UsageType {
		case rule.UsageSingle:
			if customerID == "" {
				kept = append(kept, r)
				continue
			}
			count, err := s.ledger.CountForRuleAndCustomer(ctx, r.ID, customerID)
			if err != nil {
				s.logger.Warn("redemption lookup failed, keeping rule",
					zap.String("rule_id", r.ID), zap.Error(err))
				kept = append(kept, r)
				continue
			}
			if count < 1 {
				kept = append(kept, r)
			}
		case rule.UsageLimited:
			count, err := s.ledger.CountForRule(ctx, r.ID)
			if err != nil {
				s.logger.Warn("redemption lookup failed, keeping rule",
					zap.String("rule_id", r.ID), zap.Error(err))
				kept = append(kept, r)
				continue
			}
			if count < int64(r.UsageLimitCount) {
				kept = append(kept, r)
			}
		default:
			kept = append(kept, r)
		}
	}
	return kept
}
