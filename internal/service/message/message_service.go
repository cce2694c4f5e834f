// internal/service/message/message_service.go
package message

import (
	"context"

	"offers-service/internal/domain/party"
	"offers-service/internal/domain/rule"
	xerrors "offers-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// PartyStore resolves customer and business records for personalization.
type PartyStore interface {
	FindCustomer(ctx context.Context, businessID int64, customerID string) (*party.Customer, error)
	FindBusinessProfile(ctx context.Context, businessID int64) (*party.BusinessProfile, error)
}

// RuleStore resolves an optional rule binding.
type RuleStore interface {
	FindByID(ctx context.Context, id string) (*rule.Rule, error)
}

type ComposeRequest struct {
	Template   string `json:"template" binding:"required"`
	CustomerID string `json:"customer_id"`
	RuleID     string `json:"rule_id"`
}

// MessageService gathers the data a template references and runs the
// substitution. Missing parties degrade to the mode's fallback policy
// instead of failing: a message preview must render with whatever exists.
type MessageService struct {
	parties PartyStore
	rules   RuleStore
	logger  *zap.Logger
}

func NewMessageService(parties PartyStore, rules RuleStore, logger *zap.Logger) *MessageService {
	return &MessageService{parties: parties, rules: rules, logger: logger}
}

// Compose personalizes a template for one customer of a business, with an
// optional rule binding. Only an unauthorized rule binding is an error;
// unresolvable customers, profiles or rules degrade silently.
func (s *MessageService) Compose(ctx context.Context, businessID int64, req *ComposeRequest, mode Mode) (string, error) {
	var customer *party.Customer
	if req.CustomerID != "" {
		c, err := s.parties.FindCustomer(ctx, businessID, req.CustomerID)
		if err != nil {
			s.logger.Debug("customer not resolved for message",
				zap.String("customer_id", req.CustomerID), zap.Error(err))
		} else {
			customer = c
		}
	}

	business, err := s.parties.FindBusinessProfile(ctx, businessID)
	if err != nil {
		s.logger.Debug("business profile not resolved for message",
			zap.Int64("business_id", businessID), zap.Error(err))
		business = nil
	}

	var bound *rule.Rule
	if req.RuleID != "" {
		r, err := s.rules.FindByID(ctx, req.RuleID)
		if err == nil {
			if r.BusinessID != businessID {
				return "", xerrors.ErrUnauthorized
			}
			bound = r
		} else {
			s.logger.Debug("rule not resolved for message",
				zap.String("rule_id", req.RuleID), zap.Error(err))
		}
	}

	return Personalize(req.Template, customer, business, bound, mode), nil
}
