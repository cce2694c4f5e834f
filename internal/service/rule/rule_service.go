// internal/service/rule/rule_service.go
package rule

import (
	"context"
	"fmt"
	"time"

	domain "offers-service/internal/domain/rule"
	xerrors "offers-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Repository is the persistence surface the service needs (interface so
// tests can substitute an in-memory store).
type Repository interface {
	Create(ctx context.Context, rec *domain.Rule) error
	FindByID(ctx context.Context, id string) (*domain.Rule, error)
	List(ctx context.Context, businessID int64, filters *domain.ListFilters) ([]domain.Rule, int64, error)
	Update(ctx context.Context, rec *domain.Rule) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	ForceStop(ctx context.Context, id string, now time.Time) error
	Delete(ctx context.Context, id string) error
}

// CacheInvalidator drops the cached active rule set after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, businessID int64)
}

type RuleService struct {
	repo   Repository
	cache  CacheInvalidator
	logger *zap.Logger
	now    func() time.Time
}

func NewRuleService(repo Repository, cache CacheInvalidator, logger *zap.Logger) *RuleService {
	return &RuleService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// CreateRule validates the kind-specific parameter subset, derives the
// display fields and persists a new rule. Initial status follows the
// temporal window against now; the sweeper keeps it in sync afterwards.
func (s *RuleService) CreateRule(ctx context.Context, businessID int64, req *domain.CreateRuleRequest) (*domain.Rule, error) {
	rec := &domain.Rule{
		ID:         ulid.Make().String(),
		BusinessID: businessID,
		Name:       req.Name,
		Type:       req.Type,

		MinPurchase:   req.MinPurchase,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,

		BuyProductID:   req.BuyProductID,
		BuyProductName: req.BuyProductName,
		BuyQty:         req.BuyQty,
		GetProductID:   req.GetProductID,
		GetProductName: req.GetProductName,
		GetQty:         req.GetQty,

		UsageType:       req.UsageType,
		UsageLimitCount: req.UsageLimitCount,

		TargetType:        req.TargetType,
		SelectedCustomers: req.SelectedCustomers,
		SpendWindowDays:   req.SpendWindowDays,
		MinSpendAmount:    req.MinSpendAmount,
		MinVisitCount:     req.MinVisitCount,

		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	if err := validateRule(rec); err != nil {
		return nil, err
	}

	rec.Status = domain.InitialStatus(rec.StartDate, rec.EndDate, s.now())
	domain.ApplyDisplay(rec)

	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error("failed to create rule", zap.Error(err))
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}
	s.cache.Invalidate(ctx, businessID)

	s.logger.Info("rule created",
		zap.String("rule_id", rec.ID),
		zap.Int64("business_id", businessID),
		zap.String("rule_type", string(rec.Type)),
		zap.String("status", string(rec.Status)),
	)
	return rec, nil
}

// GetRule retrieves a rule, verifying business ownership.
func (s *RuleService) GetRule(ctx context.Context, businessID int64, id string) (*domain.Rule, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.BusinessID != businessID {
		return nil, xerrors.ErrUnauthorized
	}
	return rec, nil
}

// ListRules retrieves rules for a business with filters.
func (s *RuleService) ListRules(ctx context.Context, businessID int64, filters *domain.ListFilters) (*domain.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	rules, total, err := s.repo.List(ctx, businessID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &domain.ListResponse{
		Rules:      rules,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateRule applies an owner edit and recomputes the derived display
// fields. When the temporal window changes, status is recomputed from the
// new dates; an owner-set pause survives the edit unless the new end date
// has already passed.
func (s *RuleService) UpdateRule(ctx context.Context, businessID int64, id string, req *domain.UpdateRuleRequest) (*domain.Rule, error) {
	rec, err := s.GetRule(ctx, businessID, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(rec, req)

	if err := validateRule(rec); err != nil {
		return nil, err
	}

	if req.StartDate != nil || req.EndDate != nil {
		next := domain.InitialStatus(rec.StartDate, rec.EndDate, s.now())
		if rec.Status != domain.StatusPaused || next == domain.StatusExpired {
			rec.Status = next
		}
	}

	domain.ApplyDisplay(rec)

	if err := s.repo.Update(ctx, rec); err != nil {
		s.logger.Error("failed to update rule", zap.Error(err), zap.String("rule_id", id))
		return nil, err
	}
	s.cache.Invalidate(ctx, businessID)

	s.logger.Info("rule updated", zap.String("rule_id", id), zap.Int64("business_id", businessID))
	return rec, nil
}

// PauseRule suspends an active rule. Pausing is an explicit owner action;
// the sweeper never enters or leaves this state on its own.
func (s *RuleService) PauseRule(ctx context.Context, businessID int64, id string) (*domain.Rule, error) {
	rec, err := s.GetRule(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: only active rules can be paused", xerrors.ErrInvalidInput)
	}

	if err := s.repo.UpdateStatus(ctx, id, domain.StatusPaused); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, businessID)

	rec.Status = domain.StatusPaused
	s.logger.Info("rule paused", zap.String("rule_id", id))
	return rec, nil
}

// ResumeRule returns a paused rule to active, provided its window has not
// already closed.
func (s *RuleService) ResumeRule(ctx context.Context, businessID int64, id string) (*domain.Rule, error) {
	rec, err := s.GetRule(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != domain.StatusPaused {
		return nil, fmt.Errorf("%w: only paused rules can be resumed", xerrors.ErrInvalidInput)
	}
	if rec.EndDate != nil && s.now().After(*rec.EndDate) {
		return nil, fmt.Errorf("%w: rule window has already ended", xerrors.ErrInvalidInput)
	}

	if err := s.repo.UpdateStatus(ctx, id, domain.StatusActive); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, businessID)

	rec.Status = domain.StatusActive
	s.logger.Info("rule resumed", zap.String("rule_id", id))
	return rec, nil
}

// StopRule force-stops a rule by setting its end date to now, expiring it
// immediately rather than waiting for the next sweep.
func (s *RuleService) StopRule(ctx context.Context, businessID int64, id string) error {
	if _, err := s.GetRule(ctx, businessID, id); err != nil {
		return err
	}
	if err := s.repo.ForceStop(ctx, id, s.now()); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, businessID)

	s.logger.Info("rule force-stopped", zap.String("rule_id", id))
	return nil
}

// DeleteRule removes a rule record.
func (s *RuleService) DeleteRule(ctx context.Context, businessID int64, id string) error {
	if _, err := s.GetRule(ctx, businessID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, businessID)

	s.logger.Info("rule deleted", zap.String("rule_id", id))
	return nil
}

// validateRule checks the parameter subset belonging to the rule's kind.
// Fields of other kinds are ignored entirely.
func validateRule(rec *domain.Rule) error {
	switch rec.Type {
	case domain.TypeCartValue:
		if rec.DiscountType != domain.DiscountPercentage && rec.DiscountType != domain.DiscountFlat {
			return fmt.Errorf("%w: cart_value rule requires a discount type", xerrors.ErrInvalidInput)
		}
		if rec.DiscountValue.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: discount value must be positive", xerrors.ErrInvalidInput)
		}
		if rec.MinPurchase.LessThan(decimal.Zero) {
			return fmt.Errorf("%w: minimum purchase cannot be negative", xerrors.ErrInvalidInput)
		}
	case domain.TypeProductDisc:
		if rec.BuyProductID == "" && rec.BuyProductName == "" {
			return fmt.Errorf("%w: product_disc rule requires a product reference", xerrors.ErrInvalidInput)
		}
		if rec.DiscountType != domain.DiscountPercentage && rec.DiscountType != domain.DiscountFlat {
			return fmt.Errorf("%w: product_disc rule requires a discount type", xerrors.ErrInvalidInput)
		}
		if rec.DiscountValue.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: discount value must be positive", xerrors.ErrInvalidInput)
		}
	case domain.TypeBogo:
		if rec.BuyProductID == "" && rec.BuyProductName == "" {
			return fmt.Errorf("%w: bogo rule requires a trigger product", xerrors.ErrInvalidInput)
		}
		if rec.GetProductID == "" && rec.GetProductName == "" {
			return fmt.Errorf("%w: bogo rule requires a reward product", xerrors.ErrInvalidInput)
		}
		if rec.BuyQty < 1 || rec.GetQty < 1 {
			return fmt.Errorf("%w: bogo quantities must be at least 1", xerrors.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown rule type %q", xerrors.ErrInvalidInput, rec.Type)
	}

	if rec.UsageType == domain.UsageLimited && rec.UsageLimitCount < 1 {
		return fmt.Errorf("%w: limited usage requires a usage limit count", xerrors.ErrInvalidInput)
	}
	if rec.TargetType == domain.TargetSpecific && len(rec.SelectedCustomers) == 0 {
		return fmt.Errorf("%w: specific targeting requires selected customers", xerrors.ErrInvalidInput)
	}
	if rec.EndDate != nil && rec.EndDate.Before(rec.StartDate) {
		return fmt.Errorf("%w: end date cannot precede start date", xerrors.ErrInvalidInput)
	}
	return nil
}

func applyUpdate(rec *domain.Rule, req *domain.UpdateRuleRequest) {
	if req.Name != nil {
		rec.Name = *req.Name
	}
	if req.MinPurchase != nil {
		rec.MinPurchase = *req.MinPurchase
	}
	if req.DiscountType != nil {
		rec.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		rec.DiscountValue = *req.DiscountValue
	}
	if req.BuyProductID != nil {
		rec.BuyProductID = *req.BuyProductID
	}
	if req.BuyProductName != nil {
		rec.BuyProductName = *req.BuyProductName
	}
	if req.BuyQty != nil {
		rec.BuyQty = *req.BuyQty
	}
	if req.GetProductID != nil {
		rec.GetProductID = *req.GetProductID
	}
	if req.GetProductName != nil {
		rec.GetProductName = *req.GetProductName
	}
	if req.GetQty != nil {
		rec.GetQty = *req.GetQty
	}
	if req.UsageType != nil {
		rec.UsageType = *req.UsageType
	}
	if req.UsageLimitCount != nil {
		rec.UsageLimitCount = *req.UsageLimitCount
	}
	if req.TargetType != nil {
		rec.TargetType = *req.TargetType
	}
	if req.SelectedCustomers != nil {
		rec.SelectedCustomers = req.SelectedCustomers
	}
	if req.SpendWindowDays != nil {
		rec.SpendWindowDays = *req.SpendWindowDays
	}
	if req.MinSpendAmount != nil {
		rec.MinSpendAmount = *req.MinSpendAmount
	}
	if req.MinVisitCount != nil {
		rec.MinVisitCount = *req.MinVisitCount
	}
	if req.StartDate != nil {
		rec.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		rec.EndDate = req.EndDate
	}
}
