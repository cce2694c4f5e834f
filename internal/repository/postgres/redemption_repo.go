// internal/repository/postgres/redemption_repo.go
package postgres

import (
	"context"
	"fmt"

	"offers-service/internal/domain/redemption"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RedemptionRepository struct {
	db *pgxpool.Pool
}

func NewRedemptionRepository(db *pgxpool.Pool) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

// RecordAll appends the ledger rows of one committed checkout in a single
// transaction. Any insert failure rolls the whole batch back, so a failed
// commit never burns a usage cap or double-records on retry.
func (r *RedemptionRepository) RecordAll(ctx context.Context, recs []*redemption.Redemption) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin redemption transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO offer_redemptions (id, business_id, rule_id, customer_id, discount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING redeemed_at
	`
	for _, rec := range recs {
		err := tx.QueryRow(ctx, query,
			rec.ID, rec.BusinessID, rec.RuleID, rec.CustomerID, rec.Discount,
		).Scan(&rec.RedeemedAt)
		if err != nil {
			return fmt.Errorf("failed to record redemption: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit redemptions: %w", err)
	}
	return nil
}

// CountForRule returns the total number of redemptions of a rule.
func (r *RedemptionRepository) CountForRule(ctx context.Context, ruleID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM offer_redemptions WHERE rule_id = $1`,
		ruleID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count redemptions: %w", err)
	}
	return count, nil
}

// CountForRuleAndCustomer returns how many times one customer redeemed a rule.
func (r *RedemptionRepository) CountForRuleAndCustomer(ctx context.Context, ruleID, customerID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM offer_redemptions WHERE rule_id = $1 AND customer_id = $2`,
		ruleID, customerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count customer redemptions: %w", err)
	}
	return count, nil
}
