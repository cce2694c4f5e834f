// internal/repository/postgres/rule_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"offers-service/internal/domain/rule"
	xerrors "offers-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type OfferRuleRepository struct {
	db *pgxpool.Pool
}

func NewOfferRuleRepository(db *pgxpool.Pool) *OfferRuleRepository {
	return &OfferRuleRepository{db: db}
}

const ruleColumns = `
	id, business_id, name, rule_type,
	min_purchase, discount_type, discount_value,
	buy_product_id, buy_product_name, buy_qty,
	get_product_id, get_product_name, get_qty,
	usage_type, usage_limit_count,
	target_type, selected_customers, spend_window_days, min_spend_amount, min_visit_count,
	start_date, end_date, status, description, display_value,
	created_at, updated_at
`

// Create inserts a new rule record.
func (r *OfferRuleRepository) Create(ctx context.Context, rec *rule.Rule) error {
	query := `
		INSERT INTO offer_rules (
			id, business_id, name, rule_type,
			min_purchase, discount_type, discount_value,
			buy_product_id, buy_product_name, buy_qty,
			get_product_id, get_product_name, get_qty,
			usage_type, usage_limit_count,
			target_type, selected_customers, spend_window_days, min_spend_amount, min_visit_count,
			start_date, end_date, status, description, display_value
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		rec.ID, rec.BusinessID, rec.Name, rec.Type,
		rec.MinPurchase, rec.DiscountType, rec.DiscountValue,
		rec.BuyProductID, rec.BuyProductName, rec.BuyQty,
		rec.GetProductID, rec.GetProductName, rec.GetQty,
		rec.UsageType, rec.UsageLimitCount,
		rec.TargetType, pq.Array(rec.SelectedCustomers), rec.SpendWindowDays, rec.MinSpendAmount, rec.MinVisitCount,
		rec.StartDate, rec.EndDate, rec.Status, rec.Description, rec.DisplayValue,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

// FindByID retrieves a rule by id.
func (r *OfferRuleRepository) FindByID(ctx context.Context, id string) (*rule.Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM offer_rules WHERE id = $1`

	rec, err := scanRule(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rule: %w", err)
	}
	return rec, nil
}

// FindActiveForBusiness returns all currently active rules for a business,
// oldest first so evaluation order is stable across calls.
func (r *OfferRuleRepository) FindActiveForBusiness(ctx context.Context, businessID int64) ([]rule.Rule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM offer_rules
		WHERE business_id = $1 AND status = $2
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, businessID, rule.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query active rules: %w", err)
	}
	defer rows.Close()

	return collectRules(rows)
}

// List retrieves rules for a business with optional filters and pagination.
func (r *OfferRuleRepository) List(ctx context.Context, businessID int64, filters *rule.ListFilters) ([]rule.Rule, int64, error) {
	conditions := []string{"business_id = $1"}
	args := []interface{}{businessID}
	argPos := 2

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}
	if filters.Type != nil {
		conditions = append(conditions, fmt.Sprintf("rule_type = $%d", argPos))
		args = append(args, *filters.Type)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM offer_rules WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rules: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM offer_rules WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		ruleColumns, where, argPos, argPos+1,
	)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	rules, err := collectRules(rows)
	if err != nil {
		return nil, 0, err
	}
	return rules, total, nil
}

// Update replaces the mutable fields of a rule record.
func (r *OfferRuleRepository) Update(ctx context.Context, rec *rule.Rule) error {
	query := `
		UPDATE offer_rules
		SET name = $1,
		    min_purchase = $2, discount_type = $3, discount_value = $4,
		    buy_product_id = $5, buy_product_name = $6, buy_qty = $7,
		    get_product_id = $8, get_product_name = $9, get_qty = $10,
		    usage_type = $11, usage_limit_count = $12,
		    target_type = $13, selected_customers = $14, spend_window_days = $15,
		    min_spend_amount = $16, min_visit_count = $17,
		    start_date = $18, end_date = $19, status = $20,
		    description = $21, display_value = $22,
		    updated_at = $23
		WHERE id = $24
	`

	tag, err := r.db.Exec(
		ctx, query,
		rec.Name,
		rec.MinPurchase, rec.DiscountType, rec.DiscountValue,
		rec.BuyProductID, rec.BuyProductName, rec.BuyQty,
		rec.GetProductID, rec.GetProductName, rec.GetQty,
		rec.UsageType, rec.UsageLimitCount,
		rec.TargetType, pq.Array(rec.SelectedCustomers), rec.SpendWindowDays,
		rec.MinSpendAmount, rec.MinVisitCount,
		rec.StartDate, rec.EndDate, rec.Status,
		rec.Description, rec.DisplayValue,
		time.Now(), rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdateStatus writes only the status field (manual pause/resume).
func (r *OfferRuleRepository) UpdateStatus(ctx context.Context, id string, status rule.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE offer_rules SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ForceStop sets the end date to now and expires the rule in one write.
func (r *OfferRuleRepository) ForceStop(ctx context.Context, id string, now time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE offer_rules SET end_date = $1, status = $2, updated_at = $1 WHERE id = $3`,
		now, rule.StatusExpired, id,
	)
	if err != nil {
		return fmt.Errorf("failed to force-stop rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Delete removes a rule record.
func (r *OfferRuleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM offer_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ActivateDue flips scheduled rules whose start date has arrived to active.
// The precondition is in the WHERE clause, so re-running the statement with
// no time elapsed touches nothing.
func (r *OfferRuleRepository) ActivateDue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE offer_rules
		 SET status = $1, updated_at = $2
		 WHERE status = $3 AND start_date <= $2`,
		rule.StatusActive, now, rule.StatusScheduled,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to activate due rules: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ExpireDue flips active and paused rules whose end date has passed to
// expired. Paused rules still expire on schedule.
func (r *OfferRuleRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE offer_rules
		 SET status = $1, updated_at = $2
		 WHERE status IN ($3, $4) AND end_date IS NOT NULL AND end_date < $2`,
		rule.StatusExpired, now, rule.StatusActive, rule.StatusPaused,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire due rules: %w", err)
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*rule.Rule, error) {
	var rec rule.Rule
	var selected []string

	err := row.Scan(
		&rec.ID, &rec.BusinessID, &rec.Name, &rec.Type,
		&rec.MinPurchase, &rec.DiscountType, &rec.DiscountValue,
		&rec.BuyProductID, &rec.BuyProductName, &rec.BuyQty,
		&rec.GetProductID, &rec.GetProductName, &rec.GetQty,
		&rec.UsageType, &rec.UsageLimitCount,
		&rec.TargetType, pq.Array(&selected), &rec.SpendWindowDays, &rec.MinSpendAmount, &rec.MinVisitCount,
		&rec.StartDate, &rec.EndDate, &rec.Status, &rec.Description, &rec.DisplayValue,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.SelectedCustomers = selected
	return &rec, nil
}

func collectRules(rows pgx.Rows) ([]rule.Rule, error) {
	rules := []rule.Rule{}
	for rows.Next() {
		rec, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	return rules, nil
}
