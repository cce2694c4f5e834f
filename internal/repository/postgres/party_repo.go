// internal/repository/postgres/party_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"offers-service/internal/domain/party"
	xerrors "offers-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PartyRepository reads the platform-owned customer and business records
// this service needs for targeting lists and message personalization. It
// never writes: the party store belongs to the platform.
type PartyRepository struct {
	db *pgxpool.Pool
}

func NewPartyRepository(db *pgxpool.Pool) *PartyRepository {
	return &PartyRepository{db: db}
}

// FindCustomer resolves a customer id to name, phone and pending balance.
func (r *PartyRepository) FindCustomer(ctx context.Context, businessID int64, customerID string) (*party.Customer, error) {
	query := `
		SELECT id, business_id, name, phone, pending_balance, created_at
		FROM customers
		WHERE business_id = $1 AND id = $2
	`

	var c party.Customer
	err := r.db.QueryRow(ctx, query, businessID, customerID).Scan(
		&c.ID, &c.BusinessID, &c.Name, &c.Phone, &c.PendingBalance, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &c, nil
}

// FindBusinessProfile resolves the business-facing fields used in messages.
func (r *PartyRepository) FindBusinessProfile(ctx context.Context, businessID int64) (*party.BusinessProfile, error) {
	query := `
		SELECT id, name, address, phone
		FROM business_profiles
		WHERE id = $1
	`

	var b party.BusinessProfile
	err := r.db.QueryRow(ctx, query, businessID).Scan(&b.ID, &b.Name, &b.Address, &b.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find business profile: %w", err)
	}
	return &b, nil
}
