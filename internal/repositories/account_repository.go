package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"cipherhaven/internal/models"
)

type AccountRepository interface {
	Upsert(ctx context.Context, acc *models.Account) error
	MarkMetadataSynced(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*models.Account, error)
}

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{DB: db}
}

// Upsert inserts the account or refreshes its profile fields.
// An existing role is kept so a replayed sign-up cannot change it.
func (r *accountRepository) Upsert(ctx context.Context, acc *models.Account) error {
	const q = `
		INSERT INTO accounts (
			provider_user_id, username, email, first_name, last_name, phone_number, role_id, metadata_synced
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,FALSE)
		ON CONFLICT (provider_user_id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone_number = EXCLUDED.phone_number,
			updated_at = NOW()
		RETURNING id, role_id, metadata_synced, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, q,
		acc.ProviderUserID,
		acc.Username,
		acc.Email,
		acc.FirstName,
		acc.LastName,
		acc.PhoneNumber,
		acc.RoleID,
	).Scan(&acc.ID, &acc.RoleID, &acc.MetadataSynced, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("account upsert: %w", err)
	}
	return nil
}

func (r *accountRepository) MarkMetadataSynced(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE accounts SET metadata_synced = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("account mark synced: %w", err)
	}
	return nil
}

func (r *accountRepository) List(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	const q = `
		SELECT id, provider_user_id, username, email, first_name, last_name, phone_number,
		       role_id, metadata_synced, created_at, updated_at
		FROM accounts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("account list: %w", err)
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("account list scan: %w", err)
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID, &a.ProviderUserID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.PhoneNumber,
		&a.RoleID, &a.MetadataSynced, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
