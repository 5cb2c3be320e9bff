package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/educenter/internal/database"
	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

const userColumns = `id, email, phone, password_hash, full_name, role, status, region_id, region_name, year, image, created_at, updated_at`

// UserListSpec allow-lists the filters and sorts of user listings
var UserListSpec = listing.Spec{
	Filters: []listing.Filter{
		{Param: "name", Column: "full_name", Match: listing.Contains},
		{Param: "email", Column: "email", Match: listing.Contains},
		{Param: "phone", Column: "phone", Match: listing.Contains},
		{Param: "role", Column: "role", Match: listing.Equals},
		{Param: "status", Column: "status", Match: listing.Equals},
		{Param: "regionId", Column: "region_id", Match: listing.EqualsInt},
	},
	Sorts: []listing.Sort{
		{Param: "nameSort", Column: "full_name"},
		{Param: "createdAt", Column: "created_at"},
	},
}

type UserRepository struct {
	*table[models.User]
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{table: newTable(db, "users", userColumns, scanUserRow).readFrom("user_details")}
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.Email, &user.Phone, &user.PasswordHash, &user.FullName,
		&user.Role, &user.Status, &user.RegionID, &user.RegionName, &user.Year, &user.Image,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findByField(ctx, "email", email)
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findByField(ctx, "phone", phone)
}

// Create inserts a user. Only the listed columns are written.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Status == "" {
		user.Status = models.StatusPending
	}

	query := `
		INSERT INTO users (email, phone, password_hash, full_name, role, status, region_id, year, image, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6::varchar, $7, $8, $9, CASE WHEN $6::varchar = 'active' THEN NOW() END)
		RETURNING id`

	return r.writeAndLoad(ctx, query,
		user.Email, user.Phone, user.PasswordHash, user.FullName,
		user.Role, user.Status, user.RegionID, user.Year, user.Image,
	)
}

// Update applies the non-nil fields of patch. An account that becomes active
// is stamped verified, and the stamp survives any later move back to pending.
func (r *UserRepository) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	query := `
		UPDATE users SET
			full_name = COALESCE($1, full_name),
			phone = COALESCE($2, phone),
			role = COALESCE($3, role),
			status = COALESCE($4, status),
			region_id = COALESCE($5, region_id),
			year = COALESCE($6, year),
			image = COALESCE($7, image),
			verified_at = CASE WHEN COALESCE($4, status) = 'active' THEN COALESCE(verified_at, NOW()) ELSE verified_at END,
			updated_at = NOW()
		WHERE id = $8
		RETURNING id`

	return r.writeAndLoad(ctx, query,
		patch.FullName, patch.Phone, patch.Role, patch.Status,
		patch.RegionID, patch.Year, patch.Image, id,
	)
}

// Activate flips a pending account to active. It reports false when the
// account was not pending, so a repeated verification changes nothing.
func (r *UserRepository) Activate(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE users SET status = 'active', verified_at = COALESCE(verified_at, NOW()), updated_at = NOW() WHERE id = $1 AND status = 'pending'`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return result.RowsAffected() == 1, nil
}

// DeletePendingBefore removes accounts that never verified and were created before cutoff.
// Accounts that were active once and later set back to pending are kept.
func (r *UserRepository) DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM users WHERE status = 'pending' AND verified_at IS NULL AND created_at < $1`

	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale pending users: %w", database.MapPostgresError(err))
	}
	return result.RowsAffected(), nil
}
