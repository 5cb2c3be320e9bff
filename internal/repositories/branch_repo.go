package repositories

import (
	"context"

	"github.com/BradenHooton/educenter/internal/database"
	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

const branchColumns = `id, name, image, phone, location, region_id, edu_center_id, field_id, user_id, region_name, edu_center_name, user_name, created_at, updated_at`

var BranchListSpec = listing.Spec{
	Filters: []listing.Filter{
		{Param: "name", Column: "name", Match: listing.Contains},
		{Param: "regionId", Column: "region_id", Match: listing.EqualsInt},
		{Param: "eduCenterId", Column: "edu_center_id", Match: listing.EqualsInt},
		{Param: "fieldId", Column: "field_id", Match: listing.EqualsInt},
	},
	Sorts: []listing.Sort{
		{Param: "nameSort", Column: "name"},
		{Param: "createdAt", Column: "created_at"},
	},
}

type BranchRepository struct {
	*table[models.Branch]
}

func NewBranchRepository(db *database.DB) *BranchRepository {
	return &BranchRepository{table: newTable(db, "branches", branchColumns, scanBranchRow).readFrom("branch_details")}
}

func scanBranchRow(scanner rowScanner) (*models.Branch, error) {
	var b models.Branch
	err := scanner.Scan(
		&b.ID, &b.Name, &b.Image, &b.Phone, &b.Location, &b.RegionID,
		&b.EduCenterID, &b.FieldID, &b.UserID, &b.RegionName, &b.EduCenterName, &b.UserName,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &b, nil
}

func (r *BranchRepository) Create(ctx context.Context, b *models.Branch) (*models.Branch, error) {
	query := `
		INSERT INTO branches (name, image, phone, location, region_id, edu_center_id, field_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	return r.writeAndLoad(ctx, query,
		b.Name, b.Image, b.Phone, b.Location, b.RegionID, b.EduCenterID, b.FieldID, b.UserID,
	)
}

func (r *BranchRepository) Update(ctx context.Context, id int64, patch models.BranchPatch) (*models.Branch, error) {
	query := `
		UPDATE branches SET
			name = COALESCE($1, name),
			image = COALESCE($2, image),
			phone = COALESCE($3, phone),
			location = COALESCE($4, location),
			region_id = COALESCE($5, region_id),
			edu_center_id = COALESCE($6, edu_center_id),
			field_id = COALESCE($7, field_id),
			updated_at = NOW()
		WHERE id = $8
		RETURNING id`
	return r.writeAndLoad(ctx, query,
		patch.Name, patch.Image, patch.Phone, patch.Location,
		patch.RegionID, patch.EduCenterID, patch.FieldID, id,
	)
}
