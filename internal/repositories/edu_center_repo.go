package repositories

import (
	"context"

	"github.com/BradenHooton/educenter/internal/database"
	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

const eduCenterColumns = `id, name, image, region_id, user_id, location, phone, region_name, user_name, created_at, updated_at`

var EduCenterListSpec = listing.Spec{
	Filters: []listing.Filter{
		{Param: "name", Column: "name", Match: listing.Contains},
		{Param: "location", Column: "location", Match: listing.Contains},
		{Param: "regionId", Column: "region_id", Match: listing.EqualsInt},
		{Param: "userId", Column: "user_id", Match: listing.EqualsInt},
	},
	Sorts: []listing.Sort{
		{Param: "nameSort", Column: "name"},
		{Param: "sort", Column: "name"},
		{Param: "createdAt", Column: "created_at"},
	},
	Default: []listing.Order{{Column: "name"}},
}

type EduCenterRepository struct {
	*table[models.EduCenter]
}

func NewEduCenterRepository(db *database.DB) *EduCenterRepository {
	return &EduCenterRepository{table: newTable(db, "edu_centers", eduCenterColumns, scanEduCenterRow).readFrom("edu_center_details")}
}

func scanEduCenterRow(scanner rowScanner) (*models.EduCenter, error) {
	var c models.EduCenter
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Image, &c.RegionID, &c.UserID,
		&c.Location, &c.Phone, &c.RegionName, &c.UserName, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &c, nil
}

func (r *EduCenterRepository) Create(ctx context.Context, c *models.EduCenter) (*models.EduCenter, error) {
	query := `
		INSERT INTO edu_centers (name, image, region_id, user_id, location, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	return r.writeAndLoad(ctx, query,
		c.Name, c.Image, c.RegionID, c.UserID, c.Location, c.Phone,
	)
}

func (r *EduCenterRepository) Update(ctx context.Context, id int64, patch models.EduCenterPatch) (*models.EduCenter, error) {
	query := `
		UPDATE edu_centers SET
			name = COALESCE($1, name),
			image = COALESCE($2, image),
			region_id = COALESCE($3, region_id),
			location = COALESCE($4, location),
			phone = COALESCE($5, phone),
			updated_at = NOW()
		WHERE id = $6
		RETURNING id`
	return r.writeAndLoad(ctx, query,
		patch.Name, patch.Image, patch.RegionID, patch.Location, patch.Phone, id,
	)
}
