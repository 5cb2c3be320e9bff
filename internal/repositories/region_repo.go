package repositories

import (
	"context"

	"github.com/BradenHooton/educenter/internal/database"
	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

const regionColumns = `id, name, created_at, updated_at`

var RegionListSpec = listing.Spec{
	Filters: []listing.Filter{
		{Param: "name", Column: "name", Match: listing.Contains},
	},
	Sorts: []listing.Sort{
		{Param: "nameSort", Column: "name"},
		{Param: "createdAt", Column: "created_at"},
	},
}

type RegionRepository struct {
	*table[models.Region]
}

func NewRegionRepository(db *database.DB) *RegionRepository {
	return &RegionRepository{table: newTable(db, "regions", regionColumns, scanRegionRow)}
}

func scanRegionRow(scanner rowScanner) (*models.Region, error) {
	var region models.Region
	if err := scanner.Scan(&region.ID, &region.Name, &region.CreatedAt, &region.UpdatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &region, nil
}

func (r *RegionRepository) Create(ctx context.Context, name string) (*models.Region, error) {
	query := `INSERT INTO regions (name) VALUES ($1) RETURNING ` + regionColumns
	return scanRegionRow(r.pool.QueryRow(ctx, query, name))
}

func (r *RegionRepository) Update(ctx context.Context, id int64, name string) (*models.Region, error) {
	query := `UPDATE regions SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + regionColumns
	return scanRegionRow(r.pool.QueryRow(ctx, query, name, id))
}
