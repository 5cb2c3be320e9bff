package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/educenter/internal/database"
	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

const catalogColumns = `id, name, image, created_at, updated_at`

// CatalogListSpec is shared by subjects and fields
var CatalogListSpec = listing.Spec{
	Filters: []listing.Filter{
		{Param: "name", Column: "name", Match: listing.Contains},
	},
	Sorts: []listing.Sort{
		{Param: "nameSort", Column: "name"},
		{Param: "createdAt", Column: "created_at"},
	},
}

// CatalogRepository stores name and image lookup tables (subjects, fields)
type CatalogRepository struct {
	*table[models.CatalogItem]
}

func NewSubjectRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{table: newTable(db, "subjects", catalogColumns, scanCatalogRow)}
}

func NewFieldRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{table: newTable(db, "fields", catalogColumns, scanCatalogRow)}
}

func scanCatalogRow(scanner rowScanner) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := scanner.Scan(&item.ID, &item.Name, &item.Image, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &item, nil
}

func (r *CatalogRepository) GetByName(ctx context.Context, name string) (*models.CatalogItem, error) {
	return r.findByField(ctx, "name", name)
}

func (r *CatalogRepository) Create(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name, image) VALUES ($1, $2) RETURNING %s`, r.name, catalogColumns)
	return scanCatalogRow(r.pool.QueryRow(ctx, query, item.Name, item.Image))
}

func (r *CatalogRepository) Update(ctx context.Context, id int64, patch models.CatalogPatch) (*models.CatalogItem, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET
			name = COALESCE($1, name),
			image = COALESCE($2, image),
			updated_at = NOW()
		WHERE id = $3
		RETURNING %s`, r.name, catalogColumns)
	return scanCatalogRow(r.pool.QueryRow(ctx, query, patch.Name, patch.Image, id))
}
