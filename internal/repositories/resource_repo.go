package repositories

import (
	"context"

	"github.com/BradenHooton/educenter/internal/database"
	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

const resourceColumns = `id, name, description, image, link, category, user_id, user_name, created_at, updated_at`

var ResourceListSpec = listing.Spec{
	Filters: []listing.Filter{
		{Param: "name", Column: "name", Match: listing.Contains},
		{Param: "category", Column: "category", Match: listing.Contains},
		{Param: "userId", Column: "user_id", Match: listing.EqualsInt},
	},
	Sorts: []listing.Sort{
		{Param: "nameSort", Column: "name"},
		{Param: "createdAt", Column: "created_at"},
	},
}

type ResourceRepository struct {
	*table[models.Resource]
}

func NewResourceRepository(db *database.DB) *ResourceRepository {
	return &ResourceRepository{table: newTable(db, "resources", resourceColumns, scanResourceRow).readFrom("resource_details")}
}

func scanResourceRow(scanner rowScanner) (*models.Resource, error) {
	var res models.Resource
	err := scanner.Scan(
		&res.ID, &res.Name, &res.Description, &res.Image, &res.Link,
		&res.Category, &res.UserID, &res.UserName, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &res, nil
}

func (r *ResourceRepository) Create(ctx context.Context, res *models.Resource) (*models.Resource, error) {
	query := `
		INSERT INTO resources (name, description, image, link, category, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	return r.writeAndLoad(ctx, query,
		res.Name, res.Description, res.Image, res.Link, res.Category, res.UserID,
	)
}

func (r *ResourceRepository) Update(ctx context.Context, id int64, patch models.ResourcePatch) (*models.Resource, error) {
	query := `
		UPDATE resources SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			image = COALESCE($3, image),
			link = COALESCE($4, link),
			category = COALESCE($5, category),
			updated_at = NOW()
		WHERE id = $6
		RETURNING id`
	return r.writeAndLoad(ctx, query,
		patch.Name, patch.Description, patch.Image, patch.Link, patch.Category, id,
	)
}
