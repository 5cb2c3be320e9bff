package repositories

import (
	"context"

	"github.com/BradenHooton/educenter/internal/database"
	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

const (
	commentColumns = `id, user_id, edu_center_id, star, message, created_at, updated_at`
	likeColumns    = `id, user_id, edu_center_id, created_at, updated_at`
)

var CommentListSpec = listing.Spec{
	Filters: []listing.Filter{
		{Param: "eduCenterId", Column: "edu_center_id", Match: listing.EqualsInt},
		{Param: "userId", Column: "user_id", Match: listing.EqualsInt},
		{Param: "star", Column: "star", Match: listing.EqualsInt},
	},
	Sorts: []listing.Sort{
		{Param: "starSort", Column: "star"},
		{Param: "createdAt", Column: "created_at"},
	},
}

var LikeListSpec = listing.Spec{
	Filters: []listing.Filter{
		{Param: "eduCenterId", Column: "edu_center_id", Match: listing.EqualsInt},
		{Param: "userId", Column: "user_id", Match: listing.EqualsInt},
	},
	Sorts: []listing.Sort{
		{Param: "createdAt", Column: "created_at"},
	},
}

type CommentRepository struct {
	*table[models.Comment]
}

func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{table: newTable(db, "comments", commentColumns, scanCommentRow)}
}

func scanCommentRow(scanner rowScanner) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(&c.ID, &c.UserID, &c.EduCenterID, &c.Star, &c.Message, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &c, nil
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO comments (user_id, edu_center_id, star, message)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + commentColumns
	return scanCommentRow(r.pool.QueryRow(ctx, query, c.UserID, c.EduCenterID, c.Star, c.Message))
}

func (r *CommentRepository) Update(ctx context.Context, id int64, patch models.CommentPatch) (*models.Comment, error) {
	query := `
		UPDATE comments SET
			star = COALESCE($1, star),
			message = COALESCE($2, message),
			updated_at = NOW()
		WHERE id = $3
		RETURNING ` + commentColumns
	return scanCommentRow(r.pool.QueryRow(ctx, query, patch.Star, patch.Message, id))
}

type LikeRepository struct {
	*table[models.Like]
}

func NewLikeRepository(db *database.DB) *LikeRepository {
	return &LikeRepository{table: newTable(db, "likes", likeColumns, scanLikeRow)}
}

func scanLikeRow(scanner rowScanner) (*models.Like, error) {
	var l models.Like
	if err := scanner.Scan(&l.ID, &l.UserID, &l.EduCenterID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &l, nil
}

// Create records a like; a second like of the same center by the same user is ErrConflict
func (r *LikeRepository) Create(ctx context.Context, l *models.Like) (*models.Like, error) {
	query := `INSERT INTO likes (user_id, edu_center_id) VALUES ($1, $2) RETURNING ` + likeColumns
	return scanLikeRow(r.pool.QueryRow(ctx, query, l.UserID, l.EduCenterID))
}
