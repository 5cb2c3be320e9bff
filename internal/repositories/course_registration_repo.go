package repositories

import (
	"context"

	"github.com/BradenHooton/educenter/internal/database"
	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
)

const registrationColumns = `id, user_id, edu_center_id, branch_id, date,
	user_name, user_email, edu_center_name, branch_name, created_at, updated_at`

var CourseRegistrationListSpec = listing.Spec{
	Filters: []listing.Filter{
		{Param: "eduCenterId", Column: "edu_center_id", Match: listing.EqualsInt},
		{Param: "branchId", Column: "branch_id", Match: listing.EqualsInt},
		{Param: "userId", Column: "user_id", Match: listing.EqualsInt},
	},
	Sorts: []listing.Sort{
		{Param: "createdAt", Column: "created_at"},
	},
}

type CourseRegistrationRepository struct {
	*table[models.CourseRegistration]
}

func NewCourseRegistrationRepository(db *database.DB) *CourseRegistrationRepository {
	return &CourseRegistrationRepository{
		table: newTable(db, "course_registrations", registrationColumns, scanRegistrationRow).
			readFrom("course_registration_details"),
	}
}

func scanRegistrationRow(scanner rowScanner) (*models.CourseRegistration, error) {
	var reg models.CourseRegistration
	err := scanner.Scan(
		&reg.ID, &reg.UserID, &reg.EduCenterID, &reg.BranchID, &reg.Date,
		&reg.UserName, &reg.UserEmail, &reg.EduCenterName, &reg.BranchName,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &reg, nil
}

func (r *CourseRegistrationRepository) Create(ctx context.Context, reg *models.CourseRegistration) (*models.CourseRegistration, error) {
	query := `
		INSERT INTO course_registrations (user_id, edu_center_id, branch_id, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	return r.writeAndLoad(ctx, query, reg.UserID, reg.EduCenterID, reg.BranchID, reg.Date)
}

func (r *CourseRegistrationRepository) Update(ctx context.Context, id int64, patch models.CourseRegistrationPatch) (*models.CourseRegistration, error) {
	query := `
		UPDATE course_registrations SET
			edu_center_id = COALESCE($1, edu_center_id),
			branch_id = COALESCE($2, branch_id),
			date = COALESCE($3, date),
			updated_at = NOW()
		WHERE id = $4
		RETURNING id`
	return r.writeAndLoad(ctx, query, patch.EduCenterID, patch.BranchID, patch.Date, id)
}
