package models

import "time"

type CourseRegistration struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	EduCenterID   int64     `json:"edu_center_id"`
	BranchID      int64     `json:"branch_id"`
	Date          string    `json:"date"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
	EduCenterName string    `json:"edu_center_name"`
	BranchName    string    `json:"branch_name"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CourseRegistrationPatch struct {
	EduCenterID *int64
	BranchID    *int64
	Date        *string
}
