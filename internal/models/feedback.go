package models

import "time"

type Comment struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	EduCenterID int64     `json:"edu_center_id"`
	Star        int       `json:"star"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CommentPatch struct {
	Star    *int
	Message *string
}

type Like struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	EduCenterID int64     `json:"edu_center_id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
