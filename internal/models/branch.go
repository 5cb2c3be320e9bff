package models

import "time"

type Branch struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Image         string    `json:"image"`
	Phone         string    `json:"phone"`
	Location      string    `json:"location"`
	RegionID      int64     `json:"region_id"`
	EduCenterID   int64     `json:"edu_center_id"`
	FieldID       *int64    `json:"field_id"`
	UserID        int64     `json:"user_id"`
	RegionName    string    `json:"region_name"`
	EduCenterName string    `json:"edu_center_name"`
	UserName      string    `json:"user_name"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type BranchPatch struct {
	Name        *string
	Image       *string
	Phone       *string
	Location    *string
	RegionID    *int64
	EduCenterID *int64
	FieldID     *int64
}
