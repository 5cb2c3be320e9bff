package models

import "time"

type EduCenter struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Image      string    `json:"image"`
	RegionID   int64     `json:"region_id"`
	UserID     int64     `json:"user_id"`
	Location   string    `json:"location"`
	Phone      string    `json:"phone"`
	RegionName string    `json:"region_name"`
	UserName   string    `json:"user_name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type EduCenterPatch struct {
	Name     *string
	Image    *string
	RegionID *int64
	Location *string
	Phone    *string
}
