package models

import "time"

// Resource is a learning material shared by a user.
type Resource struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Link        string    `json:"link"`
	Category    string    `json:"category"`
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ResourcePatch struct {
	Name        *string
	Description *string
	Image       *string
	Link        *string
	Category    *string
}
