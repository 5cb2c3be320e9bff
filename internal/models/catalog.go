package models

import "time"

// CatalogItem is the shared shape of subjects and fields of study.
type CatalogItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CatalogPatch struct {
	Name  *string
	Image *string
}
