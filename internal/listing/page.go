package listing

import (
	"context"
	"fmt"
)

// Page is the pagination envelope returned by every list endpoint
type Page[T any] struct {
	Data        []T   `json:"data"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

// Source counts and fetches rows of one collection under a Query
type Source[T any] interface {
	Count(ctx context.Context, q Query) (int64, error)
	FindPage(ctx context.Context, q Query) ([]T, error)
}

// Fetch counts the matching rows and loads the requested page
func Fetch[T any](ctx context.Context, src Source[T], q Query) (*Page[T], error) {
	total, err := src.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	page := &Page[T]{
		Data:        []T{},
		TotalCount:  total,
		TotalPages:  TotalPages(total, q.Limit),
		CurrentPage: q.Page,
		Limit:       q.Limit,
	}

	if total == 0 || int64(q.Offset()) >= total {
		return page, nil
	}

	rows, err := src.FindPage(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	if len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	if rows != nil {
		page.Data = rows
	}

	return page, nil
}

// TotalPages is ceil(total / limit)
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
