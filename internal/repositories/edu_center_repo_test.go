package repositories

import (
	"testing"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/stretchr/testify/assert"
)

func TestEduCenterListSpec_OrdersByName(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		order string
	}{
		{"default", "", "ORDER BY name ASC, id ASC"},
		{"sort desc", "sort=desc", "ORDER BY name DESC, id ASC"},
		{"sort upper case", "sort=ASC", "ORDER BY name ASC, id ASC"},
		{"unknown direction falls back", "sort=newest", "ORDER BY name ASC, id ASC"},
		{"nameSort", "nameSort=desc", "ORDER BY name DESC, id ASC"},
		{"createdAt replaces default", "createdAt=desc", "ORDER BY created_at DESC, id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := listing.Parse(tt.raw, EduCenterListSpec)
			assert.Equal(t, tt.order, q.OrderBy())
		})
	}
}
