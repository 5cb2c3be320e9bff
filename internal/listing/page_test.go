package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockSource implements Source for testing
type MockSource struct {
	CountFunc    func(ctx context.Context, q Query) (int64, error)
	FindPageFunc func(ctx context.Context, q Query) ([]string, error)
	findCalls    int
}

func (m *MockSource) Count(ctx context.Context, q Query) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, q)
	}
	return 0, nil
}

func (m *MockSource) FindPage(ctx context.Context, q Query) ([]string, error) {
	m.findCalls++
	if m.FindPageFunc != nil {
		return m.FindPageFunc(ctx, q)
	}
	return nil, nil
}

func TestFetch_Envelope(t *testing.T) {
	src := &MockSource{
		CountFunc: func(ctx context.Context, q Query) (int64, error) { return 23, nil },
		FindPageFunc: func(ctx context.Context, q Query) ([]string, error) {
			assert.Equal(t, 10, q.Offset())
			return []string{"k", "l", "m", "n", "o", "p", "q", "r", "s", "t"}, nil
		},
	}

	page, err := Fetch[string](context.Background(), src, Parse("limit=10&offset=2", Spec{}))
	require.NoError(t, err)

	assert.Equal(t, int64(23), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 10, page.Limit)
	assert.Len(t, page.Data, 10)
}

func TestFetch_EmptyCollection(t *testing.T) {
	src := &MockSource{}

	page, err := Fetch[string](context.Background(), src, Parse("", Spec{}))
	require.NoError(t, err)

	assert.Equal(t, int64(0), page.TotalCount)
	assert.Equal(t, 0, page.TotalPages)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, src.findCalls)
}

func TestFetch_PageBeyondEnd(t *testing.T) {
	src := &MockSource{
		CountFunc: func(ctx context.Context, q Query) (int64, error) { return 5, nil },
	}

	page, err := Fetch[string](context.Background(), src, Parse("offset=4&limit=5", Spec{}))
	require.NoError(t, err)

	assert.Equal(t, 4, page.CurrentPage)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, src.findCalls)
}

func TestFetch_NeverExceedsLimit(t *testing.T) {
	src := &MockSource{
		CountFunc: func(ctx context.Context, q Query) (int64, error) { return 50, nil },
		FindPageFunc: func(ctx context.Context, q Query) ([]string, error) {
			return []string{"a", "b", "c", "d"}, nil
		},
	}

	page, err := Fetch[string](context.Background(), src, Parse("limit=2", Spec{}))
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
}

func TestFetch_Errors(t *testing.T) {
	boom := errors.New("boom")

	_, err := Fetch[string](context.Background(), &MockSource{
		CountFunc: func(ctx context.Context, q Query) (int64, error) { return 0, boom },
	}, Parse("", Spec{}))
	assert.ErrorIs(t, err, boom)

	_, err = Fetch[string](context.Background(), &MockSource{
		CountFunc:    func(ctx context.Context, q Query) (int64, error) { return 3, nil },
		FindPageFunc: func(ctx context.Context, q Query) ([]string, error) { return nil, boom },
	}, Parse("", Spec{}))
	assert.ErrorIs(t, err, boom)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 7, 15},
		{5, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.limit))
	}
}

func TestFetch_PastLastPageSkipsSource(t *testing.T) {
	src := &MockSource{
		CountFunc: func(ctx context.Context, q Query) (int64, error) { return 5, nil },
	}

	page, err := Fetch[string](context.Background(), src, Parse("limit=100&offset=100000000000000000", Spec{}))
	require.NoError(t, err)

	assert.Equal(t, 0, src.findCalls)
	assert.Empty(t, page.Data)
	assert.Equal(t, 1, page.TotalPages)
}
