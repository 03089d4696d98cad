package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/video-sharing-platform/internal/models"
)

func TestNewPaging(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		page  int64
		limit int64
		want  models.Paging
	}{
		{
			name: "first page of several", total: 25, page: 1, limit: 10,
			want: models.Paging{TotalDocs: 25, TotalPages: 3, Page: 1, Limit: 10, HasNextPage: true, HasPrevPage: false},
		},
		{
			name: "middle page", total: 25, page: 2, limit: 10,
			want: models.Paging{TotalDocs: 25, TotalPages: 3, Page: 2, Limit: 10, HasNextPage: true, HasPrevPage: true},
		},
		{
			name: "last partial page", total: 25, page: 3, limit: 10,
			want: models.Paging{TotalDocs: 25, TotalPages: 3, Page: 3, Limit: 10, HasNextPage: false, HasPrevPage: true},
		},
		{
			name: "exact multiple", total: 20, page: 2, limit: 10,
			want: models.Paging{TotalDocs: 20, TotalPages: 2, Page: 2, Limit: 10, HasNextPage: false, HasPrevPage: true},
		},
		{
			name: "empty result", total: 0, page: 1, limit: 10,
			want: models.Paging{TotalDocs: 0, TotalPages: 0, Page: 1, Limit: 10, HasNextPage: false, HasPrevPage: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPaging(tt.total, tt.page, tt.limit))
		})
	}
}

func TestOrderByHistory(t *testing.T) {
	a := models.VideoWithOwner{ID: primitive.NewObjectID(), Title: "a"}
	b := models.VideoWithOwner{ID: primitive.NewObjectID(), Title: "b"}
	c := models.VideoWithOwner{ID: primitive.NewObjectID(), Title: "c"}

	t.Run("restores stored order over join output", func(t *testing.T) {
		history := []primitive.ObjectID{c.ID, a.ID, b.ID}
		joined := []models.VideoWithOwner{a, b, c}

		got := orderByHistory(history, joined)
		assert.Equal(t, []models.VideoWithOwner{c, a, b}, got)
	})

	t.Run("repeats resolve every time", func(t *testing.T) {
		history := []primitive.ObjectID{a.ID, b.ID, a.ID}
		joined := []models.VideoWithOwner{a, b}

		got := orderByHistory(history, joined)
		assert.Equal(t, []models.VideoWithOwner{a, b, a}, got)
	})

	t.Run("drops references the join filtered out", func(t *testing.T) {
		unpublished := primitive.NewObjectID()
		history := []primitive.ObjectID{a.ID, unpublished, b.ID}
		joined := []models.VideoWithOwner{a, b}

		got := orderByHistory(history, joined)
		assert.Equal(t, []models.VideoWithOwner{a, b}, got)
	})

	t.Run("empty history yields empty slice", func(t *testing.T) {
		got := orderByHistory(nil, []models.VideoWithOwner{a})
		assert.Empty(t, got)
	})
}

func TestListQueryFilter(t *testing.T) {
	t.Run("always scopes to published", func(t *testing.T) {
		filter := ListQuery{}.Filter()
		assert.Equal(t, bson.M{"is_published": true}, filter)
	})

	t.Run("owner narrows the filter", func(t *testing.T) {
		owner := primitive.NewObjectID()
		filter := ListQuery{OwnerID: &owner}.Filter()
		assert.Equal(t, bson.M{"is_published": true, "owner": owner}, filter)
	})
}
