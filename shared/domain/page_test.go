package domain

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postsN(n int) []Post {
	posts := make([]Post, n)
	for i := range posts {
		posts[i] = Post{Id: fmt.Sprint(i)}
	}
	return posts
}

func TestPaginate(t *testing.T) {
	for _, n := range []int{0, 1, 5, 6, 7, 12, 13} {
		posts := postsN(n)
		wantPages := (n + 5) / 6
		for k := 1; k <= wantPages+1; k++ {
			page := Paginate(posts, k, 6)
			assert.Equal(t, wantPages, page.TotalPages, "n=%d", n)
			assert.Equal(t, n, page.Total)

			start := min((k-1)*6, n)
			end := min(k*6, n)
			require.Len(t, page.Posts, end-start, "n=%d k=%d", n, k)
			for i, p := range page.Posts {
				assert.Equal(t, fmt.Sprint(start+i), p.Id)
			}
		}
	}
}

func TestPaginate_ClampsPage(t *testing.T) {
	page := Paginate(postsN(8), 0, 6)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Posts, 6)
	assert.False(t, page.HasPrev())
	assert.True(t, page.HasNext())
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	for _, k := range []int{math.MaxInt, math.MaxInt/6 + 2, math.MaxInt / 6} {
		var page Page
		require.NotPanics(t, func() { page = Paginate(postsN(7), k, 6) }, "page=%d", k)
		assert.Empty(t, page.Posts)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, k, page.Page)
	}
}

func TestSortByCreatedDesc(t *testing.T) {
	at := func(day int) *time.Time {
		tm := time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC)
		return &tm
	}
	posts := []Post{
		{Id: "undated-1"},
		{Id: "old", CreatedAt: at(1)},
		{Id: "undated-2"},
		{Id: "new", CreatedAt: at(20)},
		{Id: "mid", CreatedAt: at(10)},
	}

	SortByCreatedDesc(posts)

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.Id
	}
	assert.Equal(t, []string{"new", "mid", "old", "undated-1", "undated-2"}, ids)
}
