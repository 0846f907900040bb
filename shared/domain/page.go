package domain

import (
	"slices"
)

type Page struct {
	Posts      []Post
	Page       int
	TotalPages int
	Total      int
}

func (p Page) HasPrev() bool { return p.Page > 1 }
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// SortByCreatedDesc orders newest first. Posts without createdAt go last,
// keeping their store order among themselves.
func SortByCreatedDesc(posts []Post) {
	slices.SortStableFunc(posts, func(a, b Post) int {
		switch {
		case a.CreatedAt == nil && b.CreatedAt == nil:
			return 0
		case a.CreatedAt == nil:
			return 1
		case b.CreatedAt == nil:
			return -1
		}
		return b.CreatedAt.Compare(*a.CreatedAt)
	})
}

// Paginate returns page (1-based) of posts. Pages below 1 are treated as 1;
// pages past the end come back empty with the real page count.
func Paginate(posts []Post, page, size int) Page {
	if size < 1 {
		size = 1
	}
	if page < 1 {
		page = 1
	}
	total := len(posts)
	result := Page{
		Page:       page,
		TotalPages: (total + size - 1) / size,
		Total:      total,
		Posts:      []Post{},
	}
	if page > result.TotalPages {
		return result
	}
	start := (page - 1) * size
	end := min(start+size, total)
	result.Posts = posts[start:end]
	return result
}
