package frontend_domain

import (
	"fmt"
	"html/template"
	"time"

	"github.com/tastelink/tastelink/shared/domain"
)

const dateLayout = "2006-01-02 15:04"

// Card is one post on the listing.
type Card struct {
	Post       domain.Post
	Attendance domain.Attendance
	Liked      bool
	EventDate  string
}

// HeadcountText is the card's "참석 n명 / 모집 cap명" line.
func (c Card) HeadcountText() string {
	return fmt.Sprintf("참석 %d명 / 모집 %d명", c.Attendance.Count, c.Attendance.Capacity)
}

type IndexPageData struct {
	Cards []Card
	Page  domain.Page
}

// Review is a review prepared for the detail page.
type Review struct {
	Index     int
	Writer    string
	Text      template.HTML
	CreatedAt string
	RawTime   string
	Deletable bool
}

// Attendee is one attendees entry with its optional profile.
type Attendee struct {
	Name    string
	Profile *domain.User
}

type PostPageData struct {
	Post       domain.Post
	Attendance domain.Attendance
	Attendees  []Attendee
	Reviews    []Review
	Joined     bool
	Liked      bool
	CanEdit    bool
	EventDate  string
	EndAt      string
	CreatedAt  string
}

// HeadcountText mirrors the card line; unknown capacity shows only the count.
func (d PostPageData) HeadcountText() string {
	if !d.Attendance.Known {
		return fmt.Sprintf("참석 %d명", d.Attendance.Count)
	}
	return fmt.Sprintf("참석 %d명 / 모집 %d명", d.Attendance.Count, d.Attendance.Capacity)
}

// FormPageData backs both the create and the edit form.
type FormPageData struct {
	Action         string
	Heading        string
	Form           any
	PaymentMethods []string
	PostID         string
	Today          string
}

type LoginPageData struct {
	Next  string
	Name  string
	Email string
}

type MapPageData struct {
	Center  struct{ Lat, Lng float64 }
	Radius  int
	Radii   []int
	Keyword string
}

// FormatTime renders t in loc, or "" when unset.
func FormatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(dateLayout)
}
