package domain

import (
	"encoding/json"
	"slices"
	"time"
)

// Post is a meal meetup recruitment record as held by the remote store.
// Use NormalizePost or NormalizeRecord to build one from store data.
type Post struct {
	Id            string
	Title         string
	Writer        string
	WriterEmail   string
	PaymentMethod string
	Image         string
	CreatedAt     *time.Time
	EventDate     *time.Time
	EndAt         *time.Time

	// Members is the legacy capacity field. New writes keep it equal to Capacity.
	Members      int
	Capacity     *int
	MaxMembers   *int
	MembersLimit *int

	Attendees []string
	Likes     int
	LikedBy   []string
	Reviews   []Review

	// Extra holds fields this code does not know about; they survive a full replace.
	Extra map[string]json.RawMessage
}

type Review struct {
	Writer    string `json:"writer"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// known lists the store fields Post models; everything else lands in Extra.
var known = []string{
	"id", "title", "writer", "writerEmail", "paymentMethod", "image",
	"createdAt", "eventDate", "endAt",
	"members", "capacity", "maxMembers", "membersLimit",
	"attendees", "likes", "likedBy", "reviews",
}

func isKnown(field string) bool {
	return slices.Contains(known, field)
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

// Document returns the full store document for a replace or create.
// The id is left out; the store owns it.
func (p Post) Document() map[string]any {
	doc := make(map[string]any, len(p.Extra)+len(known))
	for k, v := range p.Extra {
		doc[k] = v
	}
	doc["title"] = p.Title
	doc["writer"] = p.Writer
	if p.WriterEmail != "" {
		doc["writerEmail"] = p.WriterEmail
	}
	doc["paymentMethod"] = p.PaymentMethod
	doc["image"] = p.Image
	doc["createdAt"] = formatTime(p.CreatedAt)
	doc["eventDate"] = formatTime(p.EventDate)
	doc["endAt"] = formatTime(p.EndAt)
	doc["members"] = p.Members
	for field, v := range map[string]*int{"capacity": p.Capacity, "maxMembers": p.MaxMembers, "membersLimit": p.MembersLimit} {
		if v != nil {
			doc[field] = *v
		}
	}
	doc["attendees"] = nonNil(p.Attendees)
	doc["likes"] = p.Likes
	doc["likedBy"] = nonNil(p.LikedBy)
	reviews := p.Reviews
	if reviews == nil {
		reviews = []Review{}
	}
	doc["reviews"] = reviews
	return doc
}

func (p Post) MarshalJSON() ([]byte, error) {
	doc := p.Document()
	if p.Id != "" {
		doc["id"] = p.Id
	}
	return json.Marshal(doc)
}

func (p *Post) UnmarshalJSON(data []byte) error {
	normalized, err := NormalizePost(data)
	if err != nil {
		return err
	}
	*p = normalized
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Clone returns a deep copy safe to mutate.
func (p Post) Clone() Post {
	c := p
	c.Attendees = slices.Clone(nonNil(p.Attendees))
	c.LikedBy = slices.Clone(nonNil(p.LikedBy))
	c.Reviews = slices.Clone(p.Reviews)
	if c.Reviews == nil {
		c.Reviews = []Review{}
	}
	if p.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// HasAttendee reports whether id already appears in attendees under its name or email.
func (p Post) HasAttendee(id Identity) bool {
	return slices.ContainsFunc(p.Attendees, id.Matches)
}

// WithAttendee returns a copy with id appended to attendees.
func (p Post) WithAttendee(id Identity) Post {
	c := p.Clone()
	c.Attendees = append(c.Attendees, id.Key())
	return c
}

// WithoutAttendee returns a copy with every entry referring to id removed,
// together with the number of removed entries.
func (p Post) WithoutAttendee(id Identity) (Post, int) {
	c := p.Clone()
	before := len(c.Attendees)
	c.Attendees = slices.DeleteFunc(c.Attendees, id.Matches)
	return c, before - len(c.Attendees)
}

// LikedByIdentity reports whether id has liked the post.
func (p Post) LikedByIdentity(id Identity) bool {
	return slices.ContainsFunc(p.LikedBy, id.Matches)
}

// ToggleLike flips id's like. Toggling twice restores likes and likedBy.
func (p Post) ToggleLike(id Identity) Post {
	c := p.Clone()
	if c.LikedByIdentity(id) {
		c.LikedBy = slices.DeleteFunc(c.LikedBy, id.Matches)
		c.Likes = max(c.Likes-1, 0)
		return c
	}
	c.LikedBy = append(c.LikedBy, id.Key())
	c.Likes++
	return c
}

// WithReview returns a copy with r appended.
func (p Post) WithReview(r Review) Post {
	c := p.Clone()
	c.Reviews = append(c.Reviews, r)
	return c
}

// WithoutReview removes the review at index when id wrote it. createdAt,
// when non-empty, must match too so a stale index cannot hit a shifted entry.
func (p Post) WithoutReview(index int, createdAt string, id Identity) (Post, bool) {
	if index < 0 || index >= len(p.Reviews) {
		return p, false
	}
	r := p.Reviews[index]
	if !id.Matches(r.Writer) {
		return p, false
	}
	if createdAt != "" && r.CreatedAt != createdAt {
		return p, false
	}
	c := p.Clone()
	c.Reviews = slices.Delete(c.Reviews, index, index+1)
	return c, true
}

// OwnedBy reports whether id may edit or delete the post: the writer email
// decides when the post has one, otherwise the writer name.
func (p Post) OwnedBy(id Identity) bool {
	if p.WriterEmail != "" {
		return id.Email != "" && p.WriterEmail == id.Email
	}
	return id.Name != "" && p.Writer == id.Name
}
