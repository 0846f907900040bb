package domain

// ListingDefaultCapacity is shown on listing cards for posts with no usable capacity field.
const ListingDefaultCapacity = 10

// Attendance is the derived headcount view of a post.
type Attendance struct {
	Capacity int  // 0 when unknown
	Known    bool // Capacity came from the post rather than a fallback
	Count    int
	IsFull   bool
}

// ResolveCapacity returns the first positive value of capacity, maxMembers,
// members and membersLimit, in that order.
func ResolveCapacity(p Post) (int, bool) {
	for _, candidate := range []*int{p.Capacity, p.MaxMembers, memberLimit(p.Members), p.MembersLimit} {
		if candidate != nil && *candidate > 0 {
			return *candidate, true
		}
	}
	return 0, false
}

func memberLimit(members int) *int {
	if members <= 0 {
		return nil
	}
	return &members
}

// ResolveAttendance derives headcount and fullness. fallback is used when no
// capacity resolves; a fallback of 0 means unbounded, so the post is never full.
// Count is always the attendee list length.
func ResolveAttendance(p Post, fallback int) Attendance {
	a := Attendance{Count: len(p.Attendees)}
	if c, ok := ResolveCapacity(p); ok {
		a.Capacity, a.Known = c, true
	} else {
		a.Capacity = max(fallback, 0)
	}
	a.IsFull = a.Capacity > 0 && a.Count >= a.Capacity
	return a
}
