package domain

// Identity is the unverified name/email pair of whoever is using the app.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (i Identity) IsZero() bool {
	return i.Email == "" && i.Name == ""
}

// Key is the value written into attendees, likedBy and review writers:
// the name when present, else the email.
func (i Identity) Key() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}

// Matches reports whether a stored entry refers to this identity.
// Older records hold emails where newer ones hold names, so both count.
func (i Identity) Matches(entry string) bool {
	if entry == "" {
		return false
	}
	return entry == i.Name || entry == i.Email
}
