package domain

import (
	"encoding/json"
	"fmt"
)

// User is a profile from the remote users resource.
type User struct {
	Name       string
	Email      string
	Reputation int
	Reports    int
}

func (u *User) UnmarshalJSON(data []byte) error {
	var record map[string]json.RawMessage
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("user record: %w", err)
	}
	u.Name = parseText(record["name"])
	u.Email = parseText(record["email"])
	u.Reputation = parseCount(record["reputation"])
	u.Reports = parseCount(record["reports"])
	return nil
}

// FindProfile looks an attendee entry up by name first, then by email.
func FindProfile(users []User, entry string) (User, bool) {
	if entry == "" {
		return User{}, false
	}
	for _, u := range users {
		if u.Name == entry {
			return u, true
		}
	}
	for _, u := range users {
		if u.Email == entry {
			return u, true
		}
	}
	return User{}, false
}

// DisplayName shows the user name for email-keyed entries.
func DisplayName(users []User, entry string) string {
	for _, u := range users {
		if u.Email == entry && u.Name != "" {
			return u.Name
		}
	}
	return entry
}
