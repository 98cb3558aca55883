package domain

import (
	"bytes"
	"encoding/json"
)

type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	FullName   string `json:"full_name"`
	DateJoined string `json:"date_joined"`
}

// DisplayName returns the server-computed full name, falling back to the
// username when the profile has no name set.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// UnmarshalJSON normalizes the payload shape. Some backend responses wrap the
// user as {"user": {...}}, occasionally more than once; unwrap until a flat
// object remains so the in-memory and persisted representations are always flat.
func (u *User) UnmarshalJSON(data []byte) error {
	for {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(data, &probe); err != nil {
			return err
		}
		inner, ok := probe["user"]
		if !ok || !isJSONObject(inner) {
			break
		}
		data = inner
	}

	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = User(p)
	return nil
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// UserPatch is a partial profile update. Nil fields are left untouched by the
// backend.
type UserPatch struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}
