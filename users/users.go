package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RoleType represents the account type the backend assigned at signup
type RoleType string

const (
	RoleJobSeeker RoleType = "job_seeker" // Browses, saves and applies to jobs
	RoleHR        RoleType = "hr"         // Employer side: posts jobs and manages applicants
)

// ID is the backend's user identifier. The backend sends numbers, but the client
// treats the value as opaque and accepts strings too.
type ID string

func (id ID) String() string {
	return string(id)
}

// MarshalJSON writes numeric IDs as JSON numbers so they round-trip unchanged
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// User is the identity record the backend returns on login, signup and refresh.
type User struct {
	ID              ID       `json:"id"`              // Backend identifier
	Name            string   `json:"name"`            // Display name
	Email           string   `json:"email"`           // Login email
	Role            RoleType `json:"role"`            // job_seeker or hr, fixed at account creation
	IsEmailVerified bool     `json:"isEmailVerified"` // Set once the verification link is followed
}

// Patch describes a locally known change to the current user. Nil fields are left alone.
// Role is deliberately absent: it cannot change for the lifetime of a session.
type Patch struct {
	Name            *string
	Email           *string
	IsEmailVerified *bool
}

// IsHR reports whether the user is on the employer side
func (u *User) IsHR() bool {
	return u != nil && u.Role == RoleHR
}

// Clone returns a copy so callers cannot mutate shared session state
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Apply returns a copy of u with the patch merged in
func (u *User) Apply(p Patch) *User {
	c := u.Clone()
	if c == nil {
		return nil
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = strings.TrimSpace(*p.Email)
	}
	if p.IsEmailVerified != nil {
		c.IsEmailVerified = *p.IsEmailVerified
	}
	return c
}

// Decode parses a JSON-serialized user record
func Decode(data []byte) (*User, error) {
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Encode serializes the user record for persistence
func (u *User) Encode() (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
