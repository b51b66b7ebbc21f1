package entities

import (
	"strings"
	"time"
)

// Restaurant represents a restaurant listed on the platform.
// Rating is a display value; once customer ratings exist it is owned by the rating aggregator.
type Restaurant struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Rating    *float64  `json:"rating,omitempty" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Profile represents the public profile of a platform user
type Profile struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  *string   `json:"full_name,omitempty" db:"full_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName prefers the stored full name and falls back to the local part of the email.
// An empty string means neither is available.
func (p *Profile) DisplayName() string {
	if p.FullName != nil {
		if name := strings.TrimSpace(*p.FullName); name != "" {
			return name
		}
	}
	local, _, _ := strings.Cut(p.Email, "@")
	return strings.TrimSpace(local)
}
