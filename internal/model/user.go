package model

import (
	"fmt"
	"time"
)

// User is a registered resident
type User struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email,omitempty"`
	PreferredLanguage string    `json:"preferredLanguage"`
	ZipCode           string    `json:"zipCode,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// UserPatch lists the profile fields a user may change
type UserPatch struct {
	Email             *string `json:"email,omitempty"`
	PreferredLanguage *string `json:"preferredLanguage,omitempty"`
	ZipCode           *string `json:"zipCode,omitempty"`
}

// Validate only accepts the two supported languages
func (p UserPatch) Validate() error {
	if p.PreferredLanguage != nil && *p.PreferredLanguage != "en" && *p.PreferredLanguage != "es" {
		return fmt.Errorf("unsupported language %q", *p.PreferredLanguage)
	}
	return nil
}

// Apply merges the set fields of p into u
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PreferredLanguage != nil {
		u.PreferredLanguage = *p.PreferredLanguage
	}
	if p.ZipCode != nil {
		u.ZipCode = *p.ZipCode
	}
}

// Bookmark is a saved bill, article or event
type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ItemType  string    `json:"itemType"`
	ItemID    string    `json:"itemId"`
	CreatedAt time.Time `json:"createdAt"`
}
