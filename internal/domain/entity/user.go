package entity

import (
	"fmt"
	"net/url"
	"time"
)

type User struct {
	ID          string `json:"id" firestore:"id"`
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"display_name" firestore:"displayName"`
	PhotoURL    string `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	Role        string `json:"role" firestore:"role"` // "student", "moderator"

	LastLoginAt time.Time `json:"last_login_at" firestore:"lastLoginAt"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Avatar returns the user's photo URL, falling back to a generated
// initials avatar when no photo is set. This is the single place the
// missing-photo default is decided.
func (u *User) Avatar() string {
	if u.PhotoURL != "" {
		return u.PhotoURL
	}
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s", url.QueryEscape(u.DisplayName))
}

func (u *User) IsModerator() bool {
	return u.Role == "moderator"
}
