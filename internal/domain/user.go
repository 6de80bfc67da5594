package domain

import (
	"time"
)

type User struct {
	Record
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	DisplayName string `json:"displayName" gorm:"not null"`
	PwHash      string `json:"-" gorm:"not null;default:''"`
}

func (u *User) Validate() error {
	if u.Name == "" {
		return Invalid("Username must be set")
	}
	if u.DisplayName == "" {
		return Invalid("Display name must be set")
	}
	return nil
}

// Session is created on login and removed on logout. Expiry is checked
// lazily on every authenticated request.
type Session struct {
	Record
	User      string    `json:"user" gorm:"index;not null"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	CSRFToken string    `json:"csrfToken" gorm:"column:csrf_token;uniqueIndex;not null"`
	Expires   time.Time `json:"expires" gorm:"index;not null"`
}

func (s *Session) Expired(now time.Time) bool {
	return s.Expires.Before(now)
}
