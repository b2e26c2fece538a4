package entity

import (
	"time"
)

// User owns entries and authenticates by email/password.
// Password holds a bcrypt hash once the user is persisted.
//
// ID is zero until the store assigns one.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUser(name, email, password string) *User {
	return &User{Name: name, Email: email, Password: password}
}

// Persisted reports whether the user has an identity.
func (u *User) Persisted() bool {
	return u != nil && u.ID != 0
}
