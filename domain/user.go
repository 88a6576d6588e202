package domain

import (
	"time"
)

// User is an account known to the identity provider. The core only ever
// references users by ID, the display attributes are along for the ride
// so feed payloads can show who wrote or liked a take.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username" gorm:"uniqueIndex;notNull"`
	// Email never serializes, feed payloads embed users and likers should
	// not expose each other's addresses.
	Email string `json:"-" gorm:"uniqueIndex;notNull"`

	Password     string `json:"-" gorm:"-"`
	PasswordHash string `json:"-" gorm:"notNull"`

	CreatedAt time.Time `json:"created_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	ByID(id int) (*User, error)
	ByEmail(email string) (*User, error)
	Create(user *User) error
	// Authenticate checks a submitted email address and password and returns
	// the matching user on success.
	Authenticate(email, password string) (*User, error)
}
