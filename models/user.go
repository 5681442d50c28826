package models

import (
	"time"

	"github.com/rs/zerolog"
)

// User represents a vault account. It owns a set of [Credential] records
// that are removed together with the account.
type User struct {
	// UserID is the internal unique identifier assigned by the store.
	UserID int64 `json:"user_id"`

	// Username is the unique, case-sensitive login. It never changes after
	// the account is created.
	Username string `json:"username"`

	// MasterPasswordHash is the self-describing bcrypt record of the master
	// password. It is never serialized, so it stays out of JSON logs.
	MasterPasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// MarshalZerologObject logs the user without the password hash.
func (u User) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("user_id", u.UserID).Str("username", u.Username)
}
