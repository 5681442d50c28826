package models

// Account carries the plain-text login input of a user: the username and the
// master password exactly as typed. It lives only for the duration of a
// register/login call and is never persisted.
type Account struct {
	Username string `json:"username"`
	Password string `json:"-"`
}
