package model

import "fmt"

// User represents an application user record as stored in the `users`
// table.  The password is only ever held as a bcrypt hash; it is never
// serialised.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique, lower-cased email address used to log in.
//	PasswordHash – bcrypt hashed password.
//	CreatedAt    – DB timestamp of creation, kept as text.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    string `json:"created_at"`
}

// String returns the attributes of a user except for the password.
func (u User) String() string {
	return fmt.Sprintf("User: <%d, %s>", u.ID, u.Email)
}
