package domain

// User represents an account that can log in and be made responsible for tasks.
// Users are only ever read; nothing in the application creates or edits them.
type User struct {
	Code     int    `json:"code"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Password string `json:"-"`
}

// Is reports whether u and other refer to the same user code.
func (u *User) Is(other *User) bool {
	return u != nil && other != nil && u.Code == other.Code
}
