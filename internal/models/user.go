package models

// TimeLayout is the timestamp format stored in the database and mirror logs.
const TimeLayout = "2006-01-02 15:04:05"

// AdminUsername is the single identity allowed on the admin surface.
const AdminUsername = "admin"

// User represents an account in the credential store. Password holds a
// lowercase hex sha256 digest, or transiently a legacy plaintext value that
// is rewritten on the next successful login.
type User struct {
	ID        int64  `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	Password  string `json:"-" db:"password"`
	CreatedAt string `json:"created_at" db:"created_at"`
}

// IsAdmin reports whether the user is the administrator identity.
func (u *User) IsAdmin() bool {
	return u != nil && u.Username == AdminUsername
}
