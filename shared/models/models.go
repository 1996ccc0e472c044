package models

// UserStatus reflects whether a user currently holds an active session.
type UserStatus string

const (
	StatusOnline  UserStatus = "ONLINE"
	StatusOffline UserStatus = "OFFLINE"
)

// CreationDateLayout is the fixed format of User.CreationDate (dd-MM-yyyy HH:mm:ss).
const CreationDateLayout = "02-01-2006 15:04:05"

type User struct {
	ID           int64      `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Token        string     `json:"token" db:"token"`
	Status       UserStatus `json:"status" db:"status"`
	CreationDate string     `json:"creationDate" db:"creation_date"`
	BirthDate    string     `json:"birthDate,omitempty" db:"birth_date"`
}

// IsOnline reports whether the user is in the ONLINE state.
func (u *User) IsOnline() bool {
	return u.Status == StatusOnline
}
