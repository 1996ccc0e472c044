package models

// UserView is the public projection of a user.
// It never exposes the session token or the password hash.
type UserView struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Username     string     `json:"username"`
	Status       UserStatus `json:"status"`
	CreationDate string     `json:"creationDate"`
	BirthDate    string     `json:"birthDate,omitempty"`
}

// UserSessionView is returned once, on registration, and carries the token
// the client needs to end its session later.
type UserSessionView struct {
	UserView
	Token string `json:"token"`
}

func NewUserView(u *User) *UserView {
	return &UserView{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		Status:       u.Status,
		CreationDate: u.CreationDate,
		BirthDate:    u.BirthDate,
	}
}

func NewUserSessionView(u *User) *UserSessionView {
	return &UserSessionView{UserView: *NewUserView(u), Token: u.Token}
}

// NewUserViews maps a slice of users to views, preserving order.
func NewUserViews(users []*User) []*UserView {
	views := make([]*UserView, 0, len(users))
	for _, u := range users {
		views = append(views, NewUserView(u))
	}
	return views
}
