package cqrs

type RegisterUserCommand struct {
	Name      string
	Username  string
	Password  string
	BirthDate string
}

type LoginCommand struct {
	Username string
	Password string
}

// LogoutCommand identifies the session to close by its token.
type LogoutCommand struct {
	Token string
}

// UpdateUserCommand applies only the fields that are non-nil and non-empty.
type UpdateUserCommand struct {
	UserID    int64
	Username  *string
	BirthDate *string
}
