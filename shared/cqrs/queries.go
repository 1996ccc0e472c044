package cqrs

// ListUsersQuery fetches every stored user. It has no filters.
type ListUsersQuery struct{}

// GetUserQuery fetches a single user by ID.
type GetUserQuery struct {
	UserID int64
}
