package query

import (
	"context"
	"testing"

	"github.com/sopra/user-service/internal/repository"
	"github.com/sopra/user-service/shared/apperrors"
	"github.com/sopra/user-service/shared/cqrs"
	"github.com/sopra/user-service/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, users ...*models.User) *UserQueryService {
	t.Helper()
	store := repository.NewMemoryUserRepository()
	for _, u := range users {
		_, err := store.Save(context.Background(), u)
		require.NoError(t, err)
	}
	return NewUserQueryService(repository.NewUserReadRepository(store, nil))
}

func TestListUsers(t *testing.T) {
	svc := seed(t,
		&models.User{Name: "Ann Lee", Username: "annl", Token: "t1", Status: models.StatusOnline},
		&models.User{Name: "Bob Ray", Username: "bobr", Token: "t2", Status: models.StatusOffline},
	)

	views, err := svc.ListUsers(context.Background(), cqrs.ListUsersQuery{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "annl", views[0].Username)
	assert.Equal(t, models.StatusOffline, views[1].Status)
}

func TestListUsers_Empty(t *testing.T) {
	views, err := seed(t).ListUsers(context.Background(), cqrs.ListUsersQuery{})
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestGetUser(t *testing.T) {
	svc := seed(t, &models.User{Name: "Ann Lee", Username: "annl", Token: "t1", Status: models.StatusOnline, BirthDate: "1990-01-01"})

	view, err := svc.GetUser(context.Background(), cqrs.GetUserQuery{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", view.Name)
	assert.Equal(t, "1990-01-01", view.BirthDate)

	_, err = svc.GetUser(context.Background(), cqrs.GetUserQuery{UserID: 2})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
