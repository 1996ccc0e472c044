package repository

import (
	"context"

	"github.com/sopra/user-service/shared/models"
)

// UserStore is the persistence contract of the account service.
//
// Save inserts the user when its ID is zero (assigning a new ID) and updates it
// otherwise. Lookups that match nothing return apperrors.ErrUserNotFound.
// Implementations must reject a second user with the same name, username or
// token with an error matching apperrors.ErrConflict.
type UserStore interface {
	Save(ctx context.Context, user *models.User) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByName(ctx context.Context, name string) (*models.User, error)
	FindByToken(ctx context.Context, token string) (*models.User, error)
}
