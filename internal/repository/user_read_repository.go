package repository

import (
	"context"
	"strconv"

	"github.com/sopra/user-service/shared/models"
	sharedredis "github.com/sopra/user-service/shared/redis"
)

const userViewKeyPrefix = "user:view:"

// UserReadRepository serves user views from the Redis read model, falling back
// to the store on a miss. A nil cache means every read goes to the store.
type UserReadRepository struct {
	store UserStore
	cache *sharedredis.ViewCache[models.UserView]
}

func NewUserReadRepository(store UserStore, cache *sharedredis.ViewCache[models.UserView]) *UserReadRepository {
	return &UserReadRepository{store: store, cache: cache}
}

// GetByID returns a UserView from Redis first, then the store. A miss only
// fills an absent key, so it cannot overwrite a view cached by a concurrent write.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.UserView, error) {
	if r.cache != nil {
		if view, ok := r.cache.Get(ctx, userViewKey(id)); ok {
			return view, nil
		}
	}

	user, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := models.NewUserView(user)
	if r.cache != nil {
		r.cache.SetIfAbsent(ctx, userViewKey(id), view)
	}
	return view, nil
}

// List always reads the store so the listing reflects every registration.
func (r *UserReadRepository) List(ctx context.Context) ([]*models.UserView, error) {
	users, err := r.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return models.NewUserViews(users), nil
}

// CacheUserView stores or refreshes the Redis read model for a user.
// Called by the command service after every mutation.
func (r *UserReadRepository) CacheUserView(ctx context.Context, view *models.UserView) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, userViewKey(view.ID), view)
}

func userViewKey(id int64) string {
	return userViewKeyPrefix + strconv.FormatInt(id, 10)
}
