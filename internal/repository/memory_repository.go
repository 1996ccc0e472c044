package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/sopra/user-service/shared/apperrors"
	"github.com/sopra/user-service/shared/models"
)

// MemoryUserRepository is a process-local UserStore. Uniqueness checks and
// writes happen under one lock, so concurrent registrations cannot both pass.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]models.User
	nextID int64
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[int64]models.User), nextID: 1}
}

func (r *MemoryUserRepository) Save(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID != 0 {
		if _, ok := r.users[user.ID]; !ok {
			return nil, apperrors.ErrUserNotFound
		}
	}
	if err := r.checkUnique(user); err != nil {
		return nil, err
	}

	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.users[user.ID] = *user
	stored := r.users[user.ID]
	return &stored, nil
}

func (r *MemoryUserRepository) checkUnique(user *models.User) error {
	uerr := apperrors.UniquenessError{Op: apperrors.OpCreate}
	if user.ID != 0 {
		uerr.Op = apperrors.OpUpdate
	}
	for id, existing := range r.users {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username {
			uerr.Username = true
		}
		if existing.Name == user.Name {
			uerr.Name = true
		}
		if existing.Token == user.Token {
			return apperrors.ErrConflict
		}
	}
	if uerr.Username || uerr.Name {
		return &uerr
	}
	return nil
}

func (r *MemoryUserRepository) FindAll(_ context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return r.findFirst(func(u *models.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) FindByName(_ context.Context, name string) (*models.User, error) {
	return r.findFirst(func(u *models.User) bool { return u.Name == name })
}

func (r *MemoryUserRepository) FindByToken(_ context.Context, token string) (*models.User, error) {
	return r.findFirst(func(u *models.User) bool { return u.Token == token })
}

func (r *MemoryUserRepository) findFirst(match func(*models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		u := u
		if match(&u) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}
