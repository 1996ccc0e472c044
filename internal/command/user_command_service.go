package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sopra/user-service/internal/repository"
	"github.com/sopra/user-service/shared/apperrors"
	"github.com/sopra/user-service/shared/cqrs"
	"github.com/sopra/user-service/shared/events"
	"github.com/sopra/user-service/shared/models"
	"github.com/sopra/user-service/shared/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// EventPublisher is satisfied by events.Publisher and events.NopPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// UserCommandService writes user state to the store and keeps the Redis
// read model up to date.
type UserCommandService struct {
	store     repository.UserStore
	readRepo  *repository.UserReadRepository
	publisher EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

func NewUserCommandService(
	store repository.UserStore,
	readRepo *repository.UserReadRepository,
	publisher EventPublisher,
	log *zap.Logger,
) *UserCommandService {
	return &UserCommandService{
		store:     store,
		readRepo:  readRepo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// RegisterUser creates a new ONLINE user with a fresh session token.
// A taken name or username yields a *apperrors.UniquenessError.
func (s *UserCommandService) RegisterUser(ctx context.Context, cmd cqrs.RegisterUserCommand) (*models.User, error) {
	user := &models.User{
		Name:         cmd.Name,
		Username:     cmd.Username,
		Token:        utils.GenerateToken(),
		Status:       models.StatusOffline,
		CreationDate: utils.FormatCreationDate(s.now()),
		BirthDate:    cmd.BirthDate,
	}

	if err := s.checkUnique(ctx, user); err != nil {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(cmd.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperrors.ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = passwordHash
	user.Status = models.StatusOnline

	saved, err := s.store.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("userId", saved.ID), zap.String("username", saved.Username))
	s.afterMutation(ctx, events.UserRegistered, saved)
	return saved, nil
}

// checkUnique reports both colliding fields at once. The store repeats the
// check atomically, so a concurrent registration still fails there.
func (s *UserCommandService) checkUnique(ctx context.Context, user *models.User) error {
	var uerr apperrors.UniquenessError

	taken, err := s.exists(ctx, s.store.FindByUsername, user.Username)
	if err != nil {
		return err
	}
	uerr.Username = taken

	taken, err = s.exists(ctx, s.store.FindByName, user.Name)
	if err != nil {
		return err
	}
	uerr.Name = taken

	if uerr.Username || uerr.Name {
		return &uerr
	}
	return nil
}

func (s *UserCommandService) exists(ctx context.Context, find func(context.Context, string) (*models.User, error), value string) (bool, error) {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// LoginUser verifies the credentials and marks the user ONLINE. Unknown
// usernames and wrong passwords fail with the same error.
func (s *UserCommandService) LoginUser(ctx context.Context, cmd cqrs.LoginCommand) (*models.User, error) {
	user, err := s.store.FindByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		s.log.Debug("login rejected", zap.String("username", cmd.Username))
		return nil, apperrors.ErrInvalidCredentials
	}

	user.Status = models.StatusOnline
	saved, err := s.store.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, events.UserLoggedIn, saved)
	return saved, nil
}

// LogoutUser ends the session identified by the token and marks the user OFFLINE.
func (s *UserCommandService) LogoutUser(ctx context.Context, cmd cqrs.LogoutCommand) (*models.User, error) {
	if cmd.Token == "" {
		return nil, apperrors.ErrUserNotFound
	}
	user, err := s.store.FindByToken(ctx, cmd.Token)
	if err != nil {
		return nil, err
	}

	user.Status = models.StatusOffline
	saved, err := s.store.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, events.UserLoggedOut, saved)
	return saved, nil
}

// UpdateUser applies the supplied non-empty fields. A username already held
// by another user is rejected by the store with a conflict.
func (s *UserCommandService) UpdateUser(ctx context.Context, cmd cqrs.UpdateUserCommand) error {
	user, err := s.store.FindByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}

	if cmd.Username != nil && *cmd.Username != "" {
		user.Username = *cmd.Username
	}
	if cmd.BirthDate != nil && *cmd.BirthDate != "" {
		user.BirthDate = *cmd.BirthDate
	}

	saved, err := s.store.Save(ctx, user)
	if err != nil {
		return err
	}

	s.afterMutation(ctx, events.UserUpdated, saved)
	return nil
}

// afterMutation refreshes the read model and publishes the lifecycle event.
// Neither failure is returned to the caller.
func (s *UserCommandService) afterMutation(ctx context.Context, eventType string, user *models.User) {
	s.readRepo.CacheUserView(ctx, models.NewUserView(user))

	err := s.publisher.Publish(ctx, events.UserEventsStream, eventType, events.UserEvent{
		UserID:   user.ID,
		Username: user.Username,
		Status:   string(user.Status),
	})
	if err != nil {
		s.log.Warn("failed to publish event", zap.String("type", eventType), zap.Int64("userId", user.ID), zap.Error(err))
	}
}
