package query

import (
	"context"

	"github.com/sopra/user-service/internal/repository"
	"github.com/sopra/user-service/shared/cqrs"
	"github.com/sopra/user-service/shared/models"
)

// UserQueryService reads user views from the Redis cache (with a store fallback).
type UserQueryService struct {
	readRepo *repository.UserReadRepository
}

func NewUserQueryService(readRepo *repository.UserReadRepository) *UserQueryService {
	return &UserQueryService{readRepo: readRepo}
}

func (s *UserQueryService) ListUsers(ctx context.Context, _ cqrs.ListUsersQuery) ([]*models.UserView, error) {
	return s.readRepo.List(ctx)
}

func (s *UserQueryService) GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.UserView, error) {
	return s.readRepo.GetByID(ctx, q.UserID)
}
