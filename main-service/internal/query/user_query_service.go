package query

import (
	"context"

	"github.com/explorewithme/ewm/main-service/internal/service"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
)

type UserReader interface {
	List(ctx context.Context, ids []int64, page cqrs.Page) ([]models.User, error)
}

type UserQueryService struct {
	repo UserReader
}

func NewUserQueryService(repo UserReader) *UserQueryService {
	return &UserQueryService{repo: repo}
}

func (s *UserQueryService) ListUsers(ctx context.Context, q cqrs.ListUsersQuery) ([]models.UserDto, error) {
	users, err := s.repo.List(ctx, q.IDs, q.Page)
	if err != nil {
		return nil, err
	}
	return service.ToUserDtos(users), nil
}
