package command

import (
	"context"

	"github.com/explorewithme/ewm/main-service/internal/service"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
)

type UserWriter interface {
	Create(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

type UserCommandService struct {
	repo UserWriter
}

func NewUserCommandService(repo UserWriter) *UserCommandService {
	return &UserCommandService{repo: repo}
}

func (s *UserCommandService) CreateUser(ctx context.Context, cmd cqrs.CreateUserCommand) (*models.UserDto, error) {
	user := &models.User{Name: cmd.Name, Email: cmd.Email}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	view := service.ToUserDto(user)
	return &view, nil
}

func (s *UserCommandService) DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
	return s.repo.Delete(ctx, cmd.UserID)
}
