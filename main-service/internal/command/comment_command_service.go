package command

import (
	"context"
	"time"

	"github.com/explorewithme/ewm/main-service/internal/service"
	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/explorewithme/ewm/shared/utils"
)

type CommentWriter interface {
	Create(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	UpdateText(ctx context.Context, c *models.Comment) error
	Delete(ctx context.Context, id int64) error
}

type CommentCommandService struct {
	comments CommentWriter
	events   EventLookup
	users    UserLookup
	now      func() time.Time
}

func NewCommentCommandService(comments CommentWriter, events EventLookup, users UserLookup) *CommentCommandService {
	return &CommentCommandService{comments: comments, events: events, users: users, now: utils.Now}
}

func (s *CommentCommandService) CreateComment(ctx context.Context, cmd cqrs.CreateCommentCommand) (*models.CommentDto, error) {
	author, err := s.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	e, err := s.events.GetByID(ctx, cmd.EventID)
	if err != nil {
		return nil, err
	}
	if e.State != models.EventPublished {
		return nil, apperrors.Conflict("Only published events can be commented")
	}

	c := &models.Comment{
		Text:       cmd.Text,
		EventID:    e.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Created:    s.now(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	view := service.ToCommentDto(c)
	return &view, nil
}

func (s *CommentCommandService) UpdateComment(ctx context.Context, cmd cqrs.UpdateCommentCommand) (*models.CommentDto, error) {
	c, err := s.ownComment(ctx, cmd.UserID, cmd.CommentID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	c.Text = cmd.Text
	c.Updated = &now
	if err := s.comments.UpdateText(ctx, c); err != nil {
		return nil, err
	}
	view := service.ToCommentDto(c)
	return &view, nil
}

func (s *CommentCommandService) DeleteComment(ctx context.Context, cmd cqrs.DeleteCommentCommand) error {
	if _, err := s.ownComment(ctx, cmd.UserID, cmd.CommentID); err != nil {
		return err
	}
	return s.comments.Delete(ctx, cmd.CommentID)
}

func (s *CommentCommandService) AdminDeleteComment(ctx context.Context, cmd cqrs.AdminDeleteCommentCommand) error {
	return s.comments.Delete(ctx, cmd.CommentID)
}

// ownComment loads a comment and checks that userID wrote it.
func (s *CommentCommandService) ownComment(ctx context.Context, userID, commentID int64) (*models.Comment, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != userID {
		return nil, apperrors.Conflict("Only the author can change comment id=%d", commentID)
	}
	return c, nil
}
