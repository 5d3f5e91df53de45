package query

import (
	"context"

	"github.com/explorewithme/ewm/main-service/internal/service"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
)

type CommentReader interface {
	ListByAuthor(ctx context.Context, authorID int64, page cqrs.Page) ([]models.Comment, error)
	ListByEvent(ctx context.Context, eventID int64, page cqrs.Page) ([]models.Comment, error)
}

type CommentQueryService struct {
	comments CommentReader
	events   EventLookup
	users    UserLookup
}

func NewCommentQueryService(comments CommentReader, events EventLookup, users UserLookup) *CommentQueryService {
	return &CommentQueryService{comments: comments, events: events, users: users}
}

func (s *CommentQueryService) ListUserComments(ctx context.Context, q cqrs.ListUserCommentsQuery) ([]models.CommentDto, error) {
	if _, err := s.users.GetByID(ctx, q.UserID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByAuthor(ctx, q.UserID, q.Page)
	if err != nil {
		return nil, err
	}
	return service.ToCommentDtos(comments), nil
}

func (s *CommentQueryService) ListEventComments(ctx context.Context, q cqrs.ListEventCommentsQuery) ([]models.CommentDto, error) {
	if _, err := s.events.GetByID(ctx, q.EventID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByEvent(ctx, q.EventID, q.Page)
	if err != nil {
		return nil, err
	}
	return service.ToCommentDtos(comments), nil
}
