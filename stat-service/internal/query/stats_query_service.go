package query

import (
	"context"

	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/explorewithme/ewm/shared/utils"
	"github.com/explorewithme/ewm/stat-service/internal/repository"
)

type StatsReader interface {
	Stats(ctx context.Context, f repository.StatsFilter) ([]models.ViewStats, error)
}

type StatsQueryService struct {
	hits StatsReader
}

func NewStatsQueryService(hits StatsReader) *StatsQueryService {
	return &StatsQueryService{hits: hits}
}

func (s *StatsQueryService) GetStats(ctx context.Context, q cqrs.GetStatsQuery) ([]models.ViewStats, error) {
	if q.Start.After(q.End) {
		return nil, apperrors.BadRequest("Start %s is after end %s",
			utils.FormatDateTime(q.Start), utils.FormatDateTime(q.End))
	}
	return s.hits.Stats(ctx, repository.StatsFilter{
		Start:  q.Start,
		End:    q.End,
		URIs:   q.URIs,
		Unique: q.Unique,
	})
}
