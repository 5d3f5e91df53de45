package command

import (
	"context"
	"fmt"

	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/events"
	"github.com/explorewithme/ewm/shared/metrics"
	"github.com/explorewithme/ewm/shared/middleware"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/explorewithme/ewm/shared/utils"
	"github.com/rs/zerolog/log"
)

// Ingestion paths reported to the hits_ingested_total counter.
const (
	SourceHTTP   = "http"
	SourceStream = "stream"
)

type HitStore interface {
	Save(ctx context.Context, hit *models.EndpointHit) error
}

// HitCommandService stores hits arriving over HTTP or the hit stream.
type HitCommandService struct {
	hits    HitStore
	metrics *metrics.Metrics
}

// NewHitCommandService creates the service. m may be nil.
func NewHitCommandService(hits HitStore, m *metrics.Metrics) *HitCommandService {
	return &HitCommandService{hits: hits, metrics: m}
}

func (s *HitCommandService) SaveHit(ctx context.Context, cmd cqrs.SaveHitCommand) (*models.EndpointHitDto, error) {
	return s.save(ctx, cmd, SourceHTTP)
}

func (s *HitCommandService) save(ctx context.Context, cmd cqrs.SaveHitCommand, source string) (*models.EndpointHitDto, error) {
	hit := &models.EndpointHit{
		App:       cmd.App,
		URI:       cmd.URI,
		IP:        cmd.IP,
		Timestamp: cmd.Timestamp,
	}
	if err := s.hits.Save(ctx, hit); err != nil {
		return nil, err
	}
	s.metrics.IncHitsIngested(source)

	return &models.EndpointHitDto{
		ID:        hit.ID,
		App:       hit.App,
		URI:       hit.URI,
		IP:        hit.IP,
		Timestamp: utils.FormatDateTime(hit.Timestamp),
	}, nil
}

// HandleHitEvent is the hit stream handler. Malformed hits are logged and
// acknowledged; only storage failures are returned so the message is retried.
func (s *HitCommandService) HandleHitEvent(ctx context.Context, event events.Event) error {
	if event.Type != events.HitRecorded {
		log.Warn().Str("type", event.Type).Msg("ignoring unknown event type on hit stream")
		return nil
	}

	var dto events.HitRecordedEvent
	if err := event.Decode(&dto); err != nil {
		log.Warn().Err(err).Msg("dropping undecodable hit")
		return nil
	}
	cmd, err := ParseHit(dto)
	if err != nil {
		log.Warn().Err(err).Str("uri", dto.URI).Msg("dropping invalid hit")
		return nil
	}

	if _, err := s.save(ctx, cmd, SourceStream); err != nil {
		return fmt.Errorf("store streamed hit: %w", err)
	}
	return nil
}

// ParseHit validates a wire hit and converts it into a command.
func ParseHit(dto models.EndpointHitDto) (cqrs.SaveHitCommand, error) {
	if verrs := middleware.ValidateRequest(&dto); verrs != nil {
		return cqrs.SaveHitCommand{}, apperrors.BadRequest("%s", verrs[0].String())
	}
	ts, err := utils.ParseDateTime(dto.Timestamp)
	if err != nil {
		return cqrs.SaveHitCommand{}, apperrors.BadRequest("%s", err.Error())
	}
	return cqrs.SaveHitCommand{App: dto.App, URI: dto.URI, IP: dto.IP, Timestamp: ts}, nil
}
