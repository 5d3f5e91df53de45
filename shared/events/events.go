package events

import (
	"encoding/json"
	"time"

	"github.com/explorewithme/ewm/shared/models"
)

// Event types
const (
	HitRecorded = "hit.recorded"
)

// Stream names
const (
	HitsStream = "stat.hits"
)

// Consumer groups
const (
	StatServiceGroup = "stat-service"
)

// Event is the envelope written to a stream under the "event" field.
type Event struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

// HitRecordedEvent carries one endpoint hit from the main service to the
// stat service. It has the same shape as the POST /hit body.
type HitRecordedEvent = models.EndpointHitDto
