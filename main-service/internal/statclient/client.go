package statclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/explorewithme/ewm/shared/events"
	"github.com/explorewithme/ewm/shared/metrics"
	"github.com/explorewithme/ewm/shared/models"
	sharedredis "github.com/explorewithme/ewm/shared/redis"
	"github.com/explorewithme/ewm/shared/utils"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	TransportHTTP   = "http"
	TransportStream = "stream"

	eventURIPrefix    = "/events/"
	viewsKeyPrefix    = "views:event:"
	hitStreamMaxLen   = 100000
	viewsLookbackSpan = 100
)

type Config struct {
	BaseURL   string
	App       string
	Timeout   time.Duration
	Transport string
	// HitStream is the Redis stream used by the stream transport.
	HitStream string
	ViewsTTL  time.Duration
}

type viewsEntry struct {
	Views int64 `json:"views"`
}

// Client talks to the stat service. Hits go over HTTP or, with the stream
// transport, through the Redis hit stream. View counts are cached in Redis
// when a client is supplied.
type Client struct {
	http      *http.Client
	baseURL   string
	app       string
	publisher *events.Publisher
	stream    string
	cache     *sharedredis.ViewCache[viewsEntry]
	metrics   *metrics.Metrics
	now       func() time.Time
}

// New builds a Client. redisClient and m may be nil. The stream transport
// falls back to HTTP without Redis.
func New(cfg Config, redisClient *goredis.Client, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		app:     cfg.App,
		cache:   sharedredis.NewViewCache[viewsEntry](redisClient, viewsKeyPrefix, cfg.ViewsTTL),
		metrics: m,
		now:     utils.Now,
	}
	if cfg.Transport == TransportStream && redisClient != nil {
		c.publisher = events.NewPublisher(redisClient, hitStreamMaxLen)
		c.stream = cfg.HitStream
		if c.stream == "" {
			c.stream = events.HitsStream
		}
	}
	return c
}

// Hit records one request to the main service.
func (c *Client) Hit(ctx context.Context, ip, uri string) error {
	hit := models.EndpointHitDto{
		App:       c.app,
		URI:       uri,
		IP:        ip,
		Timestamp: utils.FormatDateTime(c.now()),
	}

	var err error
	if c.publisher != nil {
		err = c.publisher.Publish(ctx, c.stream, events.HitRecorded, hit)
	} else {
		err = c.postHit(ctx, hit)
	}
	c.metrics.ObserveStatCall("hit", err)
	if err != nil {
		return err
	}

	if id, ok := eventIDFromURI(uri); ok {
		c.cache.Delete(ctx, strconv.FormatInt(id, 10))
	}
	return nil
}

func (c *Client) postHit(ctx context.Context, hit models.EndpointHitDto) error {
	body, err := json.Marshal(hit)
	if err != nil {
		return fmt.Errorf("failed to marshal hit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send hit: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stat service returned %d for hit", resp.StatusCode)
	}
	return nil
}

// Stats fetches aggregated hits for [start, end].
func (c *Client) Stats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]models.ViewStats, error) {
	stats, err := c.getStats(ctx, start, end, uris, unique)
	c.metrics.ObserveStatCall("stats", err)
	return stats, err
}

func (c *Client) getStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]models.ViewStats, error) {
	params := url.Values{}
	params.Set("start", utils.FormatDateTime(start))
	params.Set("end", utils.FormatDateTime(end))
	for _, uri := range uris {
		params.Add("uris", uri)
	}
	params.Set("unique", strconv.FormatBool(unique))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("stat service returned %d for stats", resp.StatusCode)
	}

	var stats []models.ViewStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}
	return stats, nil
}

// Views returns unique-IP views per event id. Every requested id is present
// in the result; stat service failures yield zeros.
func (c *Client) Views(ctx context.Context, eventIDs []int64) map[int64]int64 {
	views := make(map[int64]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return views
	}

	keys := make([]string, len(eventIDs))
	for i, id := range eventIDs {
		keys[i] = strconv.FormatInt(id, 10)
	}
	cached := c.cache.GetMany(ctx, keys)

	var missing []int64
	for i, id := range eventIDs {
		if entry, ok := cached[keys[i]]; ok {
			views[id] = entry.Views
			continue
		}
		views[id] = 0
		missing = append(missing, id)
	}
	if c.cache.Enabled() {
		c.metrics.ObserveViewsCache(len(cached), len(missing))
	}
	if len(missing) == 0 {
		return views
	}

	uris := make([]string, len(missing))
	for i, id := range missing {
		uris[i] = eventURIPrefix + strconv.FormatInt(id, 10)
	}
	now := c.now()
	stats, err := c.Stats(ctx, now.AddDate(-viewsLookbackSpan, 0, 0), now.Add(time.Second), uris, true)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load views from stat service")
		return views
	}
	for _, s := range stats {
		if id, ok := eventIDFromURI(s.URI); ok {
			if _, wanted := views[id]; wanted {
				views[id] = s.Hits
			}
		}
	}
	for _, id := range missing {
		c.cache.Set(ctx, strconv.FormatInt(id, 10), &viewsEntry{Views: views[id]})
	}
	return views
}

func eventIDFromURI(uri string) (int64, bool) {
	rest, ok := strings.CutPrefix(uri, eventURIPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
