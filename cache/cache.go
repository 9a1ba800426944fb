package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sombot-backend/logger"
	"sombot-backend/model"

	"github.com/go-redis/redis"
)

// Cache keeps approved events (with remaining-ticket counts) in redis so
// repeated storefront reads skip the database. Entries expire after TTL
// and are invalidated when a ticket is issued for the event.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func eventKey(eventID int64) string {
	return fmt.Sprintf("event:%d", eventID)
}

func (c *Cache) GetEvent(ctx context.Context, eventID int64) (*model.Event, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(eventKey(eventID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warnf(ctx, "cache: error reading event %d: %+v", eventID, err)
		return nil, false
	}

	var ev model.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		logger.Warnf(ctx, "cache: error unmarshalling event %d: %+v", eventID, err)
		return nil, false
	}

	return &ev, true
}

func (c *Cache) SetEvent(ctx context.Context, ev *model.Event) {
	if c == nil || c.client == nil || ev == nil {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		logger.Warnf(ctx, "cache: error marshalling event %d: %+v", ev.EventID, err)
		return
	}

	if err := c.client.Set(eventKey(ev.EventID), data, c.ttl).Err(); err != nil {
		logger.Warnf(ctx, "cache: error storing event %d: %+v", ev.EventID, err)
	}
}

// InvalidateEvent drops the cached entry, called after issuance changes
// the remaining-ticket count.
func (c *Cache) InvalidateEvent(ctx context.Context, eventID int64) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(eventKey(eventID)).Err(); err != nil {
		logger.Warnf(ctx, "cache: error invalidating event %d: %+v", eventID, err)
	}
}
