package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CacheService caches resolved day availability in Redis so repeated
// calendar reads skip the resolve-and-generate path. Keys are scoped to
// one doctor and one date and are invalidated on every write that can
// change that day: working hours, exceptions, bookings, bulk edits.
//
// The cache is best-effort. A Redis failure degrades to a DB read, never
// to an error surfaced to the caller.
type CacheService struct {
	client *redis.Client
	log    *logrus.Logger
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, log *logrus.Logger, ttl time.Duration) *CacheService {
	return &CacheService{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func availabilityKey(doctorID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("availability:%s:%s", doctorID.String(), date.Format("2006-01-02"))
}

// GetDayAvailability loads the cached availability for one doctor-date into
// dest. Returns false on a miss.
func (s *CacheService) GetDayAvailability(ctx context.Context, doctorID uuid.UUID, date time.Time, dest interface{}) (bool, error) {
	raw, err := s.client.Get(ctx, availabilityKey(doctorID, date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		s.log.Warnf("Failed to read availability cache: %+v", err)
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warnf("Failed to decode availability cache entry, dropping it: %+v", err)
		s.client.Del(ctx, availabilityKey(doctorID, date))
		return false, nil
	}

	return true, nil
}

// SetDayAvailability stores the availability for one doctor-date.
func (s *CacheService) SetDayAvailability(ctx context.Context, doctorID uuid.UUID, date time.Time, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, availabilityKey(doctorID, date), raw, s.ttl).Err(); err != nil {
		s.log.Warnf("Failed to write availability cache: %+v", err)
		return err
	}

	return nil
}

// InvalidateDay drops the cached availability for one doctor-date.
func (s *CacheService) InvalidateDay(ctx context.Context, doctorID uuid.UUID, date time.Time) {
	if err := s.client.Del(ctx, availabilityKey(doctorID, date)).Err(); err != nil {
		s.log.Warnf("Failed to invalidate availability cache for %s on %s: %+v", doctorID, date.Format("2006-01-02"), err)
	}
}

// InvalidateDoctor drops every cached day for a doctor. Used when weekly
// working hours change, since any future date may be affected.
func (s *CacheService) InvalidateDoctor(ctx context.Context, doctorID uuid.UUID) {
	pattern := fmt.Sprintf("availability:%s:*", doctorID.String())

	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.log.Warnf("Failed to scan availability cache for doctor %s: %+v", doctorID, err)
		return
	}

	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			s.log.Warnf("Failed to invalidate availability cache for doctor %s: %+v", doctorID, err)
		}
	}
}
