package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dayPayload struct {
	Date        string `json:"date"`
	IsAvailable bool   `json:"is_available"`
}

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	return NewCacheService(client, log, 5*time.Minute), mr
}

func TestCacheServiceRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	doctorID := uuid.New()
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	var miss dayPayload
	hit, err := cache.GetDayAvailability(ctx, doctorID, date, &miss)
	require.NoError(t, err)
	assert.False(t, hit)

	stored := dayPayload{Date: "2026-03-09", IsAvailable: true}
	require.NoError(t, cache.SetDayAvailability(ctx, doctorID, date, stored))

	var got dayPayload
	hit, err = cache.GetDayAvailability(ctx, doctorID, date, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, stored, got)
}

func TestCacheServiceDropsCorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	doctorID := uuid.New()
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	key := "availability:" + doctorID.String() + ":2026-03-09"
	require.NoError(t, mr.Set(key, "not json"))

	var got dayPayload
	hit, err := cache.GetDayAvailability(ctx, doctorID, date, &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists(key))
}

func TestCacheServiceInvalidateDay(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	doctorID := uuid.New()
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	require.NoError(t, cache.SetDayAvailability(ctx, doctorID, date, dayPayload{Date: "2026-03-09"}))

	cache.InvalidateDay(ctx, doctorID, date)
	assert.False(t, mr.Exists("availability:"+doctorID.String()+":2026-03-09"))
}

func TestCacheServiceInvalidateDoctorLeavesOthers(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	affected := uuid.New()
	other := uuid.New()

	for _, day := range []string{"2026-03-09", "2026-03-10", "2026-03-11"} {
		date, err := time.Parse("2006-01-02", day)
		require.NoError(t, err)
		require.NoError(t, cache.SetDayAvailability(ctx, affected, date, dayPayload{Date: day}))
	}
	otherDate := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	require.NoError(t, cache.SetDayAvailability(ctx, other, otherDate, dayPayload{Date: "2026-03-09"}))

	cache.InvalidateDoctor(ctx, affected)

	for _, day := range []string{"2026-03-09", "2026-03-10", "2026-03-11"} {
		assert.False(t, mr.Exists("availability:"+affected.String()+":"+day))
	}
	assert.True(t, mr.Exists("availability:"+other.String()+":2026-03-09"))
}
