package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventServicePublish(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	events := NewEventService(client, logrus.New())
	ctx := context.Background()

	sub := client.Subscribe(ctx, EventChannel)
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	doctorID := uuid.New()
	patientID := uuid.New()
	events.Publish(ctx, SchedulingEvent{
		Type:      EventBookingCreated,
		DoctorID:  doctorID,
		PatientID: &patientID,
		Date:      "2026-03-09",
		StartTime: "09:30",
	})

	msg, err := sub.ReceiveTimeout(ctx, time.Second)
	require.NoError(t, err)
	payload, ok := msg.(*redis.Message)
	require.True(t, ok)

	var got SchedulingEvent
	require.NoError(t, json.Unmarshal([]byte(payload.Payload), &got))
	assert.Equal(t, EventBookingCreated, got.Type)
	assert.Equal(t, doctorID, got.DoctorID)
	require.NotNil(t, got.PatientID)
	assert.Equal(t, patientID, *got.PatientID)
	assert.Equal(t, "2026-03-09", got.Date)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestEventServicePublishSurvivesRedisOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	events := NewEventService(client, logrus.New())
	mr.Close()

	// must not panic or propagate the failure
	events.Publish(context.Background(), SchedulingEvent{
		Type:     EventBookingCancelled,
		DoctorID: uuid.New(),
	})
}
