package usecase

import (
	"testing"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWeeklyPattern(t *testing.T) {
	weekly, err := buildWeeklyPattern([]dto.DayPatternRequest{
		{
			DayOfWeek:   1,
			IsAvailable: true,
			TimeSlots: []dto.SlotTemplateRequest{
				{StartTime: "09:00", EndTime: "09:30", Duration: 30},
				{StartTime: "09:30", EndTime: "10:00", Duration: 30},
			},
		},
		{DayOfWeek: 6, IsAvailable: false},
	})
	require.NoError(t, err)
	require.Len(t, weekly, 2)

	monday := weekly.ForDay(entity.DayOfWeek(1))
	require.NotNil(t, monday)
	assert.True(t, monday.IsAvailable)
	require.Len(t, monday.TimeSlots, 2)
	assert.Equal(t, 30, monday.TimeSlots[0].Duration)

	saturday := weekly.ForDay(entity.DayOfWeek(6))
	require.NotNil(t, saturday)
	assert.False(t, saturday.IsAvailable)

	assert.Nil(t, weekly.ForDay(entity.DayOfWeek(2)))
}

func TestBuildWeeklyPatternRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		days    []dto.DayPatternRequest
		wantErr error
	}{
		{
			name:    "day out of range",
			days:    []dto.DayPatternRequest{{DayOfWeek: 9}},
			wantErr: ErrInvalidDayOfWeek,
		},
		{
			name: "duplicate day",
			days: []dto.DayPatternRequest{
				{DayOfWeek: 2}, {DayOfWeek: 2},
			},
			wantErr: ErrDuplicatePatternDay,
		},
		{
			name: "slot duration disagrees with window",
			days: []dto.DayPatternRequest{{
				DayOfWeek:   1,
				IsAvailable: true,
				TimeSlots: []dto.SlotTemplateRequest{
					{StartTime: "09:00", EndTime: "10:00", Duration: 30},
				},
			}},
			wantErr: ErrTemplateSlotInvalid,
		},
		{
			name: "inverted slot window",
			days: []dto.DayPatternRequest{{
				DayOfWeek:   1,
				IsAvailable: true,
				TimeSlots: []dto.SlotTemplateRequest{
					{StartTime: "10:00", EndTime: "09:00", Duration: 60},
				},
			}},
			wantErr: ErrInvalidTimeWindow,
		},
		{
			name: "unparseable slot time",
			days: []dto.DayPatternRequest{{
				DayOfWeek:   1,
				IsAvailable: true,
				TimeSlots: []dto.SlotTemplateRequest{
					{StartTime: "morning", EndTime: "10:00", Duration: 60},
				},
			}},
			wantErr: ErrInvalidTimeFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildWeeklyPattern(tt.days)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
