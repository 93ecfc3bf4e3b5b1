package usecase

import (
	"testing"

	"clinic-scheduler/internal/delivery/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBuildWorkingHoursRow(t *testing.T) {
	doctorID := uuid.New()

	tests := []struct {
		name    string
		day     dto.WorkingHoursDayRequest
		wantErr error
	}{
		{
			name: "working day with break",
			day: dto.WorkingHoursDayRequest{
				DayOfWeek:  1,
				IsWorking:  true,
				StartTime:  "09:00",
				EndTime:    "17:00",
				BreakStart: strPtr("12:00"),
				BreakEnd:   strPtr("13:00"),
			},
		},
		{
			name: "non working day skips time validation",
			day:  dto.WorkingHoursDayRequest{DayOfWeek: 0, IsWorking: false},
		},
		{
			name:    "day out of range",
			day:     dto.WorkingHoursDayRequest{DayOfWeek: 7, IsWorking: true, StartTime: "09:00", EndTime: "17:00"},
			wantErr: ErrInvalidDayOfWeek,
		},
		{
			name:    "malformed time",
			day:     dto.WorkingHoursDayRequest{DayOfWeek: 1, IsWorking: true, StartTime: "9am", EndTime: "17:00"},
			wantErr: ErrInvalidTimeFormat,
		},
		{
			name:    "start after end",
			day:     dto.WorkingHoursDayRequest{DayOfWeek: 1, IsWorking: true, StartTime: "17:00", EndTime: "09:00"},
			wantErr: ErrInvalidTimeWindow,
		},
		{
			name:    "zero length window",
			day:     dto.WorkingHoursDayRequest{DayOfWeek: 1, IsWorking: true, StartTime: "09:00", EndTime: "09:00"},
			wantErr: ErrInvalidTimeWindow,
		},
		{
			name: "break start without break end",
			day: dto.WorkingHoursDayRequest{
				DayOfWeek: 1, IsWorking: true, StartTime: "09:00", EndTime: "17:00",
				BreakStart: strPtr("12:00"),
			},
			wantErr: ErrBreakOutsideWindow,
		},
		{
			name: "break outside working window",
			day: dto.WorkingHoursDayRequest{
				DayOfWeek: 1, IsWorking: true, StartTime: "09:00", EndTime: "17:00",
				BreakStart: strPtr("16:30"), BreakEnd: strPtr("17:30"),
			},
			wantErr: ErrBreakOutsideWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := buildWorkingHoursRow(doctorID, &tt.day)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, doctorID, row.DoctorID)
			assert.Equal(t, tt.day.IsWorking, row.IsWorking)
		})
	}
}

func TestBuildWorkingHoursRowBreakBounds(t *testing.T) {
	doctorID := uuid.New()
	row, err := buildWorkingHoursRow(doctorID, &dto.WorkingHoursDayRequest{
		DayOfWeek:  3,
		IsWorking:  true,
		StartTime:  "08:00",
		EndTime:    "16:00",
		BreakStart: strPtr("12:00"),
		BreakEnd:   strPtr("12:30"),
	})
	require.NoError(t, err)
	require.True(t, row.HasBreak())
	assert.Equal(t, "12:00", row.BreakStart.String())
	assert.Equal(t, "12:30", row.BreakEnd.String())
}
