package repository

import (
	"testing"
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestMarkBookedIfAvailableWins(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimeSlotRepository()

	slotID := uuid.New()
	appointmentID := uuid.New()

	mock.ExpectExec(`UPDATE "time_slots" SET`).
		WithArgs(appointmentID, string(entity.SlotStatusBooked), sqlmock.AnyArg(), slotID, string(entity.SlotStatusAvailable)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.MarkBookedIfAvailable(db, slotID, appointmentID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkBookedIfAvailableLostRace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimeSlotRepository()

	slotID := uuid.New()
	appointmentID := uuid.New()

	// the slot was booked by someone else between validate and commit
	mock.ExpectExec(`UPDATE "time_slots" SET`).
		WithArgs(appointmentID, string(entity.SlotStatusBooked), sqlmock.AnyArg(), slotID, string(entity.SlotStatusAvailable)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.MarkBookedIfAvailable(db, slotID, appointmentID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDReturnsNilWhenMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimeSlotRepository()

	slotID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "time_slots" WHERE id =`).
		WithArgs(slotID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "status"}))

	slot, err := repo.FindByID(db, slotID)
	require.NoError(t, err)
	assert.Nil(t, slot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByDoctorAndDateOrdersByStart(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimeSlotRepository()

	doctorID := uuid.New()
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	first := uuid.New()
	second := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "time_slots" WHERE doctor_id = .+ ORDER BY start_time`).
		WithArgs(doctorID, date).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "status", "duration"}).
			AddRow(first, doctorID, string(entity.SlotStatusAvailable), 30).
			AddRow(second, doctorID, string(entity.SlotStatusBooked), 30))

	slots, err := repo.FindByDoctorAndDate(db, doctorID, date)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, first, slots[0].ID)
	assert.True(t, slots[1].IsBooked())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByIDsSkipsEmptyAndBooked(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimeSlotRepository()

	affected, err := repo.DeleteByIDs(db, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	mock.ExpectExec(`DELETE FROM "time_slots" WHERE id IN .+ AND status !=`).
		WithArgs(ids[0], ids[1], ids[2], string(entity.SlotStatusBooked)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	affected, err = repo.DeleteByIDs(db, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
