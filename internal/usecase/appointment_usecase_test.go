package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/scheduling"
	"clinic-scheduler/internal/service"
)

type auditStub struct{}

func (auditStub) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	return nil
}

func (auditStub) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	return nil
}

func (auditStub) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	return nil
}

func newAppointmentTestUsecase(t *testing.T) (AppointmentUsecase, sqlmock.Sqlmock) {
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

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	uc := NewAppointmentUsecase(
		db,
		log,
		repository.NewAppointmentRepository(),
		repository.NewTimeSlotRepository(),
		repository.NewWorkingHoursRepository(),
		repository.NewScheduleExceptionRepository(),
		auditStub{},
		service.NewCacheService(client, log, time.Minute),
		service.NewEventService(client, log),
		SchedulingPolicy{Policy: scheduling.DefaultPolicy, DefaultSlotDuration: 30},
	)
	return uc, mock
}

func TestUpdateAppointmentStatusNoShowReleasesSlot(t *testing.T) {
	uc, mock := newAppointmentTestUsecase(t)

	apptID := uuid.New()
	doctorID := uuid.New()
	patientID := uuid.New()
	slotID := uuid.New()
	tomorrow := time.Now().AddDate(0, 0, 1)

	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE id =`).
		WithArgs(apptID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "patient_id", "doctor_id", "date", "duration", "status"}).
			AddRow(apptID, patientID, doctorID, tomorrow, 30, string(entity.AppointmentStatusConfirmed)))
	mock.ExpectQuery(`SELECT \* FROM "doctor_profiles"`).
		WithArgs(doctorID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectQuery(`SELECT \* FROM "patient_profiles"`).
		WithArgs(patientID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "appointments" SET "status"=`).
		WithArgs(string(entity.AppointmentStatusNoShow), sqlmock.AnyArg(), apptID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "time_slots" WHERE appointment_id =`).
		WithArgs(apptID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "date", "status"}).
			AddRow(slotID, doctorID, tomorrow, string(entity.SlotStatusBooked)))
	// a future slot goes back to available with its appointment link cleared
	mock.ExpectExec(`UPDATE "time_slots" SET`).
		WithArgs(nil, string(entity.SlotStatusAvailable), sqlmock.AnyArg(), slotID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := uc.UpdateAppointmentStatus(context.Background(), apptID, &dto.UpdateAppointmentStatusRequest{Status: "no_show"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusNoShow), resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppointmentStatusConfirmLeavesSlotAlone(t *testing.T) {
	uc, mock := newAppointmentTestUsecase(t)

	apptID := uuid.New()
	doctorID := uuid.New()
	patientID := uuid.New()
	tomorrow := time.Now().AddDate(0, 0, 1)

	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE id =`).
		WithArgs(apptID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "patient_id", "doctor_id", "date", "duration", "status"}).
			AddRow(apptID, patientID, doctorID, tomorrow, 30, string(entity.AppointmentStatusScheduled)))
	mock.ExpectQuery(`SELECT \* FROM "doctor_profiles"`).
		WithArgs(doctorID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectQuery(`SELECT \* FROM "patient_profiles"`).
		WithArgs(patientID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "appointments" SET "status"=`).
		WithArgs(string(entity.AppointmentStatusConfirmed), sqlmock.AnyArg(), apptID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := uc.UpdateAppointmentStatus(context.Background(), apptID, &dto.UpdateAppointmentStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusConfirmed), resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookAppointmentAdHocInsertLosesRace(t *testing.T) {
	// Two sessions racing for the same un-materialized interval both pass
	// validation against empty state. The unique key on
	// (doctor_id, date, start_time) rejects the second insert, which must
	// read as a lost race: re-validate against the winner's slot and
	// surface the conflict instead of the raw database error.
	uc, mock := newAppointmentTestUsecase(t)

	doctorID := uuid.New()
	patientID := uuid.New()
	apptID := uuid.New()
	tomorrow := time.Now().AddDate(0, 0, 1)

	dupErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_time_slots_doctor_date_start"}

	// first attempt: empty day, validation passes, insert collides
	mock.ExpectQuery(`SELECT \* FROM "working_hours" WHERE doctor_id =`).
		WillReturnRows(workingDayRows(doctorID, tomorrow))
	mock.ExpectQuery(`SELECT \* FROM "schedule_exceptions" WHERE doctor_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "time_slots" WHERE doctor_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(apptID))
	mock.ExpectQuery(`INSERT INTO "time_slots"`).
		WillReturnError(dupErr)
	mock.ExpectRollback()

	// retry: the winner's booked slot is visible now, validation conflicts
	mock.ExpectQuery(`SELECT \* FROM "working_hours" WHERE doctor_id =`).
		WillReturnRows(workingDayRows(doctorID, tomorrow))
	mock.ExpectQuery(`SELECT \* FROM "schedule_exceptions" WHERE doctor_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "time_slots" WHERE doctor_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "start_time", "end_time", "duration", "status"}).
			AddRow(uuid.New(), doctorID, "10:00:00", "10:30:00", 30, string(entity.SlotStatusBooked)))

	ctx := context.WithValue(context.Background(), middleware.UserIDKey, patientID)
	_, err := uc.BookAppointment(ctx, &dto.CreateAppointmentRequest{
		DoctorID:  doctorID,
		Date:      tomorrow.Format("2006-01-02"),
		StartTime: "10:00",
		Duration:  30,
	})

	var cerr *scheduling.ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, scheduling.ReasonSlotTaken, cerr.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func workingDayRows(doctorID uuid.UUID, day time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "doctor_id", "day_of_week", "start_time", "end_time", "is_working"}).
		AddRow(1, doctorID, int(entity.DayOfWeekFromDate(day)), "09:00:00", "17:00:00", true)
}

func TestUpdateAppointmentStatusRejectsIllegalTransition(t *testing.T) {
	uc, mock := newAppointmentTestUsecase(t)

	apptID := uuid.New()
	doctorID := uuid.New()
	patientID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE id =`).
		WithArgs(apptID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "patient_id", "doctor_id", "status"}).
			AddRow(apptID, patientID, doctorID, string(entity.AppointmentStatusCompleted)))
	mock.ExpectQuery(`SELECT \* FROM "doctor_profiles"`).
		WithArgs(doctorID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectQuery(`SELECT \* FROM "patient_profiles"`).
		WithArgs(patientID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := uc.UpdateAppointmentStatus(context.Background(), apptID, &dto.UpdateAppointmentStatusRequest{Status: "no_show"})
	var verr *scheduling.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
