package service

import (
	"context"
	"fmt"
	"time"

	"clinic-scheduler/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReminderService periodically sweeps confirmed appointments that start
// within the lead window and publishes an appointment_reminder event for
// each. A Redis SET NX marker keyed by appointment ID makes the sweep
// idempotent across restarts and overlapping runs.
type ReminderService struct {
	db          *gorm.DB
	log         *logrus.Logger
	apptRepo    repository.AppointmentRepository
	events      *EventService
	redisClient *redis.Client
	cron        *cron.Cron
	lead        time.Duration
}

func NewReminderService(
	db *gorm.DB,
	log *logrus.Logger,
	apptRepo repository.AppointmentRepository,
	events *EventService,
	redisClient *redis.Client,
	lead time.Duration,
) *ReminderService {
	return &ReminderService{
		db:          db,
		log:         log,
		apptRepo:    apptRepo,
		events:      events,
		redisClient: redisClient,
		cron:        cron.New(),
		lead:        lead,
	}
}

// Start schedules the reminder sweep. Runs every 15 minutes.
func (s *ReminderService) Start() error {
	if _, err := s.cron.AddFunc("*/15 * * * *", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infof("Reminder sweep started, lead window %s", s.lead)
	return nil
}

// Stop halts the cron scheduler and waits for a running sweep to finish.
func (s *ReminderService) Stop() {
	<-s.cron.Stop().Done()
}

func (s *ReminderService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	appointments, err := s.apptRepo.FindConfirmedBetween(s.db.WithContext(ctx), now, now.Add(s.lead))
	if err != nil {
		s.log.Warnf("Reminder sweep query failed: %+v", err)
		return
	}

	sent := 0
	for i := range appointments {
		appt := &appointments[i]

		marker := fmt.Sprintf("reminder_sent:%s", appt.ID.String())
		ok, err := s.redisClient.SetNX(ctx, marker, "1", 48*time.Hour).Result()
		if err != nil {
			s.log.Warnf("Failed to set reminder marker for appointment %s: %+v", appt.ID, err)
			continue
		}
		if !ok {
			continue // already reminded
		}

		apptID := appt.ID
		patientID := appt.PatientID
		s.events.Publish(ctx, SchedulingEvent{
			Type:          EventAppointmentReminder,
			DoctorID:      appt.DoctorID,
			PatientID:     &patientID,
			AppointmentID: &apptID,
			Date:          appt.Date.Format("2006-01-02"),
			StartTime:     appt.StartTime.String(),
		})
		sent++
	}

	if sent > 0 {
		s.log.Infof("Reminder sweep published %d reminders", sent)
	}
}
