package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
)

type ScheduleJobs struct {
	scheduleService schedule.ScheduleService
	now             func() time.Time
}

func NewScheduleJobs(scheduleService schedule.ScheduleService) *ScheduleJobs {
	return &ScheduleJobs{scheduleService: scheduleService, now: time.Now}
}

// RegisterJobs adds the next-month schedule generation job under spec.
func (j *ScheduleJobs) RegisterJobs(scheduler *Scheduler, spec string) error {
	return scheduler.AddJob("pregenerate_employee_schedules", spec, j.PregenerateNextMonth)
}

func (j *ScheduleJobs) PregenerateNextMonth(ctx context.Context) error {
	slog.Info("Cron: Starting next-month schedule generation")

	generated, err := j.scheduleService.PregenerateMonth(ctx, j.now())
	if err != nil {
		return err
	}

	slog.Info("Cron: Next-month schedule generation finished", "generated", generated)
	return nil
}
