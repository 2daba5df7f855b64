package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduleService struct {
	schedule.ScheduleService
	calledWith time.Time
	err        error
}

func (f *fakeScheduleService) PregenerateMonth(ctx context.Context, now time.Time) (int, error) {
	f.calledWith = now
	return 3, f.err
}

func TestScheduleJobs_PregenerateNextMonth(t *testing.T) {
	svc := &fakeScheduleService{}
	jobs := NewScheduleJobs(svc)
	fixed := time.Date(2025, 1, 25, 2, 0, 0, 0, time.UTC)
	jobs.now = func() time.Time { return fixed }

	scheduler := NewScheduler(time.UTC)
	require.NoError(t, jobs.RegisterJobs(scheduler, "0 2 25 * *"))
	require.Len(t, scheduler.Jobs(), 1)
	assert.Equal(t, "pregenerate_employee_schedules", scheduler.Jobs()[0].Name)

	scheduler.RunOnce(context.Background())
	assert.Equal(t, fixed, svc.calledWith)
}

func TestScheduleJobs_PropagatesError(t *testing.T) {
	svc := &fakeScheduleService{err: errors.New("db down")}
	jobs := NewScheduleJobs(svc)

	err := jobs.PregenerateNextMonth(context.Background())
	assert.EqualError(t, err, "db down")
}
