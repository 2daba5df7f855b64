package schedule

import (
	"context"
	"time"
)

type ScheduleService interface {
	// Work Schedule
	CreateWorkSchedule(ctx context.Context, req CreateWorkScheduleRequest) (WorkScheduleResponse, error)
	GetWorkSchedule(ctx context.Context, id string) (WorkScheduleResponse, error)
	ListWorkSchedules(ctx context.Context, filter WorkScheduleFilter) (ListWorkScheduleResponse, error)
	UpdateWorkSchedule(ctx context.Context, req UpdateWorkScheduleRequest) (WorkScheduleResponse, error)
	DeleteWorkSchedule(ctx context.Context, id string) error

	// Employee Schedule
	GenerateEmployeeSchedules(ctx context.Context, req GenerateSchedulesRequest) (GenerateSchedulesResponse, error)
	GetEmployeeSchedule(ctx context.Context, employeeID string, period PeriodQuery) (EmployeeScheduleResponse, error)
	FetchEmployeeSchedules(ctx context.Context, req FetchSchedulesRequest) (FetchSchedulesResponse, error)
	UpdateScheduleDay(ctx context.Context, req UpdateScheduleDayRequest) (EmployeeScheduleResponse, error)
	BatchUpdateSchedules(ctx context.Context, req BatchUpdateRequest) (BatchUpdateResponse, error)
	DeleteEmployeeSchedule(ctx context.Context, employeeID string, period PeriodQuery) error

	// PregenerateMonth creates missing schedules for the month after now, across all companies.
	PregenerateMonth(ctx context.Context, now time.Time) (int, error)
}
