package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/advancedsalary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/punch"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Claims
	case errors.Is(err, user.ErrCompanyIDRequired),
		errors.Is(err, user.ErrInvalidClaims):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, employee.ErrUnauthorized),
		errors.Is(err, attendance.ErrUnauthorized),
		errors.Is(err, advancedsalary.ErrUnauthorized),
		errors.Is(err, punch.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, payroll.ErrEmployeeNotFound),
		errors.Is(err, schedule.ErrWorkScheduleNotFound),
		errors.Is(err, schedule.ErrEmployeeScheduleNotFound),
		errors.Is(err, attendance.ErrAttendanceNotFound),
		errors.Is(err, advancedsalary.ErrAdvancedSalaryNotFound),
		errors.Is(err, adjustment.ErrAdjustmentNotFound),
		errors.Is(err, punch.ErrPunchRequestNotFound),
		errors.Is(err, payroll.ErrPayrollRecordNotFound),
		errors.Is(err, payroll.ErrPayrollSettingsNotFound):
		NotFound(w, err.Error())

	// Conflicts and illegal state changes
	case errors.Is(err, schedule.ErrWorkScheduleNameExists),
		errors.Is(err, schedule.ErrWorkScheduleInUse),
		errors.Is(err, schedule.ErrEmployeeScheduleExists),
		errors.Is(err, schedule.ErrScheduleVersionConflict),
		errors.Is(err, advancedsalary.ErrNotPending),
		errors.Is(err, advancedsalary.ErrCannotDelete),
		errors.Is(err, adjustment.ErrNotPending),
		errors.Is(err, adjustment.ErrAlreadyProcessed),
		errors.Is(err, punch.ErrNotPending),
		errors.Is(err, payroll.ErrPayrollRecordAlreadyExists),
		errors.Is(err, payroll.ErrPayrollRecordNotEditable),
		errors.Is(err, payroll.ErrInvalidStatusTransition),
		errors.Is(err, payroll.ErrCannotDeletePaidRecord):
		Conflict(w, err.Error())

	// Bad input that passed shape validation
	case errors.Is(err, schedule.ErrInvalidClock),
		errors.Is(err, schedule.ErrInvalidDateFormat),
		errors.Is(err, schedule.ErrDayNotInSchedule),
		errors.Is(err, schedule.ErrTimeSlotRequired),
		errors.Is(err, schedule.ErrEmployeeIDRequired),
		errors.Is(err, employee.ErrNoWorkSchedule),
		errors.Is(err, employee.ErrInvalidPayrollType),
		errors.Is(err, employee.ErrPayrollTypeMismatch),
		errors.Is(err, employee.ErrEmployeeNotActive),
		errors.Is(err, attendance.ErrInvalidPunchType),
		errors.Is(err, advancedsalary.ErrApprovedExceedsRequested),
		errors.Is(err, advancedsalary.ErrEmployeeIDRequired),
		errors.Is(err, adjustment.ErrInvalidKind),
		errors.Is(err, punch.ErrFutureDate),
		errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, payroll.ErrInvalidPayrollType),
		errors.Is(err, payroll.ErrEmployeeHasNoSalary),
		errors.Is(err, payroll.ErrEmployeeHasNoSchedule):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
