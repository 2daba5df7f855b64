package schedule

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== WORK SCHEDULE DTOs ==========

type CreateWorkScheduleRequest struct {
	Name               string           `json:"name"`
	ShiftStart         string           `json:"shift_start"`
	ShiftEnd           string           `json:"shift_end"`
	WorkDays           []int            `json:"work_days"`
	GracePeriodMinutes *int             `json:"grace_period_minutes"`
	MinimumHours       *decimal.Decimal `json:"minimum_hours,omitempty"`
}

func (r *CreateWorkScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	validateShift(&errs, r.ShiftStart, r.ShiftEnd, r.WorkDays, r.MinimumHours)
	if r.GracePeriodMinutes == nil {
		errs.Add("grace_period_minutes", "grace_period_minutes is required")
	} else if *r.GracePeriodMinutes < 0 {
		errs.Add("grace_period_minutes", "grace_period_minutes must be a non-negative number")
	}

	return errs.Err()
}

type UpdateWorkScheduleRequest struct {
	ID                 string           `json:"-"`
	Name               *string          `json:"name,omitempty"`
	ShiftStart         *string          `json:"shift_start,omitempty"`
	ShiftEnd           *string          `json:"shift_end,omitempty"`
	WorkDays           []int            `json:"work_days,omitempty"`
	GracePeriodMinutes *int             `json:"grace_period_minutes,omitempty"`
	MinimumHours       *decimal.Decimal `json:"minimum_hours,omitempty"`
}

func (r *UpdateWorkScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name cannot be empty")
	}
	if r.GracePeriodMinutes != nil && *r.GracePeriodMinutes < 0 {
		errs.Add("grace_period_minutes", "grace_period_minutes must be a non-negative number")
	}

	return errs.Err()
}

// Apply merges the request into ws and validates the result.
func (r *UpdateWorkScheduleRequest) Apply(ws WorkSchedule) (WorkSchedule, error) {
	if r.Name != nil {
		ws.Name = strings.TrimSpace(*r.Name)
	}
	if r.ShiftStart != nil {
		ws.ShiftStart = *r.ShiftStart
	}
	if r.ShiftEnd != nil {
		ws.ShiftEnd = *r.ShiftEnd
	}
	if r.WorkDays != nil {
		ws.WorkDays = r.WorkDays
	}
	if r.GracePeriodMinutes != nil {
		ws.GracePeriodMinutes = *r.GracePeriodMinutes
	}
	if r.MinimumHours != nil {
		ws.MinimumHours = *r.MinimumHours
	}

	var errs validator.ValidationErrors
	validateShift(&errs, ws.ShiftStart, ws.ShiftEnd, ws.WorkDays, &ws.MinimumHours)
	if err := errs.Err(); err != nil {
		return WorkSchedule{}, err
	}
	return ws, nil
}

func validateShift(errs *validator.ValidationErrors, start, end string, workDays []int, minimumHours *decimal.Decimal) {
	startTOD, startOK := validator.IsValidTime(start)
	if !startOK {
		errs.Add("shift_start", "shift_start must be in HH:MM format")
	}
	endTOD, endOK := validator.IsValidTime(end)
	if !endOK {
		errs.Add("shift_end", "shift_end must be in HH:MM format")
	}
	if !validator.IsValidWeekdays(workDays) {
		errs.Add("work_days", "work_days must be unique values between 0 (Sunday) and 6 (Saturday)")
	}
	if minimumHours == nil {
		return
	}
	if !validator.IsNonNegative(minimumHours) {
		errs.Add("minimum_hours", "minimum_hours must be a non-negative number")
		return
	}
	if startOK && endOK {
		length := endTOD.Sub(startTOD)
		if length < 0 {
			length += 24 * time.Hour
		}
		if minimumHours.GreaterThan(decimal.NewFromFloat(length.Hours())) {
			errs.Add("minimum_hours", "minimum_hours cannot exceed the shift length")
		}
	}
}

type WorkScheduleResponse struct {
	ID                 string          `json:"id"`
	CompanyID          string          `json:"company_id"`
	Name               string          `json:"name"`
	ShiftStart         string          `json:"shift_start"`
	ShiftEnd           string          `json:"shift_end"`
	IsOvernight        bool            `json:"is_overnight"`
	WorkDays           []int           `json:"work_days"`
	GracePeriodMinutes int             `json:"grace_period_minutes"`
	MinimumHours       decimal.Decimal `json:"minimum_hours"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

func ToWorkScheduleResponse(ws WorkSchedule) WorkScheduleResponse {
	workDays := ws.WorkDays
	if workDays == nil {
		workDays = []int{}
	}
	return WorkScheduleResponse{
		ID:                 ws.ID,
		CompanyID:          ws.CompanyID,
		Name:               ws.Name,
		ShiftStart:         ws.ShiftStart,
		ShiftEnd:           ws.ShiftEnd,
		IsOvernight:        ws.IsOvernight(),
		WorkDays:           workDays,
		GracePeriodMinutes: ws.GracePeriodMinutes,
		MinimumHours:       ws.MinimumHours,
		CreatedAt:          ws.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:          ws.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ListWorkScheduleResponse - with pagination metadata
type ListWorkScheduleResponse struct {
	TotalCount    int64                  `json:"total_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	Showing       string                 `json:"showing"`
	WorkSchedules []WorkScheduleResponse `json:"work_schedules"`
}

type WorkScheduleFilter struct {
	Name *string `json:"name,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // name, shift_start, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *WorkScheduleFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, []string{"name", "shift_start", "created_at"}) {
		errs.Add("sort_by", "sort_by must be one of: name, shift_start, created_at")
	}
	if f.SortOrder != "" && !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs.Add("sort_order", "sort_order must be 'asc' or 'desc'")
	}

	return errs.Err()
}

// ========== EMPLOYEE SCHEDULE DTOs ==========

type PeriodQuery struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (p PeriodQuery) validate(errs *validator.ValidationErrors) {
	if !validator.IsValidPeriod(p.Month, p.Year) {
		errs.Add("period", "month must be 1-12 and year 2000-2100")
	}
}

// Validate checks a period given as query parameters
func (p PeriodQuery) Validate() error {
	var errs validator.ValidationErrors
	p.validate(&errs)
	return errs.Err()
}

type GenerateSchedulesRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	Month       int      `json:"month"`
	Year        int      `json:"year"`
	Overwrite   bool     `json:"overwrite"`
}

func (r *GenerateSchedulesRequest) Validate() error {
	var errs validator.ValidationErrors

	PeriodQuery{Month: r.Month, Year: r.Year}.validate(&errs)
	if len(r.EmployeeIDs) == 0 {
		errs.Add("employee_ids", "at least one employee is required")
	}
	validateIDs(&errs, "employee_ids", r.EmployeeIDs)

	return errs.Err()
}

type SkippedEmployee struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type GenerateSchedulesResponse struct {
	Generated []EmployeeScheduleResponse `json:"generated"`
	Skipped   []SkippedEmployee          `json:"skipped"`
}

type FetchSchedulesRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	Month       int      `json:"month"`
	Year        int      `json:"year"`
}

func (r *FetchSchedulesRequest) Validate() error {
	var errs validator.ValidationErrors

	PeriodQuery{Month: r.Month, Year: r.Year}.validate(&errs)
	if len(r.EmployeeIDs) == 0 {
		errs.Add("employee_ids", "at least one employee is required")
	}
	if len(r.EmployeeIDs) > 200 {
		errs.Add("employee_ids", "at most 200 employees per request")
	}
	validateIDs(&errs, "employee_ids", r.EmployeeIDs)

	return errs.Err()
}

type FailedFetch struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type FetchSchedulesResponse struct {
	Schedules   []EmployeeScheduleResponse `json:"schedules"`
	FailedCount int                        `json:"failed_count"`
	Failed      []FailedFetch              `json:"failed"`
}

type UpdateScheduleDayRequest struct {
	EmployeeID     string  `json:"-"`
	Month          int     `json:"month"`
	Year           int     `json:"year"`
	Date           string  `json:"date"`
	IsDayOff       *bool   `json:"is_day_off,omitempty"`
	WorkScheduleID *string `json:"work_schedule_id,omitempty"`
	Start          *string `json:"start,omitempty"`
	End            *string `json:"end,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

func (r *UpdateScheduleDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	PeriodQuery{Month: r.Month, Year: r.Year}.validate(&errs)
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", ErrInvalidDateFormat.Error())
	}
	if r.WorkScheduleID != nil && !validator.IsValidUUID(*r.WorkScheduleID) {
		errs.Add("work_schedule_id", "work_schedule_id must be a valid UUID")
	}
	if (r.Start == nil) != (r.End == nil) {
		errs.Add("start", "start and end must be provided together")
	}
	if r.Start != nil {
		if _, ok := validator.IsValidTime(*r.Start); !ok {
			errs.Add("start", "start must be in HH:MM format")
		}
	}
	if r.End != nil {
		if _, ok := validator.IsValidTime(*r.End); !ok {
			errs.Add("end", "end must be in HH:MM format")
		}
	}
	if r.IsDayOff == nil && r.WorkScheduleID == nil && r.Start == nil && r.Notes == nil {
		errs.Add("is_day_off", "one of is_day_off, work_schedule_id, start/end or notes is required")
	}

	return errs.Err()
}

// BatchUpdateRequest edits many days of many employees in one atomic call.
type BatchUpdateRequest struct {
	Month          int            `json:"month"`
	Year           int            `json:"year"`
	Selections     []DaySelection `json:"selections"`
	IsDayOff       *bool          `json:"is_day_off,omitempty"`
	WorkScheduleID *string        `json:"work_schedule_id,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
}

func (r *BatchUpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	PeriodQuery{Month: r.Month, Year: r.Year}.validate(&errs)
	if len(r.Selections) == 0 {
		errs.Add("selections", "at least one selection is required")
	}
	for i, sel := range r.Selections {
		if !validator.IsValidUUID(sel.EmployeeID) {
			errs.Add("selections["+validator.Itoa(i)+"].employee_id", "must be a valid UUID")
		}
		if len(sel.Dates) == 0 {
			errs.Add("selections["+validator.Itoa(i)+"].dates", "at least one date is required")
		}
		for j, d := range sel.Dates {
			if _, ok := validator.IsValidDate(d); !ok {
				errs.Add("selections["+validator.Itoa(i)+"].dates["+validator.Itoa(j)+"]", ErrInvalidDateFormat.Error())
			}
		}
	}
	if r.IsDayOff == nil && r.WorkScheduleID == nil && r.Notes == nil {
		errs.Add("is_day_off", "one of is_day_off, work_schedule_id or notes is required")
	}
	if r.WorkScheduleID != nil && !validator.IsValidUUID(*r.WorkScheduleID) {
		errs.Add("work_schedule_id", "work_schedule_id must be a valid UUID")
	}

	return errs.Err()
}

type BatchUpdateResponse struct {
	UpdatedDays int                        `json:"updated_days"`
	Schedules   []EmployeeScheduleResponse `json:"schedules"`
}

type EmployeeScheduleResponse struct {
	ID           string        `json:"id"`
	EmployeeID   string        `json:"employee_id"`
	EmployeeName *string       `json:"employee_name,omitempty"`
	EmployeeCode *string       `json:"employee_code,omitempty"`
	Month        int           `json:"month"`
	Year         int           `json:"year"`
	WorkingDays  int           `json:"working_days"`
	Version      int           `json:"version"`
	Days         []DaySchedule `json:"days"`
	UpdatedAt    string        `json:"updated_at"`
}

func ToEmployeeScheduleResponse(s EmployeeSchedule) EmployeeScheduleResponse {
	return EmployeeScheduleResponse{
		ID:           s.ID,
		EmployeeID:   s.EmployeeID,
		EmployeeName: s.EmployeeName,
		EmployeeCode: s.EmployeeCode,
		Month:        s.Month,
		Year:         s.Year,
		WorkingDays:  s.WorkingDays(),
		Version:      s.Version,
		Days:         s.Days,
		UpdatedAt:    s.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func validateIDs(errs *validator.ValidationErrors, field string, ids []string) {
	for i, id := range ids {
		if !validator.IsValidUUID(id) {
			errs.Add(field+"["+validator.Itoa(i)+"]", "must be a valid UUID")
		}
	}
}
