package user

type Permission string

const (
	// Employees
	PermissionEmployeeView Permission = "employee.view"

	// Work schedules and employee schedules
	PermissionScheduleView   Permission = "schedule.view"
	PermissionScheduleManage Permission = "schedule.manage"

	// Advanced salary
	PermissionAdvanceRequest Permission = "advance.request"
	PermissionAdvanceReview  Permission = "advance.review"

	// Incentives, arrears and fines
	PermissionAdjustmentManage Permission = "adjustment.manage"
	PermissionAdjustmentReview Permission = "adjustment.review"

	// Punch corrections
	PermissionPunchRequest Permission = "punch.request"
	PermissionPunchReview  Permission = "punch.review"

	// Payroll
	PermissionPayrollView   Permission = "payroll.view"
	PermissionPayrollManage Permission = "payroll.manage"
	PermissionPayrollReview Permission = "payroll.review"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionEmployeeView,
		PermissionScheduleView,
		PermissionScheduleManage,
		PermissionAdvanceRequest,
		PermissionAdvanceReview,
		PermissionAdjustmentManage,
		PermissionAdjustmentReview,
		PermissionPunchRequest,
		PermissionPunchReview,
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionPayrollReview,
	},
	RoleManager: {
		PermissionEmployeeView,
		PermissionScheduleView,
		PermissionScheduleManage,
		PermissionAdvanceRequest,
		PermissionAdvanceReview,
		PermissionAdjustmentManage,
		PermissionAdjustmentReview,
		PermissionPunchRequest,
		PermissionPunchReview,
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionPayrollReview,
	},
	RoleEmployee: {
		PermissionScheduleView,
		PermissionAdvanceRequest,
		PermissionPunchRequest,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
