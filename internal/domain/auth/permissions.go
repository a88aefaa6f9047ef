package auth

const (
	PermEmployeesRead  = "employees.read"
	PermEmployeesWrite = "employees.write"
	PermClientsRead    = "clients.read"
	PermClientsWrite   = "clients.write"
	PermContractsRead  = "contracts.read"
	PermContractsWrite = "contracts.write"
	PermInvoicesRead   = "invoices.read"
	PermInvoicesWrite  = "invoices.write"
	PermTreasuryRead   = "treasury.read"
	PermTreasuryWrite  = "treasury.write"
	PermLeaveRead      = "leave.read"
	PermLeaveWrite     = "leave.write"
	PermLeaveApprove   = "leave.approve"
	PermAdvancesRead   = "advances.read"
	PermAdvancesWrite  = "advances.write"
	PermPayrollRead    = "payroll.read"
	PermPayrollWrite   = "payroll.write"
	PermPlanningRead   = "planning.read"
	PermPlanningWrite  = "planning.write"
	PermAttendanceRead  = "attendance.read"
	PermAttendanceWrite = "attendance.write"
	PermReportsRead    = "reports.read"
	PermAuditRead      = "audit.read"
	PermUsersManage    = "users.manage"
)

var AllPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermClientsRead,
	PermClientsWrite,
	PermContractsRead,
	PermContractsWrite,
	PermInvoicesRead,
	PermInvoicesWrite,
	PermTreasuryRead,
	PermTreasuryWrite,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveApprove,
	PermAdvancesRead,
	PermAdvancesWrite,
	PermPayrollRead,
	PermPayrollWrite,
	PermPlanningRead,
	PermPlanningWrite,
	PermAttendanceRead,
	PermAttendanceWrite,
	PermReportsRead,
	PermAuditRead,
	PermUsersManage,
}

// RolePermissions is the default permission list granted when a user is
// created without an explicit one. Every user carries their own list; the
// role only seeds it.
var RolePermissions = map[string][]string{
	RoleAdmin: AllPermissions,
	RoleManager: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermClientsRead,
		PermContractsRead,
		PermInvoicesRead,
		PermTreasuryRead,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermAdvancesRead,
		PermAdvancesWrite,
		PermPayrollRead,
		PermPlanningRead,
		PermPlanningWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermReportsRead,
	},
	RoleAgent: {
		PermLeaveRead,
		PermLeaveWrite,
		PermAdvancesRead,
		PermPlanningRead,
		PermAttendanceRead,
		PermAttendanceWrite,
	},
}

// PermissionsForRole returns a copy of the role's default permission list.
func PermissionsForRole(role string) []string {
	perms, ok := RolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
