package access

// Operation names an action checked against the capability table.
type Operation string

const (
	OpRecordAttendance      Operation = "record_attendance"
	OpIssueToken            Operation = "issue_token"
	OpReadTodayHistory      Operation = "read_today_history"
	OpReadAttendanceHistory Operation = "read_attendance_history"
	OpManageStaff           Operation = "manage_staff"
)

// capabilities is the static role-to-operation table. Adding a role or an
// operation forces an explicit entry here; there is no runtime fallback.
var capabilities = map[Role]map[Operation]bool{
	RoleSuper: {
		OpRecordAttendance:      true,
		OpIssueToken:            true,
		OpReadTodayHistory:      true,
		OpReadAttendanceHistory: true,
		OpManageStaff:           true,
	},
	RoleBranchAdmin: {
		OpRecordAttendance:      true,
		OpIssueToken:            true,
		OpReadTodayHistory:      true,
		OpReadAttendanceHistory: true,
		OpManageStaff:           true,
	},
	RoleTrainer: {
		OpIssueToken:            true,
		OpReadTodayHistory:      true,
		OpReadAttendanceHistory: true,
	},
	RoleFrontDesk: {
		OpRecordAttendance:      true,
		OpIssueToken:            true,
		OpReadTodayHistory:      true,
		OpReadAttendanceHistory: true,
	},
	RoleMember: {
		OpIssueToken: true,
	},
}

// Allowed reports whether role may perform op.
func Allowed(role Role, op Operation) bool {
	ops, ok := capabilities[role]
	if !ok {
		return false
	}
	return ops[op]
}

// Require checks the capability table for (scope.Role, op) and returns
// ErrForbidden on denial. Branch containment is checked separately.
func Require(scope Scope, op Operation) error {
	if !Allowed(scope.Role, op) {
		return ErrForbidden
	}
	return nil
}

// RequireBranch combines a capability check with branch containment for data
// that lives in targetBranchID. Out-of-branch targets yield ErrNotFound for
// branch-scoped callers, never ErrForbidden, so cross-branch existence is not
// confirmed. Same-branch role denials yield ErrForbidden.
func RequireBranch(scope Scope, op Operation, targetBranchID string) error {
	if !CanAccessBranch(scope, targetBranchID) {
		return ErrNotFound
	}
	return Require(scope, op)
}
