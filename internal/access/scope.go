package access

import "errors"

var (
	// ErrMissingBranch indicates a branch-scoped role arrived without a branch
	// assignment. This is a configuration error and is always rejected.
	ErrMissingBranch = errors.New("branch-scoped identity has no branch")

	// ErrForbidden indicates the caller's role does not permit the operation
	// on a target inside its own branch.
	ErrForbidden = errors.New("operation not permitted for role")

	// ErrNotFound is returned to branch-scoped callers for out-of-branch
	// targets so that existence is never confirmed across branches.
	ErrNotFound = errors.New("not found")

	// ErrUnknownRole indicates a role string the capability table does not know.
	ErrUnknownRole = errors.New("unknown role")
)

// Role is the caller's position in the capability table.
type Role string

const (
	RoleSuper       Role = "super"
	RoleBranchAdmin Role = "branch_admin"
	RoleTrainer     Role = "trainer"
	RoleFrontDesk   Role = "front_desk"
	RoleMember      Role = "member"
)

// ParseRole maps a role string from the identity layer to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuper, RoleBranchAdmin, RoleTrainer, RoleFrontDesk, RoleMember:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

// Scope is the resolved access scope of a caller. Exactly one of Unrestricted
// or a non-empty BranchID holds; the zero value is not a valid scope.
type Scope struct {
	UserID       string
	Role         Role
	BranchID     string
	Unrestricted bool
}

// ResolveScope derives a Scope from a verified identity tuple. The super role
// yields an unrestricted scope regardless of branch assignment. Any other role
// without a branch is rejected with ErrMissingBranch rather than widened to a
// global scope.
func ResolveScope(userID, role, branchID string) (Scope, error) {
	r, err := ParseRole(role)
	if err != nil {
		return Scope{}, err
	}
	if r == RoleSuper {
		return Scope{UserID: userID, Role: r, Unrestricted: true}, nil
	}
	if branchID == "" {
		return Scope{}, ErrMissingBranch
	}
	return Scope{UserID: userID, Role: r, BranchID: branchID}, nil
}

// CanAccessBranch reports whether the scope may touch data in targetBranchID.
func CanAccessBranch(scope Scope, targetBranchID string) bool {
	if scope.Unrestricted {
		return true
	}
	return scope.BranchID != "" && scope.BranchID == targetBranchID
}
