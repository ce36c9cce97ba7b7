// Package policy implements the access rules of the records service as pure
// decision functions. The principal is always passed in explicitly; nothing
// here reads ambient request state or touches storage.
package policy

import "github.com/Charan200529/StudentReportSystem/internal/models"

// Principal identifies the authenticated caller for the duration of one
// request. The zero value means no authentication was presented.
type Principal struct {
	ID              uint
	Role            models.Role
	CurrentSemester *int
}

// Authenticated reports whether the principal belongs to a signed-in user.
func (p Principal) Authenticated() bool {
	return p.ID != 0 && p.Role.Valid()
}

// Action is an operation a principal wants to perform on a resource.
type Action string

const (
	ActionRead        Action = "read"
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionGrade       Action = "grade"
	ActionManageUsers Action = "manage_users"
)

// Resource is the kind of entity an action targets.
type Resource string

const (
	ResourceCourse     Resource = "course"
	ResourceAssignment Resource = "assignment"
	ResourceEnrollment Resource = "enrollment"
	ResourceSubmission Resource = "submission"
	ResourceUser       Resource = "user"
	ResourceAnalytics  Resource = "analytics"
)

// DenyReason distinguishes why a request was refused so the HTTP layer can
// map it to the right status without re-deriving the rule.
type DenyReason string

const (
	DenyNone            DenyReason = ""
	DenyUnauthenticated DenyReason = "unauthenticated"
	DenyRoleForbidden   DenyReason = "role_forbidden"
)

// Decision is the outcome of an authorization check. Scoped allows (student
// reads) require the caller to restrict results to the principal's active
// enrollments.
type Decision struct {
	Allowed bool
	Scoped  bool
	Reason  DenyReason
}

func allow() Decision { return Decision{Allowed: true} }

func allowScoped() Decision { return Decision{Allowed: true, Scoped: true} }

func deny(reason DenyReason) Decision { return Decision{Allowed: false, Reason: reason} }

// Authorize evaluates whether the principal may perform action on resource.
func Authorize(p Principal, action Action, resource Resource) Decision {
	if !p.Authenticated() {
		return deny(DenyUnauthenticated)
	}

	switch p.Role {
	case models.RoleAdmin:
		return allow()

	case models.RoleTeacher:
		switch action {
		case ActionRead:
			switch resource {
			case ResourceCourse, ResourceAssignment, ResourceEnrollment, ResourceSubmission:
				return allow()
			}
			// User listings and reporting surfaces stay admin-only.
			return deny(DenyRoleForbidden)
		case ActionCreate, ActionUpdate:
			switch resource {
			case ResourceCourse, ResourceAssignment:
				return allow()
			}
			return deny(DenyRoleForbidden)
		case ActionGrade:
			if resource == ResourceSubmission {
				return allow()
			}
			return deny(DenyRoleForbidden)
		case ActionDelete, ActionManageUsers:
			return deny(DenyRoleForbidden)
		}
		return deny(DenyRoleForbidden)

	case models.RoleStudent:
		switch action {
		case ActionRead:
			switch resource {
			case ResourceCourse, ResourceAssignment, ResourceSubmission:
				return allowScoped()
			}
			return deny(DenyRoleForbidden)
		case ActionCreate:
			if resource == ResourceSubmission {
				return allow()
			}
			return deny(DenyRoleForbidden)
		}
		return deny(DenyRoleForbidden)
	}

	// Unreachable while Authenticated() admits only the known roles; kept so
	// the compiler sees a return, with the reason the guard above produces.
	return deny(DenyUnauthenticated)
}
