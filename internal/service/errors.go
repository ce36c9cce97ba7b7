package service

import (
	"errors"

	"github.com/Charan200529/StudentReportSystem/internal/policy"
)

// Shared sentinel errors. Handlers translate these into HTTP statuses;
// keeping them at package level lets every service reuse the same taxonomy.
var (
	// ErrUnauthenticated indicates no valid principal was presented.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden indicates the principal's role or scope denies the action.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrUserNotFound indicates a user could not be found.
	ErrUserNotFound = errors.New("user not found")
	// ErrCourseNotFound indicates a course could not be found.
	ErrCourseNotFound = errors.New("course not found")
	// ErrAssignmentNotFound indicates an assignment could not be found.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrEnrollmentNotFound indicates an enrollment could not be found.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrSubmissionNotFound indicates a submission could not be found.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrDuplicateSubmission indicates the student already submitted this assignment.
	ErrDuplicateSubmission = errors.New("assignment already submitted")
	// ErrDuplicateEnrollment indicates an active enrollment already exists.
	ErrDuplicateEnrollment = errors.New("student already enrolled in course")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email is already in use")
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrScoreExceedsMax indicates a grading score surpasses the assignment max points.
	ErrScoreExceedsMax = errors.New("score exceeds assignment max points")
	// ErrBlankSubmission indicates the submission text is empty after sanitising.
	ErrBlankSubmission = errors.New("submission text is required")
	// ErrInvalidRole indicates an unknown role value in a request.
	ErrInvalidRole = errors.New("invalid role")
)

// decisionError maps a policy denial onto the service error taxonomy.
func decisionError(decision policy.Decision) error {
	if decision.Allowed {
		return nil
	}
	if decision.Reason == policy.DenyUnauthenticated {
		return ErrUnauthenticated
	}
	return ErrForbidden
}
