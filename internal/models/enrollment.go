package models

import "time"

// EnrollmentStatus enumerates possible enrollment states.
const (
	EnrollmentStatusActive   = "ACTIVE"
	EnrollmentStatusInactive = "INACTIVE"
)

// Enrollment ties a student to a course. Only ACTIVE enrollments grant
// visibility. The composite unique index keeps one row per (student, course)
// even under concurrent enroll calls.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_course" json:"student_id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_course" json:"course_id"`
	Status    string    `gorm:"size:16;not null;default:ACTIVE" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the enrollment currently grants visibility.
func (e Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}
