package models

import "time"

// SubmissionStatus enumerates possible submission states. The transition is
// monotone: SUBMITTED -> GRADED, never back.
const (
	SubmissionStatusSubmitted = "SUBMITTED"
	SubmissionStatusGraded    = "GRADED"
)

// Submission is a student's answer to an assignment. StudentName is a
// snapshot taken at submit time and never re-synced. Score, Feedback,
// GradedBy and GradedAt stay nil until the submission is graded. The
// composite unique index guarantees one submission per (assignment, student).
type Submission struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	AssignmentID   uint       `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"assignment_id"`
	StudentID      uint       `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"student_id"`
	StudentName    string     `gorm:"size:255" json:"student_name"`
	SubmissionText string     `gorm:"type:text;not null" json:"submission_text"`
	SubmittedAt    time.Time  `gorm:"not null" json:"submitted_at"`
	Status         string     `gorm:"size:16;not null;default:SUBMITTED" json:"status"`
	Score          *int       `json:"score"`
	Feedback       *string    `gorm:"type:text" json:"feedback"`
	GradedBy       *uint      `json:"graded_by"`
	GradedAt       *time.Time `json:"graded_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsGraded reports whether the submission has received a grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}
