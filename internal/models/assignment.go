package models

import "time"

// AssignmentStatus enumerates possible assignment states.
const (
	AssignmentStatusActive = "ACTIVE"
	AssignmentStatusClosed = "CLOSED"
)

// Assignment represents coursework attached to a single course. It has no
// semester of its own; semester scoping always joins through the course.
type Assignment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	CourseID     uint      `gorm:"not null;index" json:"course_id"`
	MaxPoints    int       `gorm:"not null" json:"max_points"`
	DueDate      time.Time `gorm:"not null" json:"due_date"`
	Instructions string    `gorm:"type:text" json:"instructions"`
	Status       string    `gorm:"size:16;not null;default:ACTIVE" json:"status"`
	CreatedBy    uint      `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
