package models

import "time"

// Course represents a taught course offered in a specific semester.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Code        string    `gorm:"size:64;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description"`
	Semester    int       `gorm:"not null" json:"semester"`
	TeacherID   uint      `gorm:"not null" json:"teacher_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
