package dto

import (
	"time"

	"github.com/Charan200529/StudentReportSystem/internal/models"
)

// EnrollRequest enrolls a student into a course.
type EnrollRequest struct {
	StudentID uint `json:"student_id" validate:"required,gt=0"`
	CourseID  uint `json:"course_id" validate:"required,gt=0"`
}

// EnrollmentResponse is returned to API clients when viewing enrollments.
type EnrollmentResponse struct {
	ID        uint      `json:"id"`
	StudentID uint      `json:"student_id"`
	CourseID  uint      `json:"course_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEnrollmentResponse converts an Enrollment model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		CourseID:  model.CourseID,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewEnrollmentResponseSlice converts enrollment models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}
	return responses
}
