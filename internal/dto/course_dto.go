package dto

import (
	"time"

	"github.com/Charan200529/StudentReportSystem/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Title       string `json:"title" validate:"required,min=2"`
	Code        string `json:"code" validate:"required,min=2"`
	Description string `json:"description"`
	Semester    int    `json:"semester" validate:"required,gte=1"`
	TeacherID   uint   `json:"teacher_id" validate:"required,gt=0"`
}

// CourseUpdateRequest replaces the mutable fields of a course.
type CourseUpdateRequest struct {
	Title       string `json:"title" validate:"required,min=2"`
	Code        string `json:"code" validate:"required,min=2"`
	Description string `json:"description"`
	Semester    int    `json:"semester" validate:"required,gte=1"`
	TeacherID   uint   `json:"teacher_id" validate:"required,gt=0"`
}

// CourseResponse is returned to API clients when viewing courses.
type CourseResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Semester    int       `json:"semester"`
	TeacherID   uint      `json:"teacher_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCourseResponse converts a Course model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:          model.ID,
		Title:       model.Title,
		Code:        model.Code,
		Description: model.Description,
		Semester:    model.Semester,
		TeacherID:   model.TeacherID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewCourseResponseSlice converts course models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}
	return responses
}
