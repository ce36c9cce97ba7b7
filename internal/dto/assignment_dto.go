package dto

import (
	"time"

	"github.com/Charan200529/StudentReportSystem/internal/models"
)

// AssignmentCreateRequest describes the payload for creating an assignment.
type AssignmentCreateRequest struct {
	Title        string    `json:"title" validate:"required,min=2"`
	Description  string    `json:"description"`
	CourseID     uint      `json:"course_id" validate:"required,gt=0"`
	MaxPoints    int       `json:"max_points" validate:"required,gt=0"`
	DueDate      time.Time `json:"due_date" validate:"required"`
	Instructions string    `json:"instructions"`
}

// AssignmentUpdateRequest replaces the mutable fields of an assignment.
type AssignmentUpdateRequest struct {
	Title        string    `json:"title" validate:"required,min=2"`
	Description  string    `json:"description"`
	CourseID     uint      `json:"course_id" validate:"required,gt=0"`
	MaxPoints    int       `json:"max_points" validate:"required,gt=0"`
	DueDate      time.Time `json:"due_date" validate:"required"`
	Instructions string    `json:"instructions"`
	Status       string    `json:"status" validate:"required,oneof=ACTIVE CLOSED"`
}

// AssignmentResponse is returned to API clients when viewing assignments.
type AssignmentResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CourseID     uint      `json:"course_id"`
	MaxPoints    int       `json:"max_points"`
	DueDate      time.Time `json:"due_date"`
	Instructions string    `json:"instructions"`
	Status       string    `json:"status"`
	CreatedBy    uint      `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		CourseID:     model.CourseID,
		MaxPoints:    model.MaxPoints,
		DueDate:      model.DueDate,
		Instructions: model.Instructions,
		Status:       model.Status,
		CreatedBy:    model.CreatedBy,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}
	return responses
}
