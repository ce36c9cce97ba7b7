package dto

import (
	"time"

	"github.com/Charan200529/StudentReportSystem/internal/models"
)

// SubmissionCreateRequest describes the payload for submitting coursework.
// The student identity always comes from the authenticated principal.
type SubmissionCreateRequest struct {
	AssignmentID uint   `json:"assignment_id" validate:"required,gt=0"`
	Text         string `json:"text" validate:"required,min=1"`
}

// GradeRequest grades an existing submission.
type GradeRequest struct {
	Score    int    `json:"score" validate:"gte=0"`
	Feedback string `json:"feedback" validate:"required,min=1"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID             uint       `json:"id"`
	AssignmentID   uint       `json:"assignment_id"`
	StudentID      uint       `json:"student_id"`
	StudentName    string     `json:"student_name"`
	SubmissionText string     `json:"submission_text"`
	SubmittedAt    time.Time  `json:"submitted_at"`
	Status         string     `json:"status"`
	Score          *int       `json:"score"`
	Feedback       *string    `json:"feedback"`
	GradedBy       *uint      `json:"graded_by"`
	GradedAt       *time.Time `json:"graded_at"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:             model.ID,
		AssignmentID:   model.AssignmentID,
		StudentID:      model.StudentID,
		StudentName:    model.StudentName,
		SubmissionText: model.SubmissionText,
		SubmittedAt:    model.SubmittedAt,
		Status:         model.Status,
		Score:          model.Score,
		Feedback:       model.Feedback,
		GradedBy:       model.GradedBy,
		GradedAt:       model.GradedAt,
	}
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
