package dto

import (
	"time"

	"github.com/Charan200529/StudentReportSystem/internal/models"
)

// UserResponse is the public view of an account; the password hash never
// leaves the service layer.
type UserResponse struct {
	ID              uint        `json:"id"`
	Email           string      `json:"email"`
	DisplayName     string      `json:"display_name"`
	Role            models.Role `json:"role"`
	CurrentSemester *int        `json:"current_semester"`
	CreatedAt       time.Time   `json:"created_at"`
}

// ChangeRoleRequest updates a user's role (admin only).
type ChangeRoleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=ADMIN TEACHER STUDENT"`
}

// ChangeSemesterRequest updates a student's current semester (admin only).
type ChangeSemesterRequest struct {
	Semester int `json:"semester" validate:"required,gte=1"`
}

// NewUserResponse converts a User model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:              model.ID,
		Email:           model.Email,
		DisplayName:     model.DisplayName,
		Role:            model.Role,
		CurrentSemester: model.CurrentSemester,
		CreatedAt:       model.CreatedAt,
	}
}

// NewUserResponseSlice converts user models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}
	return responses
}
