package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Charan200529/StudentReportSystem/internal/dto"
	"github.com/Charan200529/StudentReportSystem/internal/models"
	"github.com/Charan200529/StudentReportSystem/internal/policy"
	"github.com/Charan200529/StudentReportSystem/internal/repository"
)

// AssignmentService manages assignments and the enrollment-scoped listing
// students use to discover their coursework.
type AssignmentService interface {
	Create(ctx context.Context, principal policy.Principal, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Update(ctx context.Context, principal policy.Principal, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, principal policy.Principal, id uint) error
	GetByID(ctx context.Context, principal policy.Principal, id uint) (dto.AssignmentResponse, error)
	ListVisible(ctx context.Context, principal policy.Principal, courseID *uint) ([]dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	logger      zerolog.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(assignmentRepo repository.AssignmentRepository, courseRepo repository.CourseRepository, enrollmentRepo repository.EnrollmentRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignmentRepo,
		courses:     courseRepo,
		enrollments: enrollmentRepo,
		validator:   validate,
		activity:    activity,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) Create(ctx context.Context, principal policy.Principal, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionCreate, policy.ResourceAssignment)); err != nil {
		return dto.AssignmentResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrCourseNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		Title:        payload.Title,
		Description:  payload.Description,
		CourseID:     payload.CourseID,
		MaxPoints:    payload.MaxPoints,
		DueDate:      payload.DueDate,
		Instructions: payload.Instructions,
		Status:       models.AssignmentStatusActive,
		CreatedBy:    principal.ID,
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("course_id", assignment.CourseID).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, principal policy.Principal, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionUpdate, policy.ResourceAssignment)); err != nil {
		return dto.AssignmentResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	assignment.Title = payload.Title
	assignment.Description = payload.Description
	assignment.CourseID = payload.CourseID
	assignment.MaxPoints = payload.MaxPoints
	assignment.DueDate = payload.DueDate
	assignment.Instructions = payload.Instructions
	assignment.Status = payload.Status

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment updated")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Delete(ctx context.Context, principal policy.Principal, id uint) error {
	if err := decisionError(policy.Authorize(principal, policy.ActionDelete, policy.ResourceAssignment)); err != nil {
		return err
	}

	if _, err := s.assignments.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	if err := s.assignments.Delete(ctx, id); err != nil {
		return err
	}

	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    principal.ID,
			ActorRole:  principal.Role,
			Action:     "assignment.deleted",
			EntityType: "assignment",
			EntityID:   &id,
		})
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")

	return nil
}

func (s *assignmentService) GetByID(ctx context.Context, principal policy.Principal, id uint) (dto.AssignmentResponse, error) {
	decision := policy.Authorize(principal, policy.ActionRead, policy.ResourceAssignment)
	if err := decisionError(decision); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if decision.Scoped {
		course, err := s.courses.GetByID(ctx, assignment.CourseID)
		if err != nil || !s.visibleToStudent(ctx, principal, course) {
			// Hidden assignments are indistinguishable from absent ones.
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) ListVisible(ctx context.Context, principal policy.Principal, courseID *uint) ([]dto.AssignmentResponse, error) {
	decision := policy.Authorize(principal, policy.ActionRead, policy.ResourceAssignment)
	if err := decisionError(decision); err != nil {
		return nil, err
	}

	if decision.Scoped {
		if principal.CurrentSemester == nil {
			return []dto.AssignmentResponse{}, nil
		}
		assignments, err := s.assignments.FindForStudentBySemester(ctx, principal.ID, *principal.CurrentSemester)
		if err != nil {
			return nil, err
		}
		if courseID != nil {
			filtered := assignments[:0]
			for _, assignment := range assignments {
				if assignment.CourseID == *courseID {
					filtered = append(filtered, assignment)
				}
			}
			assignments = filtered
		}
		return dto.NewAssignmentResponseSlice(assignments), nil
	}

	if courseID != nil {
		assignments, err := s.assignments.ListByCourse(ctx, *courseID)
		if err != nil {
			return nil, err
		}
		return dto.NewAssignmentResponseSlice(assignments), nil
	}

	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) visibleToStudent(ctx context.Context, principal policy.Principal, course models.Course) bool {
	if principal.CurrentSemester == nil || course.Semester != *principal.CurrentSemester {
		return false
	}
	enrollment, err := s.enrollments.FindByStudentAndCourse(ctx, principal.ID, course.ID)
	if err != nil {
		return false
	}
	return enrollment.IsActive()
}
