package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Charan200529/StudentReportSystem/internal/dto"
	"github.com/Charan200529/StudentReportSystem/internal/models"
	"github.com/Charan200529/StudentReportSystem/internal/policy"
	"github.com/Charan200529/StudentReportSystem/internal/repository"
)

// EnrollmentService manages course membership. Enrollments only grant
// visibility; they never own grades.
type EnrollmentService interface {
	Enroll(ctx context.Context, principal policy.Principal, payload dto.EnrollRequest) (dto.EnrollmentResponse, error)
	Deactivate(ctx context.Context, principal policy.Principal, id uint) (dto.EnrollmentResponse, error)
	ListByCourse(ctx context.Context, principal policy.Principal, courseID uint) ([]dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	users       repository.UserRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	locks       *keyedMutex
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(enrollmentRepo repository.EnrollmentRepository, userRepo repository.UserRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollmentRepo,
		users:       userRepo,
		courses:     courseRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		locks:       newKeyedMutex(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, principal policy.Principal, payload dto.EnrollRequest) (dto.EnrollmentResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionCreate, policy.ResourceEnrollment)); err != nil {
		return dto.EnrollmentResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	student, err := s.users.GetByID(ctx, payload.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrUserNotFound
		}
		return dto.EnrollmentResponse{}, err
	}
	if student.Role != models.RoleStudent {
		return dto.EnrollmentResponse{}, ErrForbidden
	}

	if _, err := s.courses.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	// One row per (student, course): re-enrolling an INACTIVE membership
	// reactivates the existing row instead of inserting a second one.
	unlock := s.locks.Lock(fmt.Sprintf("enrollment:%d:%d", payload.StudentID, payload.CourseID))
	defer unlock()

	existing, err := s.enrollments.FindByStudentAndCourse(ctx, payload.StudentID, payload.CourseID)
	switch {
	case err == nil && existing.IsActive():
		return dto.EnrollmentResponse{}, ErrDuplicateEnrollment
	case err == nil:
		existing.Status = models.EnrollmentStatusActive
		if err := s.enrollments.Update(ctx, &existing); err != nil {
			return dto.EnrollmentResponse{}, err
		}
		s.logger.Info().Uint("enrollment_id", existing.ID).Msg("enrollment reactivated")
		return dto.NewEnrollmentResponse(existing), nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return dto.EnrollmentResponse{}, err
	}

	enrollment := models.Enrollment{
		StudentID: payload.StudentID,
		CourseID:  payload.CourseID,
		Status:    models.EnrollmentStatusActive,
	}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.EnrollmentResponse{}, ErrDuplicateEnrollment
		}
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().
		Uint("enrollment_id", enrollment.ID).
		Uint("student_id", enrollment.StudentID).
		Uint("course_id", enrollment.CourseID).
		Msg("student enrolled")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Deactivate(ctx context.Context, principal policy.Principal, id uint) (dto.EnrollmentResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionUpdate, policy.ResourceEnrollment)); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	enrollment, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrEnrollmentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	enrollment.Status = models.EnrollmentStatusInactive
	if err := s.enrollments.Update(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().Uint("enrollment_id", enrollment.ID).Msg("enrollment deactivated")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) ListByCourse(ctx context.Context, principal policy.Principal, courseID uint) ([]dto.EnrollmentResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionRead, policy.ResourceEnrollment)); err != nil {
		return nil, err
	}

	enrollments, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return dto.NewEnrollmentResponseSlice(enrollments), nil
}
