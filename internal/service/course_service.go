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

// CourseService manages courses and the enrollment-scoped course listing.
type CourseService interface {
	Create(ctx context.Context, principal policy.Principal, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, principal policy.Principal, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, principal policy.Principal, id uint) error
	GetByID(ctx context.Context, principal policy.Principal, id uint) (dto.CourseResponse, error)
	ListVisible(ctx context.Context, principal policy.Principal, semester *int) ([]dto.CourseResponse, error)
}

type courseService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	logger      zerolog.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courseRepo repository.CourseRepository, enrollmentRepo repository.EnrollmentRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:     courseRepo,
		enrollments: enrollmentRepo,
		validator:   validate,
		activity:    activity,
		logger:      logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) Create(ctx context.Context, principal policy.Principal, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionCreate, policy.ResourceCourse)); err != nil {
		return dto.CourseResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Title:       payload.Title,
		Code:        payload.Code,
		Description: payload.Description,
		Semester:    payload.Semester,
		TeacherID:   payload.TeacherID,
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Str("code", course.Code).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, principal policy.Principal, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionUpdate, policy.ResourceCourse)); err != nil {
		return dto.CourseResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	course.Title = payload.Title
	course.Code = payload.Code
	course.Description = payload.Description
	course.Semester = payload.Semester
	course.TeacherID = payload.TeacherID

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course updated")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, principal policy.Principal, id uint) error {
	if err := decisionError(policy.Authorize(principal, policy.ActionDelete, policy.ResourceCourse)); err != nil {
		return err
	}

	if _, err := s.courses.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}

	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    principal.ID,
			ActorRole:  principal.Role,
			Action:     "course.deleted",
			EntityType: "course",
			EntityID:   &id,
		})
	}

	s.logger.Info().Uint("course_id", id).Msg("course deleted")

	return nil
}

func (s *courseService) GetByID(ctx context.Context, principal policy.Principal, id uint) (dto.CourseResponse, error) {
	decision := policy.Authorize(principal, policy.ActionRead, policy.ResourceCourse)
	if err := decisionError(decision); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if decision.Scoped {
		if !s.visibleToStudent(ctx, principal, course) {
			// Hidden courses are indistinguishable from absent ones.
			return dto.CourseResponse{}, ErrCourseNotFound
		}
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) ListVisible(ctx context.Context, principal policy.Principal, semester *int) ([]dto.CourseResponse, error) {
	decision := policy.Authorize(principal, policy.ActionRead, policy.ResourceCourse)
	if err := decisionError(decision); err != nil {
		return nil, err
	}

	if decision.Scoped {
		target := semester
		if target == nil {
			target = principal.CurrentSemester
		}
		if target == nil {
			return []dto.CourseResponse{}, nil
		}
		courses, err := s.courses.FindEnrolledByStudentAndSemester(ctx, principal.ID, *target)
		if err != nil {
			return nil, err
		}
		return dto.NewCourseResponseSlice(courses), nil
	}

	if semester != nil {
		courses, err := s.courses.ListBySemester(ctx, *semester)
		if err != nil {
			return nil, err
		}
		return dto.NewCourseResponseSlice(courses), nil
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

// visibleToStudent reports whether the student has an ACTIVE enrollment in
// the course and the course matches their current semester.
func (s *courseService) visibleToStudent(ctx context.Context, principal policy.Principal, course models.Course) bool {
	if principal.CurrentSemester == nil || course.Semester != *principal.CurrentSemester {
		return false
	}
	enrollment, err := s.enrollments.FindByStudentAndCourse(ctx, principal.ID, course.ID)
	if err != nil {
		return false
	}
	return enrollment.IsActive()
}
