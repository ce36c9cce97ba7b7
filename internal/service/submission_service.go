package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/Charan200529/StudentReportSystem/internal/dto"
	"github.com/Charan200529/StudentReportSystem/internal/models"
	"github.com/Charan200529/StudentReportSystem/internal/policy"
	"github.com/Charan200529/StudentReportSystem/internal/repository"
)

// SubmissionService manages the submission lifecycle: one submission per
// (assignment, student), monotone SUBMITTED -> GRADED transitions and
// role-scoped reads.
type SubmissionService interface {
	Create(ctx context.Context, principal policy.Principal, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	Grade(ctx context.Context, principal policy.Principal, submissionID uint, payload dto.GradeRequest) (dto.SubmissionResponse, error)
	GetByID(ctx context.Context, principal policy.Principal, id uint) (dto.SubmissionResponse, error)
	ListForAssignment(ctx context.Context, principal policy.Principal, assignmentID uint) ([]dto.SubmissionResponse, error)
	ListMine(ctx context.Context, principal policy.Principal) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	users       repository.UserRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	activity    ActivityRecorder
	logger      zerolog.Logger
	locks       *keyedMutex
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, assignmentRepo repository.AssignmentRepository, userRepo repository.UserRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		assignments: assignmentRepo,
		users:       userRepo,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		activity:    activity,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		locks:       newKeyedMutex(),
		now:         time.Now,
	}
}

func (s *submissionService) Create(ctx context.Context, principal policy.Principal, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionCreate, policy.ResourceSubmission)); err != nil {
		return dto.SubmissionResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if _, err := s.assignments.GetByID(ctx, payload.AssignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	text := strings.TrimSpace(s.sanitizer.Sanitize(payload.Text))
	if text == "" {
		return dto.SubmissionResponse{}, ErrBlankSubmission
	}

	student, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrUserNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	// Serialise the duplicate check per (assignment, student); the unique
	// index below is the hard backstop against concurrent writers.
	unlock := s.locks.Lock(fmt.Sprintf("submission:%d:%d", payload.AssignmentID, principal.ID))
	defer unlock()

	if _, err := s.submissions.FindByAssignmentAndStudent(ctx, payload.AssignmentID, principal.ID); err == nil {
		return dto.SubmissionResponse{}, ErrDuplicateSubmission
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		AssignmentID:   payload.AssignmentID,
		StudentID:      principal.ID,
		StudentName:    student.DisplayName,
		SubmissionText: text,
		SubmittedAt:    s.now(),
		Status:         models.SubmissionStatusSubmitted,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SubmissionResponse{}, ErrDuplicateSubmission
		}
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("assignment_id", submission.AssignmentID).
		Uint("student_id", submission.StudentID).
		Msg("submission created")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Grade(ctx context.Context, principal policy.Principal, submissionID uint, payload dto.GradeRequest) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/Charan200529/StudentReportSystem/internal/service/submission")
	ctx, span := tracer.Start(ctx, "submission.grade")
	span.SetAttributes(
		attribute.Int64("submission.id", int64(submissionID)),
		attribute.Int64("grader.id", int64(principal.ID)),
	)
	defer span.End()

	if err := decisionError(policy.Authorize(principal, policy.ActionGrade, policy.ResourceSubmission)); err != nil {
		span.SetStatus(codes.Error, "grading_forbidden")
		return dto.SubmissionResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	// The max-points cap needs the assignment; grading an orphaned
	// submission is refused rather than skipping the cap.
	assignment, err := s.assignments.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "assignment_not_found")
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}
	if payload.Score > assignment.MaxPoints {
		span.SetStatus(codes.Error, "score_exceeds_max")
		return dto.SubmissionResponse{}, ErrScoreExceedsMax
	}

	// Re-grading overwrites score, feedback and grading metadata; no history
	// is kept and GRADED never reverts to SUBMITTED.
	score := payload.Score
	feedback := strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))
	gradedBy := principal.ID
	gradedAt := s.now()
	submission.Score = &score
	submission.Feedback = &feedback
	submission.GradedBy = &gradedBy
	submission.GradedAt = &gradedAt
	submission.Status = models.SubmissionStatusGraded

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    principal.ID,
			ActorRole:  principal.Role,
			Action:     "submission.graded",
			EntityType: "submission",
			EntityID:   &submission.ID,
			Metadata: map[string]interface{}{
				"assignment_id": submission.AssignmentID,
				"student_id":    submission.StudentID,
				"score":         score,
			},
		})
	}

	span.SetAttributes(attribute.Int("grading.score", score))

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("graded_by", principal.ID).
		Int("score", score).
		Msg("submission graded")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) GetByID(ctx context.Context, principal policy.Principal, id uint) (dto.SubmissionResponse, error) {
	decision := policy.Authorize(principal, policy.ActionRead, policy.ResourceSubmission)
	if err := decisionError(decision); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	// Students see only their own rows; reporting not-found keeps them from
	// probing the existence of other students' submissions.
	if decision.Scoped && submission.StudentID != principal.ID {
		return dto.SubmissionResponse{}, ErrSubmissionNotFound
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListForAssignment(ctx context.Context, principal policy.Principal, assignmentID uint) ([]dto.SubmissionResponse, error) {
	decision := policy.Authorize(principal, policy.ActionRead, policy.ResourceSubmission)
	if err := decisionError(decision); err != nil {
		return nil, err
	}

	if decision.Scoped {
		submission, err := s.submissions.FindByAssignmentAndStudent(ctx, assignmentID, principal.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []dto.SubmissionResponse{}, nil
			}
			return nil, err
		}
		return []dto.SubmissionResponse{dto.NewSubmissionResponse(submission)}, nil
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) ListMine(ctx context.Context, principal policy.Principal) ([]dto.SubmissionResponse, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}

	submissions, err := s.submissions.ListByStudent(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponseSlice(submissions), nil
}
