package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Charan200529/StudentReportSystem/internal/dto"
	"github.com/Charan200529/StudentReportSystem/internal/models"
	"github.com/Charan200529/StudentReportSystem/internal/policy"
	"github.com/Charan200529/StudentReportSystem/internal/repository"
)

const analyticsCacheKey = "analytics:overview"

// AnalyticsService aggregates record counts for the admin dashboard.
type AnalyticsService interface {
	Overview(ctx context.Context, principal policy.Principal) (dto.AnalyticsOverviewResponse, error)
}

type analyticsService struct {
	users       repository.UserRepository
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewAnalyticsService builds the analytics aggregator. The cache client may
// be nil, in which case every call hits the store.
func NewAnalyticsService(userRepo repository.UserRepository, courseRepo repository.CourseRepository, assignmentRepo repository.AssignmentRepository, submissionRepo repository.SubmissionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		users:       userRepo,
		courses:     courseRepo,
		assignments: assignmentRepo,
		submissions: submissionRepo,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "analytics_service").Logger(),
	}
}

func (s *analyticsService) Overview(ctx context.Context, principal policy.Principal) (dto.AnalyticsOverviewResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionRead, policy.ResourceAnalytics)); err != nil {
		return dto.AnalyticsOverviewResponse{}, err
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, analyticsCacheKey).Result(); err == nil {
			var response dto.AnalyticsOverviewResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("analytics cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read analytics cache")
		}
	}

	response, err := s.buildOverview(ctx)
	if err != nil {
		return dto.AnalyticsOverviewResponse{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, analyticsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store analytics cache")
			}
		}
	}

	return response, nil
}

func (s *analyticsService) buildOverview(ctx context.Context) (dto.AnalyticsOverviewResponse, error) {
	var response dto.AnalyticsOverviewResponse
	var err error

	if response.TotalStudents, err = s.users.CountByRole(ctx, models.RoleStudent); err != nil {
		return dto.AnalyticsOverviewResponse{}, err
	}
	if response.TotalTeachers, err = s.users.CountByRole(ctx, models.RoleTeacher); err != nil {
		return dto.AnalyticsOverviewResponse{}, err
	}
	if response.TotalCourses, err = s.courses.Count(ctx); err != nil {
		return dto.AnalyticsOverviewResponse{}, err
	}
	if response.TotalAssignments, err = s.assignments.Count(ctx); err != nil {
		return dto.AnalyticsOverviewResponse{}, err
	}
	if response.TotalSubmissions, err = s.submissions.Count(ctx); err != nil {
		return dto.AnalyticsOverviewResponse{}, err
	}
	if response.GradedSubmissions, err = s.submissions.CountByStatus(ctx, models.SubmissionStatusGraded); err != nil {
		return dto.AnalyticsOverviewResponse{}, err
	}

	return response, nil
}
