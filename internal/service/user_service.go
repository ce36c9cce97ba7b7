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

// UserService manages accounts. Role and semester mutation is reserved to
// administrators.
type UserService interface {
	Profile(ctx context.Context, principal policy.Principal) (dto.UserResponse, error)
	List(ctx context.Context, principal policy.Principal) ([]dto.UserResponse, error)
	ListByRole(ctx context.Context, principal policy.Principal, role models.Role) ([]dto.UserResponse, error)
	ListBySemester(ctx context.Context, principal policy.Principal, semester int) ([]dto.UserResponse, error)
	ChangeRole(ctx context.Context, principal policy.Principal, targetID uint, payload dto.ChangeRoleRequest) (dto.UserResponse, error)
	ChangeSemester(ctx context.Context, principal policy.Principal, targetID uint, payload dto.ChangeSemesterRequest) (dto.UserResponse, error)
	Delete(ctx context.Context, principal policy.Principal, targetID uint) error
}

type userService struct {
	users     repository.UserRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(userRepo repository.UserRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) UserService {
	return &userService{
		users:     userRepo,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) Profile(ctx context.Context, principal policy.Principal) (dto.UserResponse, error) {
	if !principal.Authenticated() {
		return dto.UserResponse{}, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, principal policy.Principal) ([]dto.UserResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionRead, policy.ResourceUser)); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(users), nil
}

func (s *userService) ListByRole(ctx context.Context, principal policy.Principal, role models.Role) ([]dto.UserResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionRead, policy.ResourceUser)); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	users, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(users), nil
}

func (s *userService) ListBySemester(ctx context.Context, principal policy.Principal, semester int) ([]dto.UserResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionRead, policy.ResourceUser)); err != nil {
		return nil, err
	}

	users, err := s.users.ListBySemester(ctx, semester)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(users), nil
}

func (s *userService) ChangeRole(ctx context.Context, principal policy.Principal, targetID uint, payload dto.ChangeRoleRequest) (dto.UserResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionManageUsers, policy.ResourceUser)); err != nil {
		return dto.UserResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	user.Role = payload.Role
	if payload.Role == models.RoleStudent {
		if user.CurrentSemester == nil {
			semester := 1
			user.CurrentSemester = &semester
		}
	} else {
		user.CurrentSemester = nil
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    principal.ID,
			ActorRole:  principal.Role,
			Action:     "user.role_changed",
			EntityType: "user",
			EntityID:   &targetID,
			Metadata:   map[string]interface{}{"role": string(payload.Role)},
		})
	}

	s.logger.Info().Uint("user_id", targetID).Str("role", string(payload.Role)).Msg("user role updated")

	return dto.NewUserResponse(user), nil
}

func (s *userService) ChangeSemester(ctx context.Context, principal policy.Principal, targetID uint, payload dto.ChangeSemesterRequest) (dto.UserResponse, error) {
	if err := decisionError(policy.Authorize(principal, policy.ActionManageUsers, policy.ResourceUser)); err != nil {
		return dto.UserResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	semester := payload.Semester
	user.CurrentSemester = &semester

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", targetID).Int("semester", semester).Msg("user semester updated")

	return dto.NewUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, principal policy.Principal, targetID uint) error {
	if err := decisionError(policy.Authorize(principal, policy.ActionDelete, policy.ResourceUser)); err != nil {
		return err
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}

	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    principal.ID,
			ActorRole:  principal.Role,
			Action:     "user.deleted",
			EntityType: "user",
			EntityID:   &targetID,
		})
	}

	s.logger.Info().Uint("user_id", targetID).Msg("user deleted")

	return nil
}
