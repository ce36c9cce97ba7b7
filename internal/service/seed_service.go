package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Charan200529/StudentReportSystem/internal/models"
	"github.com/Charan200529/StudentReportSystem/internal/repository"
)

// SeedAccount describes a default account ensured at startup.
type SeedAccount struct {
	Email       string
	Password    string
	DisplayName string
	Role        models.Role
	Semester    *int
}

// DefaultSeedAccounts returns one bootstrap account per role so a fresh
// deployment is immediately usable.
func DefaultSeedAccounts() []SeedAccount {
	semester := 1
	return []SeedAccount{
		{Email: "admin@gmail.com", Password: "admin123", DisplayName: "Admin", Role: models.RoleAdmin},
		{Email: "teacher@gmail.com", Password: "teacher123", DisplayName: "Teacher", Role: models.RoleTeacher},
		{Email: "student@gmail.com", Password: "student123", DisplayName: "Student", Role: models.RoleStudent, Semester: &semester},
	}
}

// SeedService ensures bootstrap accounts exist.
type SeedService interface {
	EnsureAccounts(ctx context.Context, accounts []SeedAccount) error
}

type seedService struct {
	users  repository.UserRepository
	logger zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(userRepo repository.UserRepository, logger zerolog.Logger) SeedService {
	return &seedService{
		users:  userRepo,
		logger: logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) EnsureAccounts(ctx context.Context, accounts []SeedAccount) error {
	for _, account := range accounts {
		exists, err := s.users.ExistsByEmail(ctx, account.Email)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		user := models.User{
			Email:           account.Email,
			DisplayName:     account.DisplayName,
			Role:            account.Role,
			CurrentSemester: account.Semester,
		}
		if err := user.SetPassword(account.Password); err != nil {
			return err
		}
		if err := s.users.Create(ctx, &user); err != nil {
			return err
		}

		s.logger.Info().Str("email", account.Email).Str("role", string(account.Role)).Msg("seed account created")
	}

	return nil
}
