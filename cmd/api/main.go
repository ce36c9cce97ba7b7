package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Charan200529/StudentReportSystem/internal/config"
	"github.com/Charan200529/StudentReportSystem/internal/database"
	"github.com/Charan200529/StudentReportSystem/internal/handler"
	"github.com/Charan200529/StudentReportSystem/internal/middleware"
	"github.com/Charan200529/StudentReportSystem/internal/models"
	"github.com/Charan200529/StudentReportSystem/internal/repository"
	"github.com/Charan200529/StudentReportSystem/internal/router"
	"github.com/Charan200529/StudentReportSystem/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{}, &models.Assignment{}, &models.Submission{}, &models.ActivityLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	userService := service.NewUserService(userRepo, validate, activityService, logger)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, validate, activityService, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, userRepo, courseRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, enrollmentRepo, validate, activityService, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, userRepo, validate, activityService, logger)
	analyticsService := service.NewAnalyticsService(userRepo, courseRepo, assignmentRepo, submissionRepo, redisClient, cfg.AnalyticsCacheTTL, logger)

	if cfg.SeedAccounts {
		seedService := service.NewSeedService(userRepo, logger)
		if err := seedService.EnsureAccounts(context.Background(), service.DefaultSeedAccounts()); err != nil {
			log.Fatalf("failed to seed accounts: %v", err)
		}
	}

	authHandler := handler.NewAuthHandler(authService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	courseHandler := handler.NewCourseHandler(courseService, enrollmentService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, submissionService, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		UserHandler:       userHandler,
		CourseHandler:     courseHandler,
		AssignmentHandler: assignmentHandler,
		EnrollmentHandler: enrollmentHandler,
		SubmissionHandler: submissionHandler,
		AnalyticsHandler:  analyticsHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
