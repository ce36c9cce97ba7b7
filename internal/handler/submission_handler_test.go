package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Charan200529/StudentReportSystem/internal/config"
	"github.com/Charan200529/StudentReportSystem/internal/dto"
	"github.com/Charan200529/StudentReportSystem/internal/handler"
	"github.com/Charan200529/StudentReportSystem/internal/models"
	"github.com/Charan200529/StudentReportSystem/internal/policy"
	"github.com/Charan200529/StudentReportSystem/internal/repository"
	"github.com/Charan200529/StudentReportSystem/internal/router"
	"github.com/Charan200529/StudentReportSystem/internal/service"
)

// testPrincipals resolves the X-Test-Principal header instead of a real JWT
// so handler tests can act as different users against the same app.
func testPrincipals(principals map[string]policy.Principal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := principals[c.Get("X-Test-Principal")]
		if !ok {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		c.Locals("principal", principal)
		c.Locals("user_id", principal.ID)
		c.Locals("user_role", string(principal.Role))
		return c.Next()
	}
}

func setupSubmissionApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.Assignment{},
		&models.Submission{},
		&models.ActivityLog{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, userRepo, validate, activityService, logger)

	semester := 3
	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		JWTMiddleware: testPrincipals(map[string]policy.Principal{
			"student": {ID: 1, Role: models.RoleStudent, CurrentSemester: &semester},
			"teacher": {ID: 2, Role: models.RoleTeacher},
		}),
	})

	return app, db
}

func seedSubmissionFixtures(t *testing.T, db *gorm.DB) models.Assignment {
	t.Helper()

	student := models.User{ID: 1, Email: "ana@example.com", DisplayName: "Ana Lovelace", Role: models.RoleStudent, CurrentSemester: intPtr(3)}
	require.NoError(t, student.SetPassword("secret123"))
	teacher := models.User{ID: 2, Email: "tom@example.com", DisplayName: "Tom Hopper", Role: models.RoleTeacher}
	require.NoError(t, teacher.SetPassword("secret123"))
	require.NoError(t, db.Create(&student).Error)
	require.NoError(t, db.Create(&teacher).Error)

	course := models.Course{Title: "Databases", Code: "CS301", Semester: 3, TeacherID: teacher.ID}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&models.Enrollment{StudentID: student.ID, CourseID: course.ID, Status: models.EnrollmentStatusActive}).Error)

	assignment := models.Assignment{
		Title:     "ER Modelling",
		CourseID:  course.ID,
		MaxPoints: 100,
		DueDate:   time.Now().Add(72 * time.Hour),
		Status:    models.AssignmentStatusActive,
		CreatedBy: teacher.ID,
	}
	require.NoError(t, db.Create(&assignment).Error)
	return assignment
}

func performJSON(t *testing.T, app *fiber.App, method, path, principal string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-Principal", principal)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	require.NoError(t, resp.Body.Close())
}

func intPtr(v int) *int { return &v }

func TestSubmissionHandlerCreateAndGrade(t *testing.T) {
	app, db := setupSubmissionApp(t)
	assignment := seedSubmissionFixtures(t, db)

	createResp := performJSON(t, app, "POST", "/api/v1/submissions", "student", dto.SubmissionCreateRequest{
		AssignmentID: assignment.ID,
		Text:         "Normalised to 3NF",
	})
	require.Equal(t, fiber.StatusCreated, createResp.StatusCode)

	var created struct {
		Success bool                   `json:"success"`
		Message string                 `json:"message"`
		Data    dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, createResp, &created)
	require.True(t, created.Success)
	require.Equal(t, "submission created", created.Message)
	require.NotZero(t, created.Data.ID)
	require.Equal(t, models.SubmissionStatusSubmitted, created.Data.Status)
	require.Equal(t, "Ana Lovelace", created.Data.StudentName)
	require.Nil(t, created.Data.Score)

	duplicateResp := performJSON(t, app, "POST", "/api/v1/submissions", "student", dto.SubmissionCreateRequest{
		AssignmentID: assignment.ID,
		Text:         "second attempt",
	})
	require.Equal(t, fiber.StatusConflict, duplicateResp.StatusCode)

	gradePath := "/api/v1/submissions/" + strconv.FormatUint(uint64(created.Data.ID), 10) + "/grade"
	gradeResp := performJSON(t, app, "POST", gradePath, "teacher", dto.GradeRequest{Score: 85, Feedback: "solid work"})
	require.Equal(t, fiber.StatusOK, gradeResp.StatusCode)

	var graded struct {
		Success bool                   `json:"success"`
		Data    dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, gradeResp, &graded)
	require.Equal(t, models.SubmissionStatusGraded, graded.Data.Status)
	require.NotNil(t, graded.Data.Score)
	require.Equal(t, 85, *graded.Data.Score)
	require.NotNil(t, graded.Data.GradedBy)
	require.Equal(t, uint(2), *graded.Data.GradedBy)
}

func TestSubmissionHandlerGradeForbiddenForStudents(t *testing.T) {
	app, db := setupSubmissionApp(t)
	assignment := seedSubmissionFixtures(t, db)

	createResp := performJSON(t, app, "POST", "/api/v1/submissions", "student", dto.SubmissionCreateRequest{
		AssignmentID: assignment.ID,
		Text:         "draft answer",
	})
	require.Equal(t, fiber.StatusCreated, createResp.StatusCode)

	var created struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, createResp, &created)

	gradePath := "/api/v1/submissions/" + strconv.FormatUint(uint64(created.Data.ID), 10) + "/grade"
	gradeResp := performJSON(t, app, "POST", gradePath, "student", dto.GradeRequest{Score: 100, Feedback: "self graded"})
	require.Equal(t, fiber.StatusForbidden, gradeResp.StatusCode)
}

func TestSubmissionHandlerScoreAboveMaxRejected(t *testing.T) {
	app, db := setupSubmissionApp(t)
	assignment := seedSubmissionFixtures(t, db)

	createResp := performJSON(t, app, "POST", "/api/v1/submissions", "student", dto.SubmissionCreateRequest{
		AssignmentID: assignment.ID,
		Text:         "final answer",
	})
	require.Equal(t, fiber.StatusCreated, createResp.StatusCode)

	var created struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, createResp, &created)

	gradePath := "/api/v1/submissions/" + strconv.FormatUint(uint64(created.Data.ID), 10) + "/grade"
	gradeResp := performJSON(t, app, "POST", gradePath, "teacher", dto.GradeRequest{Score: 101, Feedback: "too generous"})
	require.Equal(t, fiber.StatusBadRequest, gradeResp.StatusCode)
}

func TestSubmissionHandlerListMineIsOwnerScoped(t *testing.T) {
	app, db := setupSubmissionApp(t)
	assignment := seedSubmissionFixtures(t, db)

	createResp := performJSON(t, app, "POST", "/api/v1/submissions", "student", dto.SubmissionCreateRequest{
		AssignmentID: assignment.ID,
		Text:         "my submission",
	})
	require.Equal(t, fiber.StatusCreated, createResp.StatusCode)
	require.NoError(t, createResp.Body.Close())

	mineResp := performJSON(t, app, "GET", "/api/v1/submissions/mine", "student", nil)
	require.Equal(t, fiber.StatusOK, mineResp.StatusCode)

	var mine struct {
		Data []dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, mineResp, &mine)
	require.Len(t, mine.Data, 1)
	require.Equal(t, uint(1), mine.Data[0].StudentID)
}
