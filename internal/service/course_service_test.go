package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/Charan200529/StudentReportSystem/internal/dto"
	"github.com/Charan200529/StudentReportSystem/internal/models"
)

func TestCourseServiceListVisibleForStudent(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{}
	courses := &fakeCourseRepo{enrollments: enrollments}

	current := courses.add(models.Course{Title: "Databases", Code: "DB301", Semester: 3, TeacherID: 9})
	inactive := courses.add(models.Course{Title: "Networks", Code: "NET302", Semester: 3, TeacherID: 9})
	otherSemester := courses.add(models.Course{Title: "Compilers", Code: "CMP401", Semester: 4, TeacherID: 9})
	courses.add(models.Course{Title: "Algebra", Code: "ALG101", Semester: 3, TeacherID: 9})

	studentID := uint(7)
	enrollments.add(models.Enrollment{StudentID: studentID, CourseID: current.ID, Status: models.EnrollmentStatusActive})
	enrollments.add(models.Enrollment{StudentID: studentID, CourseID: inactive.ID, Status: models.EnrollmentStatusInactive})
	enrollments.add(models.Enrollment{StudentID: studentID, CourseID: otherSemester.ID, Status: models.EnrollmentStatusActive})

	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewCourseService(courses, enrollments, validate, nil, testLogger())

	// Semester match plus ACTIVE enrollment; everything else is invisible.
	visible, err := svc.ListVisible(context.Background(), studentPrincipal(studentID, 3), nil)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, "DB301", visible[0].Code)

	// An explicit semester filter still only surfaces enrolled courses.
	next, err := svc.ListVisible(context.Background(), studentPrincipal(studentID, 3), intPtr(4))
	require.NoError(t, err)
	require.Len(t, next, 1)
	require.Equal(t, "CMP401", next[0].Code)
}

func TestCourseServiceListVisibleUnscopedRoles(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{}
	courses := &fakeCourseRepo{enrollments: enrollments}
	courses.add(models.Course{Title: "Databases", Code: "DB301", Semester: 3, TeacherID: 9})
	courses.add(models.Course{Title: "Compilers", Code: "CMP401", Semester: 4, TeacherID: 9})

	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewCourseService(courses, enrollments, validate, nil, testLogger())

	all, err := svc.ListVisible(context.Background(), teacherPrincipal(9), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := svc.ListVisible(context.Background(), adminPrincipal(1), intPtr(4))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "CMP401", filtered[0].Code)
}

func TestCourseServiceGetByIDScoped(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{}
	courses := &fakeCourseRepo{enrollments: enrollments}
	enrolled := courses.add(models.Course{Title: "Databases", Code: "DB301", Semester: 3, TeacherID: 9})
	hidden := courses.add(models.Course{Title: "Algebra", Code: "ALG101", Semester: 3, TeacherID: 9})

	studentID := uint(7)
	enrollments.add(models.Enrollment{StudentID: studentID, CourseID: enrolled.ID, Status: models.EnrollmentStatusActive})

	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewCourseService(courses, enrollments, validate, nil, testLogger())

	principal := studentPrincipal(studentID, 3)
	course, err := svc.GetByID(context.Background(), principal, enrolled.ID)
	require.NoError(t, err)
	require.Equal(t, "DB301", course.Code)

	// Out-of-scope courses read exactly like missing ones.
	_, err = svc.GetByID(context.Background(), principal, hidden.ID)
	require.ErrorIs(t, err, ErrCourseNotFound)

	_, err = svc.GetByID(context.Background(), principal, 999)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseServiceCreateForbiddenForStudents(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{}
	courses := &fakeCourseRepo{enrollments: enrollments}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewCourseService(courses, enrollments, validate, nil, testLogger())

	_, err := svc.Create(context.Background(), studentPrincipal(7, 3), dto.CourseCreateRequest{
		Title: "Hacking", Code: "HCK100", Semester: 3, TeacherID: 9,
	})
	require.ErrorIs(t, err, ErrForbidden)
	require.Empty(t, courses.courses)
}

func TestCourseServiceCreateAndUpdate(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{}
	courses := &fakeCourseRepo{enrollments: enrollments}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewCourseService(courses, enrollments, validate, nil, testLogger())

	created, err := svc.Create(context.Background(), teacherPrincipal(9), dto.CourseCreateRequest{
		Title: "Databases", Code: "DB301", Semester: 3, TeacherID: 9,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	updated, err := svc.Update(context.Background(), teacherPrincipal(9), created.ID, dto.CourseUpdateRequest{
		Title: "Advanced Databases", Code: "DB301", Semester: 4, TeacherID: 9,
	})
	require.NoError(t, err)
	require.Equal(t, "Advanced Databases", updated.Title)
	require.Equal(t, 4, updated.Semester)

	_, err = svc.Update(context.Background(), teacherPrincipal(9), 999, dto.CourseUpdateRequest{
		Title: "Ghost", Code: "GH000", Semester: 1, TeacherID: 9,
	})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseServiceDeleteRecordsActivity(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{}
	courses := &fakeCourseRepo{enrollments: enrollments}
	course := courses.add(models.Course{Title: "Databases", Code: "DB301", Semester: 3, TeacherID: 9})

	activityRepo := &fakeActivityLogRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	activity := NewActivityService(activityRepo, validate, testLogger())
	svc := NewCourseService(courses, enrollments, validate, activity, testLogger())

	require.NoError(t, svc.Delete(context.Background(), adminPrincipal(1), course.ID))
	require.Empty(t, courses.courses)
	require.Len(t, activityRepo.entries, 1)
	require.Equal(t, "course.deleted", activityRepo.entries[0].Action)
}
