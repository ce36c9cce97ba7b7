package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Charan200529/StudentReportSystem/internal/models"
)

func TestCourseRepositoryEnrolledFinderRequiresActiveEnrollment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	algebra := models.Course{Title: "Algebra", Code: "MATH201", Semester: 2, TeacherID: 7}
	physics := models.Course{Title: "Physics", Code: "PHYS201", Semester: 2, TeacherID: 7}
	history := models.Course{Title: "History", Code: "HIST101", Semester: 1, TeacherID: 8}
	require.NoError(t, db.Create(&algebra).Error)
	require.NoError(t, db.Create(&physics).Error)
	require.NoError(t, db.Create(&history).Error)

	require.NoError(t, db.Create(&models.Enrollment{StudentID: 5, CourseID: algebra.ID, Status: models.EnrollmentStatusActive}).Error)
	require.NoError(t, db.Create(&models.Enrollment{StudentID: 5, CourseID: physics.ID, Status: models.EnrollmentStatusInactive}).Error)

	courses, err := repo.FindEnrolledByStudentAndSemester(ctx, 5, 2)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, algebra.ID, courses[0].ID)

	// Semester mismatch excludes even active enrollments.
	courses, err = repo.FindEnrolledByStudentAndSemester(ctx, 5, 1)
	require.NoError(t, err)
	require.Empty(t, courses)
}

func TestCourseRepositoryDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	course := models.Course{Title: "Algebra", Code: "MATH201", Semester: 2, TeacherID: 7}
	require.NoError(t, db.Create(&course).Error)
	assignment := models.Assignment{Title: "Homework 1", CourseID: course.ID, MaxPoints: 100, CreatedBy: 7, Status: models.AssignmentStatusActive}
	require.NoError(t, db.Create(&assignment).Error)
	require.NoError(t, db.Create(&models.Enrollment{StudentID: 5, CourseID: course.ID, Status: models.EnrollmentStatusActive}).Error)
	require.NoError(t, db.Create(&models.Submission{AssignmentID: assignment.ID, StudentID: 5, SubmissionText: "answer", Status: models.SubmissionStatusSubmitted}).Error)

	require.NoError(t, repo.Delete(ctx, course.ID))

	var count int64
	require.NoError(t, db.Model(&models.Assignment{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.Submission{}).Count(&count).Error)
	require.Zero(t, count)
}
