package service

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Charan200529/StudentReportSystem/internal/models"
	"github.com/Charan200529/StudentReportSystem/internal/policy"
	"github.com/Charan200529/StudentReportSystem/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func intPtr(v int) *int {
	return &v
}

func adminPrincipal(id uint) policy.Principal {
	return policy.Principal{ID: id, Role: models.RoleAdmin}
}

func teacherPrincipal(id uint) policy.Principal {
	return policy.Principal{ID: id, Role: models.RoleTeacher}
}

func studentPrincipal(id uint, semester int) policy.Principal {
	return policy.Principal{ID: id, Role: models.RoleStudent, CurrentSemester: intPtr(semester)}
}

// fakeUserRepo keeps users in insertion order and mimics the gorm error
// surface the services switch on.
type fakeUserRepo struct {
	nextID uint
	users  []models.User
}

func (f *fakeUserRepo) add(user models.User) models.User {
	f.nextID++
	user.ID = f.nextID
	f.users = append(f.users, user)
	return user
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	for i, existing := range f.users {
		if existing.ID == user.ID {
			f.users[i] = *user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	for i, existing := range f.users {
		if existing.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]models.User, error) {
	return append([]models.User(nil), f.users...), nil
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var out []models.User
	for _, user := range f.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListBySemester(ctx context.Context, semester int) ([]models.User, error) {
	var out []models.User
	for _, user := range f.users {
		if user.CurrentSemester != nil && *user.CurrentSemester == semester {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

type fakeEnrollmentRepo struct {
	nextID      uint
	enrollments []models.Enrollment
}

func (f *fakeEnrollmentRepo) add(enrollment models.Enrollment) models.Enrollment {
	f.nextID++
	enrollment.ID = f.nextID
	f.enrollments = append(f.enrollments, enrollment)
	return enrollment
}

func (f *fakeEnrollmentRepo) GetByID(ctx context.Context, id uint) (models.Enrollment, error) {
	for _, enrollment := range f.enrollments {
		if enrollment.ID == id {
			return enrollment, nil
		}
	}
	return models.Enrollment{}, gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	for _, existing := range f.enrollments {
		if existing.StudentID == enrollment.StudentID && existing.CourseID == enrollment.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	enrollment.ID = f.nextID
	f.enrollments = append(f.enrollments, *enrollment)
	return nil
}

func (f *fakeEnrollmentRepo) Update(ctx context.Context, enrollment *models.Enrollment) error {
	for i, existing := range f.enrollments {
		if existing.ID == enrollment.ID {
			f.enrollments[i] = *enrollment
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentRepo) FindByStudentAndCourse(ctx context.Context, studentID, courseID uint) (models.Enrollment, error) {
	for _, enrollment := range f.enrollments {
		if enrollment.StudentID == studentID && enrollment.CourseID == courseID {
			return enrollment, nil
		}
	}
	return models.Enrollment{}, gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentRepo) FindActiveByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, enrollment := range f.enrollments {
		if enrollment.StudentID == studentID && enrollment.IsActive() {
			out = append(out, enrollment)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) FindActiveByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, enrollment := range f.enrollments {
		if enrollment.CourseID == courseID && enrollment.IsActive() {
			out = append(out, enrollment)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, enrollment := range f.enrollments {
		if enrollment.CourseID == courseID {
			out = append(out, enrollment)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, enrollment := range f.enrollments {
		if enrollment.StudentID == studentID {
			out = append(out, enrollment)
		}
	}
	return out, nil
}

// fakeCourseRepo shares the enrollment fake so the enrollment-scoped finder
// reproduces the SQL join.
type fakeCourseRepo struct {
	nextID      uint
	courses     []models.Course
	enrollments *fakeEnrollmentRepo
}

func (f *fakeCourseRepo) add(course models.Course) models.Course {
	f.nextID++
	course.ID = f.nextID
	f.courses = append(f.courses, course)
	return course
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, id uint) (models.Course, error) {
	for _, course := range f.courses {
		if course.ID == id {
			return course, nil
		}
	}
	return models.Course{}, gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	f.nextID++
	course.ID = f.nextID
	f.courses = append(f.courses, *course)
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	for i, existing := range f.courses {
		if existing.ID == course.ID {
			f.courses[i] = *course
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id uint) error {
	for i, existing := range f.courses {
		if existing.ID == id {
			f.courses = append(f.courses[:i], f.courses[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	return append([]models.Course(nil), f.courses...), nil
}

func (f *fakeCourseRepo) ListBySemester(ctx context.Context, semester int) ([]models.Course, error) {
	var out []models.Course
	for _, course := range f.courses {
		if course.Semester == semester {
			out = append(out, course)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Course, error) {
	var out []models.Course
	for _, course := range f.courses {
		if course.TeacherID == teacherID {
			out = append(out, course)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) FindEnrolledByStudentAndSemester(ctx context.Context, studentID uint, semester int) ([]models.Course, error) {
	var out []models.Course
	for _, course := range f.courses {
		if course.Semester != semester {
			continue
		}
		if f.enrollments == nil {
			continue
		}
		enrollment, err := f.enrollments.FindByStudentAndCourse(ctx, studentID, course.ID)
		if err != nil || !enrollment.IsActive() {
			continue
		}
		out = append(out, course)
	}
	return out, nil
}

func (f *fakeCourseRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.courses)), nil
}

// fakeAssignmentRepo shares course and enrollment fakes for the semester join.
type fakeAssignmentRepo struct {
	nextID      uint
	assignments []models.Assignment
	courses     *fakeCourseRepo
	enrollments *fakeEnrollmentRepo
}

func (f *fakeAssignmentRepo) add(assignment models.Assignment) models.Assignment {
	f.nextID++
	assignment.ID = f.nextID
	f.assignments = append(f.assignments, assignment)
	return assignment
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	for _, assignment := range f.assignments {
		if assignment.ID == id {
			return assignment, nil
		}
	}
	return models.Assignment{}, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	f.nextID++
	assignment.ID = f.nextID
	f.assignments = append(f.assignments, *assignment)
	return nil
}

func (f *fakeAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	for i, existing := range f.assignments {
		if existing.ID == assignment.ID {
			f.assignments[i] = *assignment
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) Delete(ctx context.Context, id uint) error {
	for i, existing := range f.assignments {
		if existing.ID == id {
			f.assignments = append(f.assignments[:i], f.assignments[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) List(ctx context.Context) ([]models.Assignment, error) {
	return append([]models.Assignment(nil), f.assignments...), nil
}

func (f *fakeAssignmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, assignment := range f.assignments {
		if assignment.CourseID == courseID {
			out = append(out, assignment)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) FindForStudentBySemester(ctx context.Context, studentID uint, semester int) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, assignment := range f.assignments {
		if f.courses == nil || f.enrollments == nil {
			continue
		}
		course, err := f.courses.GetByID(ctx, assignment.CourseID)
		if err != nil || course.Semester != semester {
			continue
		}
		enrollment, err := f.enrollments.FindByStudentAndCourse(ctx, studentID, course.ID)
		if err != nil || !enrollment.IsActive() {
			continue
		}
		out = append(out, assignment)
	}
	return out, nil
}

func (f *fakeAssignmentRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.assignments)), nil
}

type fakeSubmissionRepo struct {
	nextID      uint
	submissions []models.Submission
	createCalls int
	updateCalls int
}

func (f *fakeSubmissionRepo) add(submission models.Submission) models.Submission {
	f.nextID++
	submission.ID = f.nextID
	f.submissions = append(f.submissions, submission)
	return submission
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	for _, submission := range f.submissions {
		if submission.ID == id {
			return submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	f.createCalls++
	for _, existing := range f.submissions {
		if existing.AssignmentID == submission.AssignmentID && existing.StudentID == submission.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	submission.ID = f.nextID
	f.submissions = append(f.submissions, *submission)
	return nil
}

func (f *fakeSubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	f.updateCalls++
	for i, existing := range f.submissions {
		if existing.ID == submission.ID {
			f.submissions[i] = *submission
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error) {
	var out []models.Submission
	for _, submission := range f.submissions {
		if submission.AssignmentID == assignmentID {
			out = append(out, submission)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error) {
	var out []models.Submission
	for _, submission := range f.submissions {
		if submission.StudentID == studentID {
			out = append(out, submission)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (models.Submission, error) {
	for _, submission := range f.submissions {
		if submission.AssignmentID == assignmentID && submission.StudentID == studentID {
			return submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) CountByAssignment(ctx context.Context, assignmentID uint) (int64, error) {
	var count int64
	for _, submission := range f.submissions {
		if submission.AssignmentID == assignmentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeSubmissionRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.submissions)), nil
}

func (f *fakeSubmissionRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	for _, submission := range f.submissions {
		if submission.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeActivityLogRepo struct {
	entries []models.ActivityLog
}

func (f *fakeActivityLogRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityLogRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	var out []models.ActivityLog
	for _, entry := range f.entries {
		if filter.Action != "" && !strings.EqualFold(entry.Action, filter.Action) {
			continue
		}
		if filter.EntityType != "" && !strings.EqualFold(entry.EntityType, filter.EntityType) {
			continue
		}
		out = append(out, entry)
	}
	return out, int64(len(out)), nil
}
