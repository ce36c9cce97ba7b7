package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Charan200529/StudentReportSystem/internal/models"
)

// CourseRepository defines data operations for courses, including the
// enrollment-scoped finder used for student visibility.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.Course, error)
	ListBySemester(ctx context.Context, semester int) ([]models.Course, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Course, error)
	FindEnrolledByStudentAndSemester(ctx context.Context, studentID uint, semester int) ([]models.Course, error)
	Count(ctx context.Context) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates the repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

// Delete removes the course together with its assignments, their submissions
// and all enrollments, mirroring the conceptual ownership cascade.
func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id IN (?)",
			tx.Model(&models.Assignment{}).Select("id").Where("course_id = ?", id),
		).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Course{}, id).Error
	})
}

func (r *courseRepository) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) ListBySemester(ctx context.Context, semester int) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Where("semester = ?", semester).Order("id ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("id ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// FindEnrolledByStudentAndSemester returns the courses a student may see:
// matching semester with an ACTIVE enrollment for that student.
func (r *courseRepository) FindEnrolledByStudentAndSemester(ctx context.Context, studentID uint, semester int) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Where("semester = ?", semester).
		Where("id IN (?)", r.db.Model(&models.Enrollment{}).
			Select("course_id").
			Where("student_id = ? AND status = ?", studentID, models.EnrollmentStatusActive)).
		Order("id ASC").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Course{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
