package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Charan200529/StudentReportSystem/internal/models"
)

// AssignmentRepository defines data operations for assignments, including the
// enrollment-scoped finder used for student visibility.
type AssignmentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.Assignment, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error)
	FindForStudentBySemester(ctx context.Context, studentID uint, semester int) ([]models.Assignment, error)
	Count(ctx context.Context) (int64, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

// Delete removes the assignment together with its submissions.
func (r *assignmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Assignment{}, id).Error
	})
}

func (r *assignmentRepository) List(ctx context.Context) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.WithContext(ctx).Where("course_id = ?", courseID).Order("id ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindForStudentBySemester returns assignments whose course has an ACTIVE
// enrollment for the student and matches the requested semester. The semester
// constraint joins through the course; assignments carry no semester field.
func (r *assignmentRepository) FindForStudentBySemester(ctx context.Context, studentID uint, semester int) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Joins("JOIN courses ON courses.id = assignments.course_id").
		Where("courses.semester = ?", semester).
		Where("assignments.course_id IN (?)", r.db.Model(&models.Enrollment{}).
			Select("course_id").
			Where("student_id = ? AND status = ?", studentID, models.EnrollmentStatusActive)).
		Order("assignments.id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Assignment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
