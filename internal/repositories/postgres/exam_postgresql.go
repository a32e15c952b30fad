package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
)

type examRepository struct {
	db *gorm.DB
}

func NewExamPostgreSQL(db *gorm.DB) repositories.ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) Create(ctx context.Context, exam *models.Exam) error {
	if err := r.db.WithContext(ctx).Create(exam).Error; err != nil {
		return handleDBError(err, "create exam")
	}
	return nil
}

func (r *examRepository) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	var exam models.Exam
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Teacher").
		First(&exam, id).Error; err != nil {
		return nil, handleDBError(err, "get exam by id")
	}
	return &exam, nil
}

func (r *examRepository) Update(ctx context.Context, exam *models.Exam) error {
	if err := r.db.WithContext(ctx).
		Omit("Course", "Teacher").
		Save(exam).Error; err != nil {
		return handleDBError(err, "update exam")
	}
	return nil
}

func (r *examRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Exam{}, id).Error; err != nil {
		return handleDBError(err, "delete exam")
	}
	return nil
}

func (r *examRepository) ListByCourse(ctx context.Context, courseID uint) ([]*models.Exam, error) {
	var exams []*models.Exam
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Teacher").
		Where("course_id = ?", courseID).
		Order("id DESC").
		Find(&exams).Error; err != nil {
		return nil, handleDBError(err, "list exams by course")
	}
	return exams, nil
}

func (r *examRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]*models.Exam, error) {
	var exams []*models.Exam
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("teacher_id = ?", teacherID).
		Order("id DESC").
		Find(&exams).Error; err != nil {
		return nil, handleDBError(err, "list exams by teacher")
	}
	return exams, nil
}
