package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
)

type courseRepository struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &courseRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return handleDBError(err, "create course")
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Students").
		First(&course, id).Error; err != nil {
		return nil, handleDBError(err, "get course by id")
	}
	return &course, nil
}

func (r *courseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).
		Where("course_code = ?", code).
		First(&course).Error; err != nil {
		return nil, handleDBError(err, "get course by code")
	}
	return &course, nil
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).
		Omit("Students", "Teacher").
		Save(course).Error; err != nil {
		return handleDBError(err, "update course")
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	course := models.Course{ID: id}
	if err := r.db.WithContext(ctx).Model(&course).Association("Students").Clear(); err != nil {
		return handleDBError(err, "clear course students")
	}
	if err := r.db.WithContext(ctx).Delete(&course).Error; err != nil {
		return handleDBError(err, "delete course")
	}
	return nil
}

func (r *courseRepository) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Preload("Teacher").
		Preload("Students")

	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("title ILIKE ? OR course_code ILIKE ?", pattern, pattern)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var courses []*models.Course
	if err := query.Order("id").Find(&courses).Error; err != nil {
		return nil, handleDBError(err, "list courses")
	}
	return courses, nil
}

// ===== ENROLLMENT OPERATIONS =====

func (r *courseRepository) SetTeacher(ctx context.Context, course *models.Course, teacher *models.User) error {
	course.TeacherID = &teacher.ID
	course.Teacher = teacher
	if err := r.db.WithContext(ctx).
		Model(course).
		Update("teacher_id", teacher.ID).Error; err != nil {
		return handleDBError(err, "assign course teacher")
	}
	return nil
}

func (r *courseRepository) AddStudent(ctx context.Context, course *models.Course, student *models.User) error {
	if err := r.db.WithContext(ctx).
		Model(course).
		Association("Students").
		Append(student); err != nil {
		return handleDBError(err, "add course student")
	}
	return nil
}

func (r *courseRepository) RemoveStudent(ctx context.Context, course *models.Course, studentID uint) error {
	if err := r.db.WithContext(ctx).
		Model(course).
		Association("Students").
		Delete(&models.User{ID: studentID}); err != nil {
		return handleDBError(err, "remove course student")
	}
	return nil
}

// ===== GUARD LOOKUPS =====

func (r *courseRepository) FindByTeacher(ctx context.Context, teacherID uint) ([]*models.Course, error) {
	var courses []*models.Course
	if err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("id").
		Find(&courses).Error; err != nil {
		return nil, handleDBError(err, "find courses by teacher")
	}
	return courses, nil
}

func (r *courseRepository) FindByStudent(ctx context.Context, studentID uint) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN course_students cs ON cs.course_id = courses.id").
		Where("cs.user_id = ?", studentID).
		Order("courses.id").
		Find(&courses).Error
	if err != nil {
		return nil, handleDBError(err, "find courses by student")
	}
	return courses, nil
}
