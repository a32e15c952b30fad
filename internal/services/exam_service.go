package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
	"github.com/hossein5161/exam/internal/validator"
)

type examService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewExamService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ExamService {
	return &examService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *examService) Create(ctx context.Context, req *CreateExamRequest, teacherID uint) (*models.Exam, error) {
	s.logger.Info("Creating exam", "title", req.Title, "course_id", req.CourseID, "teacher_id", teacherID)

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	var exam *models.Exam
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		course, err := tx.Course().GetByID(ctx, req.CourseID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return NewNotFoundError("course", fmt.Sprint(req.CourseID))
			}
			return err
		}

		// Exams are scoped to the teacher's own courses.
		if !course.IsTaughtBy(teacherID) {
			return NewPermissionError(teacherID, "create exam", "not the teacher of this course")
		}

		exam = &models.Exam{
			Title:           req.Title,
			Description:     req.Description,
			DurationMinutes: req.DurationMinutes,
			CourseID:        course.ID,
			TeacherID:       teacherID,
		}
		return tx.Exam().Create(ctx, exam)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exam created", "exam_id", exam.ID)
	return exam, nil
}

func (s *examService) GetByID(ctx context.Context, examID uint) (*models.Exam, error) {
	return s.getExam(ctx, s.repo, examID)
}

func (s *examService) Update(ctx context.Context, examID uint, req *UpdateExamRequest, teacherID uint) (*models.Exam, error) {
	s.logger.Info("Updating exam", "exam_id", examID, "teacher_id", teacherID)

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	var exam *models.Exam
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		exam, err = s.getExam(ctx, tx, examID)
		if err != nil {
			return err
		}

		if exam.TeacherID != teacherID {
			return NewPermissionError(teacherID, "update exam", "not the owner of this exam")
		}

		if req.Title != nil && *req.Title != "" {
			exam.Title = *req.Title
		}
		if req.Description != nil {
			exam.Description = req.Description
		}
		if req.DurationMinutes != nil && *req.DurationMinutes > 0 {
			exam.DurationMinutes = *req.DurationMinutes
		}

		return tx.Exam().Update(ctx, exam)
	})
	if err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *examService) Delete(ctx context.Context, examID, teacherID uint) error {
	s.logger.Info("Deleting exam", "exam_id", examID, "teacher_id", teacherID)

	return s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		exam, err := s.getExam(ctx, tx, examID)
		if err != nil {
			return err
		}

		if exam.TeacherID != teacherID {
			return NewPermissionError(teacherID, "delete exam", "not the owner of this exam")
		}
		return tx.Exam().Delete(ctx, examID)
	})
}

func (s *examService) ListByCourse(ctx context.Context, courseID uint) ([]*models.Exam, error) {
	return s.repo.Exam().ListByCourse(ctx, courseID)
}

func (s *examService) ListByTeacher(ctx context.Context, teacherID uint) ([]*models.Exam, error) {
	return s.repo.Exam().ListByTeacher(ctx, teacherID)
}

func (s *examService) IsOwner(ctx context.Context, examID, teacherID uint) (bool, error) {
	exam, err := s.getExam(ctx, s.repo, examID)
	if err != nil {
		return false, err
	}
	return exam.TeacherID == teacherID, nil
}

func (s *examService) getExam(ctx context.Context, repo repositories.Repository, examID uint) (*models.Exam, error) {
	exam, err := repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("exam", fmt.Sprint(examID))
		}
		return nil, err
	}
	return exam, nil
}
