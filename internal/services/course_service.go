package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
	"github.com/hossein5161/exam/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCourseService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) CourseService {
	return &courseService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest) (*models.Course, error) {
	s.logger.Info("Creating course", "course_code", req.CourseCode, "title", req.Title)

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	startDate, endDate, err := parseCourseDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var course *models.Course
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := s.checkCodeAvailable(ctx, tx, req.CourseCode, 0); err != nil {
			return err
		}

		course = &models.Course{
			CourseCode: req.CourseCode,
			Title:      req.Title,
			StartDate:  startDate,
			EndDate:    endDate,
		}
		return tx.Course().Create(ctx, course)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Course created", "course_id", course.ID)
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, courseID uint) (*models.Course, error) {
	return s.getCourse(ctx, s.repo, courseID)
}

func (s *courseService) Update(ctx context.Context, courseID uint, req *UpdateCourseRequest) (*models.Course, error) {
	s.logger.Info("Updating course", "course_id", courseID)

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	var course *models.Course
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		course, err = s.getCourse(ctx, tx, courseID)
		if err != nil {
			return err
		}

		if req.CourseCode != nil && *req.CourseCode != "" && *req.CourseCode != course.CourseCode {
			if err := s.checkCodeAvailable(ctx, tx, *req.CourseCode, course.ID); err != nil {
				return err
			}
			course.CourseCode = *req.CourseCode
		}
		if req.Title != nil && *req.Title != "" {
			course.Title = *req.Title
		}
		if req.StartDate != nil && *req.StartDate != "" {
			date, err := parseDate(*req.StartDate, "start_date")
			if err != nil {
				return err
			}
			course.StartDate = date
		}
		if req.EndDate != nil && *req.EndDate != "" {
			date, err := parseDate(*req.EndDate, "end_date")
			if err != nil {
				return err
			}
			course.EndDate = date
		}

		return tx.Course().Update(ctx, course)
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, courseID uint) error {
	s.logger.Info("Deleting course", "course_id", courseID)

	return s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := s.getCourse(ctx, tx, courseID); err != nil {
			return err
		}
		return tx.Course().Delete(ctx, courseID)
	})
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, error) {
	return s.repo.Course().List(ctx, filters)
}

// ===== ENROLLMENT OPERATIONS =====

func (s *courseService) AssignTeacher(ctx context.Context, courseID, userID uint) (*models.Course, error) {
	s.logger.Info("Assigning course teacher", "course_id", courseID, "user_id", userID)

	var course *models.Course
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		course, err = s.getCourse(ctx, tx, courseID)
		if err != nil {
			return err
		}

		user, err := s.getUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		if !user.HasRole(models.RoleTeacher) {
			return NewPreconditionError(fmt.Sprintf("user %q does not hold the teacher role", user.Username))
		}
		if course.HasStudent(user.ID) {
			return NewConflictError("course", fmt.Sprintf("user %q is already a student of this course", user.Username))
		}

		// Single-slot: any previous teacher is replaced.
		return tx.Course().SetTeacher(ctx, course, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Course teacher assigned", "course_id", course.ID, "teacher_id", userID)
	return course, nil
}

func (s *courseService) AddStudent(ctx context.Context, courseID, userID uint) (*models.Course, error) {
	s.logger.Info("Enrolling student", "course_id", courseID, "user_id", userID)

	var course *models.Course
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		course, err = s.getCourse(ctx, tx, courseID)
		if err != nil {
			return err
		}

		user, err := s.getUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		if !user.HasRole(models.RoleStudent) {
			return NewPreconditionError(fmt.Sprintf("user %q does not hold the student role", user.Username))
		}
		if course.IsTaughtBy(user.ID) {
			return NewConflictError("course", fmt.Sprintf("user %q is the teacher of this course", user.Username))
		}

		// Set semantics: enrolling an already-enrolled student is a no-op.
		if course.HasStudent(user.ID) {
			return nil
		}
		return tx.Course().AddStudent(ctx, course, user)
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) RemoveStudent(ctx context.Context, courseID, userID uint) error {
	s.logger.Info("Removing student", "course_id", courseID, "user_id", userID)

	return s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		course, err := s.getCourse(ctx, tx, courseID)
		if err != nil {
			return err
		}

		// Idempotent: removing a student who is not enrolled succeeds.
		if !course.HasStudent(userID) {
			return nil
		}
		return tx.Course().RemoveStudent(ctx, course, userID)
	})
}

func (s *courseService) Participants(ctx context.Context, courseID uint) (*CourseParticipantsResponse, error) {
	course, err := s.getCourse(ctx, s.repo, courseID)
	if err != nil {
		return nil, err
	}

	return &CourseParticipantsResponse{
		Course:   course,
		Teacher:  course.Teacher,
		Students: course.Students,
	}, nil
}

// ===== GUARD LOOKUPS =====

func (s *courseService) FindByTeacher(ctx context.Context, teacherID uint) ([]*models.Course, error) {
	return s.repo.Course().FindByTeacher(ctx, teacherID)
}

func (s *courseService) FindByStudent(ctx context.Context, studentID uint) ([]*models.Course, error) {
	return s.repo.Course().FindByStudent(ctx, studentID)
}

// ===== HELPERS =====

func (s *courseService) getCourse(ctx context.Context, repo repositories.Repository, courseID uint) (*models.Course, error) {
	course, err := repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("course", fmt.Sprint(courseID))
		}
		return nil, err
	}
	return course, nil
}

func (s *courseService) getUser(ctx context.Context, repo repositories.Repository, userID uint) (*models.User, error) {
	user, err := repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", fmt.Sprint(userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *courseService) checkCodeAvailable(ctx context.Context, repo repositories.Repository, code string, selfID uint) error {
	existing, err := repo.Course().GetByCode(ctx, code)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return NewConflictError("course", fmt.Sprintf("course code %q is already in use", code))
	}
	return nil
}

func parseCourseDates(start, end string) (datatypes.Date, datatypes.Date, error) {
	startDate, err := parseDate(start, "start_date")
	if err != nil {
		return datatypes.Date{}, datatypes.Date{}, err
	}
	endDate, err := parseDate(end, "end_date")
	if err != nil {
		return datatypes.Date{}, datatypes.Date{}, err
	}
	return startDate, endDate, nil
}

func parseDate(value, field string) (datatypes.Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return datatypes.Date{}, validator.ValidationErrors{{
			Field:   field,
			Message: "must be a date in YYYY-MM-DD format",
			Value:   value,
			Rule:    "datetime",
		}}
	}
	return datatypes.Date(t), nil
}
