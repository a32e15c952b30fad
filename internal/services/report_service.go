package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
)

// reportService produces xlsx exports for the admin screens.
type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

func (s *reportService) ExportUsers(ctx context.Context, filters repositories.UserFilters) ([]byte, error) {
	s.logger.Info("Exporting users report")

	users, err := s.repo.User().Search(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load users for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Users"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{"ID", "Username", "Email", "First Name", "Last Name", "Status", "Roles", "Rejection Reason"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return nil, err
	}

	for i, user := range users {
		reason := ""
		if user.RejectionReason != nil {
			reason = *user.RejectionReason
		}
		row := []string{
			fmt.Sprint(user.ID),
			user.Username,
			user.Email,
			user.FirstName,
			user.LastName,
			string(user.Status),
			joinRoles(user.RoleNames()),
			reason,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize users report: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) ExportCourseRoster(ctx context.Context, courseID uint) ([]byte, error) {
	s.logger.Info("Exporting course roster", "course_id", courseID)

	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("course", fmt.Sprint(courseID))
		}
		return nil, fmt.Errorf("failed to load course for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Roster"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	teacherName := ""
	if course.Teacher != nil {
		teacherName = course.Teacher.FullName()
	}
	meta := [][]string{
		{"Course Code", course.CourseCode},
		{"Title", course.Title},
		{"Teacher", teacherName},
	}
	for i, row := range meta {
		if err := writeRow(f, sheet, i+1, row); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, sheet, 5, []string{"ID", "Username", "Email", "Full Name", "Status"}); err != nil {
		return nil, err
	}
	for i, student := range course.Students {
		row := []string{
			fmt.Sprint(student.ID),
			student.Username,
			student.Email,
			student.FullName(),
			string(student.Status),
		}
		if err := writeRow(f, sheet, i+6, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize roster report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func joinRoles(names []models.RoleName) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}
