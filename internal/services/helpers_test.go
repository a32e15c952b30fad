package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedUser(t *testing.T, repo *MockRepository, username string, status models.UserStatus, roleNames ...models.RoleName) *models.User {
	t.Helper()
	ctx := context.Background()

	roles := make([]models.Role, 0, len(roleNames))
	for _, name := range roleNames {
		role, err := repo.Role().GetByName(ctx, name)
		if err != nil {
			t.Fatalf("seed role %s: %v", name, err)
		}
		roles = append(roles, *role)
	}

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Status:       status,
		Roles:        roles,
	}
	if err := repo.User().Create(ctx, user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedCourse(t *testing.T, repo *MockRepository, code, title string) *models.Course {
	t.Helper()

	course := &models.Course{CourseCode: code, Title: title}
	if err := repo.Course().Create(context.Background(), course); err != nil {
		t.Fatalf("seed course %s: %v", code, err)
	}
	return course
}

func seedTeacherOf(t *testing.T, repo *MockRepository, course *models.Course, teacher *models.User) {
	t.Helper()
	if err := repo.Course().SetTeacher(context.Background(), course, teacher); err != nil {
		t.Fatalf("seed teacher for %s: %v", course.CourseCode, err)
	}
}

func seedStudentOf(t *testing.T, repo *MockRepository, course *models.Course, student *models.User) {
	t.Helper()
	if err := repo.Course().AddStudent(context.Background(), course, student); err != nil {
		t.Fatalf("seed student for %s: %v", course.CourseCode, err)
	}
}

func newUserServiceForTest(t *testing.T) (UserService, *MockRepository) {
	t.Helper()
	repo := NewMockRepository()
	return NewUserService(repo, nil, testLogger(), validator.New()), repo
}

func newCourseServiceForTest(t *testing.T) (CourseService, *MockRepository) {
	t.Helper()
	repo := NewMockRepository()
	return NewCourseService(repo, nil, testLogger(), validator.New()), repo
}

func newExamServiceForTest(t *testing.T) (ExamService, *MockRepository) {
	t.Helper()
	repo := NewMockRepository()
	return NewExamService(repo, nil, testLogger(), validator.New()), repo
}
