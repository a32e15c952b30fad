package services

import (
	"context"
	"errors"
	"testing"

	"github.com/hossein5161/exam/internal/models"
)

func TestCreateCourse(t *testing.T) {
	svc, _ := newCourseServiceForTest(t)

	course, err := svc.Create(context.Background(), &CreateCourseRequest{
		CourseCode: "MATH101",
		Title:      "Calculus I",
		StartDate:  "2026-09-01",
		EndDate:    "2026-12-20",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if course.ID == 0 {
		t.Error("expected an assigned ID")
	}
	if course.CourseCode != "MATH101" {
		t.Errorf("course code = %s", course.CourseCode)
	}
}

func TestCreateCourseDuplicateCode(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	seedCourse(t, repo, "MATH101", "Calculus I")

	_, err := svc.Create(context.Background(), &CreateCourseRequest{
		CourseCode: "MATH101",
		Title:      "Calculus II",
		StartDate:  "2026-09-01",
		EndDate:    "2026-12-20",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for duplicate code, got %v", err)
	}
}

func TestCreateCourseBadDate(t *testing.T) {
	svc, _ := newCourseServiceForTest(t)

	_, err := svc.Create(context.Background(), &CreateCourseRequest{
		CourseCode: "MATH101",
		Title:      "Calculus I",
		StartDate:  "01/09/2026",
		EndDate:    "2026-12-20",
	})
	if err == nil {
		t.Fatal("expected a validation error for the date format")
	}
}

func TestAssignTeacher(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	ctx := context.Background()

	teacher := seedUser(t, repo, "bob", models.StatusApproved, models.RoleTeacher)
	course := seedCourse(t, repo, "MATH101", "Calculus I")

	updated, err := svc.AssignTeacher(ctx, course.ID, teacher.ID)
	if err != nil {
		t.Fatalf("AssignTeacher failed: %v", err)
	}
	if updated.TeacherID == nil || *updated.TeacherID != teacher.ID {
		t.Errorf("teacher not assigned: %v", updated.TeacherID)
	}
}

func TestAssignTeacherReplacesPrevious(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	ctx := context.Background()

	first := seedUser(t, repo, "bob", models.StatusApproved, models.RoleTeacher)
	second := seedUser(t, repo, "dana", models.StatusApproved, models.RoleTeacher)
	course := seedCourse(t, repo, "MATH101", "Calculus I")
	seedTeacherOf(t, repo, course, first)

	updated, err := svc.AssignTeacher(ctx, course.ID, second.ID)
	if err != nil {
		t.Fatalf("AssignTeacher failed: %v", err)
	}
	if updated.TeacherID == nil || *updated.TeacherID != second.ID {
		t.Errorf("expected the slot to be replaced, got %v", updated.TeacherID)
	}
}

func TestAssignTeacherRequiresRole(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)

	student := seedUser(t, repo, "carol", models.StatusApproved, models.RoleStudent)
	course := seedCourse(t, repo, "MATH101", "Calculus I")

	_, err := svc.AssignTeacher(context.Background(), course.ID, student.ID)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected role precondition, got %v", err)
	}
}

func TestAssignTeacherBlockedWhenEnrolledAsStudent(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	ctx := context.Background()

	// Holds both roles, but is already a student of this course.
	both := seedUser(t, repo, "dana", models.StatusApproved, models.RoleTeacher, models.RoleStudent)
	course := seedCourse(t, repo, "MATH101", "Calculus I")
	seedStudentOf(t, repo, course, both)

	_, err := svc.AssignTeacher(ctx, course.ID, both.ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected teacher/student conflict, got %v", err)
	}
}

func TestAddStudent(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	ctx := context.Background()

	student := seedUser(t, repo, "carol", models.StatusApproved, models.RoleStudent)
	course := seedCourse(t, repo, "MATH101", "Calculus I")

	updated, err := svc.AddStudent(ctx, course.ID, student.ID)
	if err != nil {
		t.Fatalf("AddStudent failed: %v", err)
	}
	if !updated.HasStudent(student.ID) {
		t.Error("student not enrolled")
	}

	// Enrolling again is a no-op, not an error.
	if _, err := svc.AddStudent(ctx, course.ID, student.ID); err != nil {
		t.Fatalf("re-enrollment should be idempotent: %v", err)
	}
	stored, err := repo.Course().GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(stored.Students) != 1 {
		t.Errorf("expected a single enrollment, got %d", len(stored.Students))
	}
}

func TestAddStudentRequiresRole(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)

	teacher := seedUser(t, repo, "bob", models.StatusApproved, models.RoleTeacher)
	course := seedCourse(t, repo, "MATH101", "Calculus I")

	_, err := svc.AddStudent(context.Background(), course.ID, teacher.ID)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected role precondition, got %v", err)
	}
}

func TestAddStudentBlockedWhenTeachingCourse(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	ctx := context.Background()

	both := seedUser(t, repo, "dana", models.StatusApproved, models.RoleTeacher, models.RoleStudent)
	course := seedCourse(t, repo, "MATH101", "Calculus I")
	seedTeacherOf(t, repo, course, both)

	_, err := svc.AddStudent(ctx, course.ID, both.ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected teacher/student conflict, got %v", err)
	}
}

func TestRemoveStudentIdempotent(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	ctx := context.Background()

	student := seedUser(t, repo, "carol", models.StatusApproved, models.RoleStudent)
	course := seedCourse(t, repo, "MATH101", "Calculus I")
	seedStudentOf(t, repo, course, student)

	if err := svc.RemoveStudent(ctx, course.ID, student.ID); err != nil {
		t.Fatalf("RemoveStudent failed: %v", err)
	}
	// Removing a student who is not enrolled succeeds.
	if err := svc.RemoveStudent(ctx, course.ID, student.ID); err != nil {
		t.Fatalf("second removal should be a no-op: %v", err)
	}
}

func TestUpdateCourseCodeCollision(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	ctx := context.Background()

	seedCourse(t, repo, "MATH101", "Calculus I")
	other := seedCourse(t, repo, "PHY101", "Mechanics")

	taken := "MATH101"
	_, err := svc.Update(ctx, other.ID, &UpdateCourseRequest{CourseCode: &taken})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for taken code, got %v", err)
	}

	// Re-submitting the course's own code is fine.
	own := "PHY101"
	if _, err := svc.Update(ctx, other.ID, &UpdateCourseRequest{CourseCode: &own}); err != nil {
		t.Fatalf("updating with own code should succeed: %v", err)
	}
}

func TestParticipants(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	ctx := context.Background()

	teacher := seedUser(t, repo, "bob", models.StatusApproved, models.RoleTeacher)
	student := seedUser(t, repo, "carol", models.StatusApproved, models.RoleStudent)
	course := seedCourse(t, repo, "MATH101", "Calculus I")
	seedTeacherOf(t, repo, course, teacher)
	seedStudentOf(t, repo, course, student)

	resp, err := svc.Participants(ctx, course.ID)
	if err != nil {
		t.Fatalf("Participants failed: %v", err)
	}
	if resp.Teacher == nil || resp.Teacher.ID != teacher.ID {
		t.Error("teacher missing from participants")
	}
	if len(resp.Students) != 1 || resp.Students[0].ID != student.ID {
		t.Errorf("students = %v", resp.Students)
	}
}

func TestCourseNotFound(t *testing.T) {
	svc, _ := newCourseServiceForTest(t)

	_, err := svc.GetByID(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
