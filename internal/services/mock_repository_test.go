package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
	"github.com/hossein5161/exam/internal/repositories/redisrepo"
)

// MockRepository is an in-memory Repository for service tests. It is not
// transactional: WithTransaction simply runs fn against the same state,
// which is sufficient because guard failures happen before any mutation.
type MockRepository struct {
	users  *mockUserRepo
	roles  *mockRoleRepo
	course *mockCourseRepo
	exams  *mockExamRepo
	resets *mockResetCodeRepo
}

func NewMockRepository() *MockRepository {
	repo := &MockRepository{
		users:  &mockUserRepo{users: make(map[uint]*models.User)},
		roles:  &mockRoleRepo{roles: make(map[models.RoleName]*models.Role)},
		course: &mockCourseRepo{courses: make(map[uint]*models.Course)},
		exams:  &mockExamRepo{exams: make(map[uint]*models.Exam)},
		resets: &mockResetCodeRepo{codes: make(map[string]models.ResetCode)},
	}

	// Seed the role catalog the way bootstrap does.
	for i, name := range models.AllRoleNames() {
		repo.roles.roles[name] = &models.Role{ID: uint(i + 1), Name: name.ExternalName()}
	}
	return repo
}

func (m *MockRepository) User() repositories.UserRepository           { return m.users }
func (m *MockRepository) Role() repositories.RoleRepository           { return m.roles }
func (m *MockRepository) Course() repositories.CourseRepository       { return m.course }
func (m *MockRepository) Exam() repositories.ExamRepository           { return m.exams }
func (m *MockRepository) ResetCode() repositories.ResetCodeRepository { return m.resets }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

// ===== USERS =====

type mockUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func copyUser(u *models.User) *models.User {
	out := *u
	out.Roles = make([]models.Role, len(u.Roles))
	copy(out.Roles, u.Roles)
	return &out
}

func (r *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	roles := stored.Roles
	r.users[user.ID] = copyUser(user)
	r.users[user.ID].Roles = roles
	return nil
}

func (r *mockUserRepo) ReplaceRoles(ctx context.Context, user *models.User, roles []models.Role) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Roles = make([]models.Role, len(roles))
	copy(stored.Roles, roles)
	user.Roles = roles
	return nil
}

func (r *mockUserRepo) Delete(ctx context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

func (r *mockUserRepo) List(ctx context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, copyUser(u))
	}
	return out, nil
}

func (r *mockUserRepo) Search(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		if filters.Status != nil && u.Status != *filters.Status {
			continue
		}
		if filters.FirstName != "" && !strings.Contains(strings.ToLower(u.FirstName), strings.ToLower(filters.FirstName)) {
			continue
		}
		if filters.RoleName != "" {
			held := false
			for _, role := range u.Roles {
				if role.Name == filters.RoleName {
					held = true
				}
			}
			if !held {
				continue
			}
		}
		out = append(out, copyUser(u))
	}
	return out, nil
}

func (r *mockUserRepo) ListByRole(ctx context.Context, role models.RoleName) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		if u.HasRole(role) {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

// ===== ROLES =====

type mockRoleRepo struct {
	roles map[models.RoleName]*models.Role
}

func (r *mockRoleRepo) GetByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	if role, ok := r.roles[name]; ok {
		out := *role
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockRoleRepo) GetOrCreate(ctx context.Context, name models.RoleName) (*models.Role, error) {
	if role, ok := r.roles[name]; ok {
		out := *role
		return &out, nil
	}
	role := &models.Role{ID: uint(len(r.roles) + 1), Name: name.ExternalName()}
	r.roles[name] = role
	out := *role
	return &out, nil
}

func (r *mockRoleRepo) List(ctx context.Context) ([]models.Role, error) {
	out := make([]models.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, nil
}

// ===== COURSES =====

type mockCourseRepo struct {
	courses map[uint]*models.Course
	nextID  uint
}

func copyCourse(c *models.Course) *models.Course {
	out := *c
	out.Students = make([]models.User, len(c.Students))
	copy(out.Students, c.Students)
	return &out
}

func (r *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	r.nextID++
	course.ID = r.nextID
	r.courses[course.ID] = copyCourse(course)
	return nil
}

func (r *mockCourseRepo) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	if c, ok := r.courses[id]; ok {
		return copyCourse(c), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockCourseRepo) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	for _, c := range r.courses {
		if c.CourseCode == code {
			return copyCourse(c), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	students := r.courses[course.ID].Students
	r.courses[course.ID] = copyCourse(course)
	r.courses[course.ID].Students = students
	return nil
}

func (r *mockCourseRepo) Delete(ctx context.Context, id uint) error {
	delete(r.courses, id)
	return nil
}

func (r *mockCourseRepo) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range r.courses {
		if filters.TeacherID != nil && (c.TeacherID == nil || *c.TeacherID != *filters.TeacherID) {
			continue
		}
		out = append(out, copyCourse(c))
	}
	return out, nil
}

func (r *mockCourseRepo) SetTeacher(ctx context.Context, course *models.Course, teacher *models.User) error {
	stored, ok := r.courses[course.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.TeacherID = &teacher.ID
	stored.Teacher = teacher
	course.TeacherID = &teacher.ID
	course.Teacher = teacher
	return nil
}

func (r *mockCourseRepo) AddStudent(ctx context.Context, course *models.Course, student *models.User) error {
	stored, ok := r.courses[course.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Students = append(stored.Students, *student)
	course.Students = append(course.Students, *student)
	return nil
}

func (r *mockCourseRepo) RemoveStudent(ctx context.Context, course *models.Course, studentID uint) error {
	stored, ok := r.courses[course.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	kept := stored.Students[:0]
	for _, s := range stored.Students {
		if s.ID != studentID {
			kept = append(kept, s)
		}
	}
	stored.Students = kept
	return nil
}

func (r *mockCourseRepo) FindByTeacher(ctx context.Context, teacherID uint) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range r.courses {
		if c.TeacherID != nil && *c.TeacherID == teacherID {
			out = append(out, copyCourse(c))
		}
	}
	return out, nil
}

func (r *mockCourseRepo) FindByStudent(ctx context.Context, studentID uint) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range r.courses {
		if c.HasStudent(studentID) {
			out = append(out, copyCourse(c))
		}
	}
	return out, nil
}

// ===== EXAMS =====

type mockExamRepo struct {
	exams  map[uint]*models.Exam
	nextID uint
}

func (r *mockExamRepo) Create(ctx context.Context, exam *models.Exam) error {
	r.nextID++
	exam.ID = r.nextID
	stored := *exam
	r.exams[exam.ID] = &stored
	return nil
}

func (r *mockExamRepo) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	if e, ok := r.exams[id]; ok {
		out := *e
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockExamRepo) Update(ctx context.Context, exam *models.Exam) error {
	if _, ok := r.exams[exam.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *exam
	r.exams[exam.ID] = &stored
	return nil
}

func (r *mockExamRepo) Delete(ctx context.Context, id uint) error {
	delete(r.exams, id)
	return nil
}

func (r *mockExamRepo) ListByCourse(ctx context.Context, courseID uint) ([]*models.Exam, error) {
	var out []*models.Exam
	for _, e := range r.exams {
		if e.CourseID == courseID {
			exam := *e
			out = append(out, &exam)
		}
	}
	return out, nil
}

func (r *mockExamRepo) ListByTeacher(ctx context.Context, teacherID uint) ([]*models.Exam, error) {
	var out []*models.Exam
	for _, e := range r.exams {
		if e.TeacherID == teacherID {
			exam := *e
			out = append(out, &exam)
		}
	}
	return out, nil
}

// ===== RESET CODES =====

type mockResetCodeRepo struct {
	codes map[string]models.ResetCode
}

func (r *mockResetCodeRepo) Store(ctx context.Context, email string, code models.ResetCode, ttl time.Duration) error {
	r.codes[email] = code
	return nil
}

func (r *mockResetCodeRepo) Get(ctx context.Context, email string) (*models.ResetCode, error) {
	if code, ok := r.codes[email]; ok {
		return &code, nil
	}
	return nil, redisrepo.ErrCodeNotFound
}

func (r *mockResetCodeRepo) Delete(ctx context.Context, email string) error {
	delete(r.codes, email)
	return nil
}
