package models

import (
	"time"

	"gorm.io/datatypes"
)

type Course struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CourseCode string         `json:"course_code" gorm:"uniqueIndex;not null;size:50"`
	Title      string         `json:"title" gorm:"not null;size:200"`
	StartDate  datatypes.Date `json:"start_date"`
	EndDate    datatypes.Date `json:"end_date"`

	// Single teacher slot. A user can never be both the teacher and a student
	// of the same course.
	TeacherID *uint `json:"teacher_id"`
	Teacher   *User `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`

	Students []User `json:"students,omitempty" gorm:"many2many:course_students"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

// HasStudent reports whether the user is in the course's student set.
func (c *Course) HasStudent(userID uint) bool {
	for _, s := range c.Students {
		if s.ID == userID {
			return true
		}
	}
	return false
}

// IsTaughtBy reports whether the user is the course's assigned teacher.
func (c *Course) IsTaughtBy(userID uint) bool {
	return c.TeacherID != nil && *c.TeacherID == userID
}
