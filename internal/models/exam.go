package models

import "time"

type Exam struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	Title           string  `json:"title" gorm:"not null;size:200"`
	Description     *string `json:"description" gorm:"size:2000"`
	DurationMinutes int     `json:"duration_minutes" gorm:"not null"`

	CourseID uint    `json:"course_id" gorm:"not null"`
	Course   *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`

	// The owning teacher; must match the course's assigned teacher at creation.
	TeacherID uint  `json:"teacher_id" gorm:"not null"`
	Teacher   *User `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Exam) TableName() string {
	return "exams"
}
