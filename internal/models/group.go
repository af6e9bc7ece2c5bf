package models

import (
	"time"

	"github.com/google/uuid"
)

// CourseGroup is a subject-section-cohort unit. Students enroll in it,
// teachers are assigned to it. Its numeric id doubles as the join code
// shown to users, so it stays an autoincrement integer.
type CourseGroup struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Subject   string    `json:"subject" gorm:"not null"`
	Section   string    `json:"section"` // group key, e.g. "7BM1"
	Cohort    string    `json:"cohort"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeacherAssignment links a teacher to a course group.
type TeacherAssignment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TeacherID uuid.UUID `json:"teacher_id" gorm:"type:text;not null;uniqueIndex:idx_teacher_group"`
	GroupID   uint      `json:"group_id" gorm:"not null;uniqueIndex:idx_teacher_group"`
	CreatedAt time.Time `json:"created_at"`

	Teacher User        `json:"-" gorm:"foreignKey:TeacherID"`
	Group   CourseGroup `json:"-" gorm:"foreignKey:GroupID"`
}

// Enrollment links a student to a course group. A student may belong to
// several groups but only once to each.
type Enrollment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GroupID   uint      `json:"group_id" gorm:"not null;uniqueIndex:idx_group_student"`
	StudentID uuid.UUID `json:"student_id" gorm:"type:text;not null;uniqueIndex:idx_group_student"`
	CreatedAt time.Time `json:"created_at"`

	Group   CourseGroup `json:"-" gorm:"foreignKey:GroupID"`
	Student User        `json:"-" gorm:"foreignKey:StudentID"`
}
