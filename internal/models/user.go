package models

import (
	"time"

	"github.com/google/uuid"
)

// Role defines the user roles
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// User is an identity record. The role is fixed at registration; the
// role-specific profile lives in StudentProfile or TeacherProfile.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	StudentProfile *StudentProfile `json:"student_profile,omitempty" gorm:"foreignKey:UserID"`
	TeacherProfile *TeacherProfile `json:"teacher_profile,omitempty" gorm:"foreignKey:UserID"`
}

// StudentProfile holds the student-side display data. The enrollment
// number ("boleta") is the identifier students log in with.
type StudentProfile struct {
	ID               uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	UserID           uuid.UUID `json:"user_id" gorm:"type:text;uniqueIndex;not null"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	EnrollmentNumber string    `json:"enrollment_number" gorm:"uniqueIndex;not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// TeacherProfile holds the teacher-side display data. Teachers log in
// with their employee number.
type TeacherProfile struct {
	ID             uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:text;uniqueIndex;not null"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	EmployeeNumber string    `json:"employee_number" gorm:"uniqueIndex;not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// FullName returns "First Last" for display, trimmed when parts are empty.
func (p *StudentProfile) FullName() string {
	return joinName(p.FirstName, p.LastName)
}

func (p *TeacherProfile) FullName() string {
	return joinName(p.FirstName, p.LastName)
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
