package services

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"traitlens/internal/models"
	"traitlens/internal/repository"
)

// AuthService handles registration, login and session lookup.
type AuthService struct {
	userRepo  repository.UserRepository
	groupRepo repository.GroupRepository
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, groupRepo repository.GroupRepository) *AuthService {
	return &AuthService{userRepo: userRepo, groupRepo: groupRepo}
}

// Teacher registration options.
const (
	TeacherOptionCreate = "crear"
	TeacherOptionJoin   = "unirme"
)

// StudentRegistration is the student branch of the registration payload.
type StudentRegistration struct {
	EnrollmentNumber string `json:"enrollmentNumber" binding:"required"`
	GroupID          uint   `json:"groupId" binding:"required"`
}

// GroupInput describes a group created inline during teacher
// registration.
type GroupInput struct {
	Subject string `json:"subject" binding:"required"`
	Section string `json:"section"`
	Cohort  string `json:"cohort"`
}

// TeacherRegistration is the teacher branch of the registration payload.
type TeacherRegistration struct {
	Option         string      `json:"option" binding:"required,oneof=crear unirme"`
	EmployeeNumber string      `json:"employeeNumber" binding:"required"`
	Group          *GroupInput `json:"group"`
	GroupID        *uint       `json:"groupId"`
}

// RegisterRequest is the role-branched registration payload.
type RegisterRequest struct {
	Email     string               `json:"email" binding:"required,email"`
	FirstName string               `json:"firstName" binding:"required"`
	LastName  string               `json:"lastName" binding:"required"`
	Password  string               `json:"password" binding:"required,min=8"`
	Role      models.Role          `json:"role" binding:"required,oneof=student teacher"`
	Consent   bool                 `json:"consent"`
	Student   *StudentRegistration `json:"student"`
	Teacher   *TeacherRegistration `json:"teacher"`
}

// RegisterResult reports what registration produced and where the client
// should navigate next.
type RegisterResult struct {
	User    *models.User `json:"user"`
	GroupID *uint        `json:"groupId"`
	Next    string       `json:"next"`
}

// Register upserts the user by email, upserts the role profile, and
// performs the role-specific group step: students enroll in an existing
// group, teachers create a group or join an existing one.
func (s *AuthService) Register(req *RegisterRequest) (*RegisterResult, error) {
	if !req.Consent {
		return nil, fmt.Errorf("%w: consent is required", ErrInvalidInput)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.GetByEmail(req.Email)
	if err == gorm.ErrRecordNotFound {
		user = &models.User{Email: req.Email, PasswordHash: string(passHash), Role: req.Role}
		if err := s.userRepo.Create(user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	} else {
		// Re-registration refreshes the credentials and role.
		user.PasswordHash = string(passHash)
		user.Role = req.Role
		if err := s.userRepo.Update(user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	if req.Role == models.RoleStudent {
		return s.registerStudent(user, req)
	}
	return s.registerTeacher(user, req)
}

func (s *AuthService) registerStudent(user *models.User, req *RegisterRequest) (*RegisterResult, error) {
	if req.Student == nil {
		return nil, fmt.Errorf("%w: missing student data", ErrInvalidInput)
	}

	group, err := s.groupRepo.GetByID(req.Student.GroupID)
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: group %d", ErrNotFound, req.Student.GroupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up group: %w", err)
	}

	profile := &models.StudentProfile{
		UserID:           user.ID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		EnrollmentNumber: req.Student.EnrollmentNumber,
	}
	if err := s.userRepo.UpsertStudentProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to save student profile: %w", err)
	}

	enrolled, err := s.groupRepo.IsEnrolled(group.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		if err := s.groupRepo.Enroll(&models.Enrollment{GroupID: group.ID, StudentID: user.ID}); err != nil {
			return nil, fmt.Errorf("failed to enroll student: %w", err)
		}
	}

	return &RegisterResult{User: user, GroupID: &group.ID, Next: "/student/questionnaire"}, nil
}

func (s *AuthService) registerTeacher(user *models.User, req *RegisterRequest) (*RegisterResult, error) {
	if req.Teacher == nil {
		return nil, fmt.Errorf("%w: missing teacher data", ErrInvalidInput)
	}

	profile := &models.TeacherProfile{
		UserID:         user.ID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		EmployeeNumber: req.Teacher.EmployeeNumber,
	}
	if err := s.userRepo.UpsertTeacherProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to save teacher profile: %w", err)
	}

	var group *models.CourseGroup
	switch req.Teacher.Option {
	case TeacherOptionCreate:
		group = &models.CourseGroup{Subject: "Grupo"}
		if req.Teacher.Group != nil {
			group.Subject = req.Teacher.Group.Subject
			group.Section = req.Teacher.Group.Section
			group.Cohort = req.Teacher.Group.Cohort
		}
		if err := s.groupRepo.Create(group); err != nil {
			return nil, fmt.Errorf("failed to create group: %w", err)
		}
	case TeacherOptionJoin:
		if req.Teacher.GroupID == nil {
			return nil, fmt.Errorf("%w: group id required to join", ErrInvalidInput)
		}
		var err error
		group, err = s.groupRepo.GetByID(*req.Teacher.GroupID)
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: group %d", ErrNotFound, *req.Teacher.GroupID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up group: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown option %q", ErrInvalidInput, req.Teacher.Option)
	}

	assigned, err := s.groupRepo.IsTeacherAssigned(user.ID, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if !assigned {
		if err := s.groupRepo.AssignTeacher(&models.TeacherAssignment{TeacherID: user.ID, GroupID: group.ID}); err != nil {
			return nil, fmt.Errorf("failed to assign teacher: %w", err)
		}
	}

	return &RegisterResult{User: user, GroupID: &group.ID, Next: "/teacher"}, nil
}

// Login verifies the role-specific identifier (enrollment number for
// students, employee number for teachers) and the password.
func (s *AuthService) Login(role models.Role, identifier, password string) (*models.User, error) {
	var user *models.User

	switch role {
	case models.RoleStudent:
		profile, err := s.userRepo.GetStudentProfileByEnrollmentNumber(identifier)
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: student", ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up student: %w", err)
		}
		user = &profile.User
	case models.RoleTeacher:
		profile, err := s.userRepo.GetTeacherProfileByEmployeeNumber(identifier)
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: teacher", ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up teacher: %w", err)
		}
		user = &profile.User
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	if user.Role != role {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Me returns the user with both role profiles preloaded.
func (s *AuthService) Me(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithProfiles(userID)
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}
