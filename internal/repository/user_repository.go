package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"traitlens/internal/models"
)

// UserRepository handles identity records and their role profiles.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByIDWithProfiles(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)

	UpsertStudentProfile(profile *models.StudentProfile) error
	UpsertTeacherProfile(profile *models.TeacherProfile) error
	GetStudentProfileByEnrollmentNumber(number string) (*models.StudentProfile, error)
	GetTeacherProfileByEmployeeNumber(number string) (*models.TeacherProfile, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return r.db.Create(user).Error
}

func (r *userRepository) Update(user *models.User) error { return r.db.Save(user).Error }

func (r *userRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDWithProfiles(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Preload("StudentProfile").Preload("TeacherProfile").First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertStudentProfile creates the student profile on first registration
// and refreshes the mutable fields on re-registration.
func (r *userRepository) UpsertStudentProfile(profile *models.StudentProfile) error {
	var existing models.StudentProfile
	err := r.db.Where("user_id = ?", profile.UserID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		if profile.ID == uuid.Nil {
			profile.ID = uuid.New()
		}
		return r.db.Create(profile).Error
	}
	if err != nil {
		return err
	}
	existing.FirstName = profile.FirstName
	existing.LastName = profile.LastName
	existing.EnrollmentNumber = profile.EnrollmentNumber
	*profile = existing
	return r.db.Save(&existing).Error
}

func (r *userRepository) UpsertTeacherProfile(profile *models.TeacherProfile) error {
	var existing models.TeacherProfile
	err := r.db.Where("user_id = ?", profile.UserID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		if profile.ID == uuid.Nil {
			profile.ID = uuid.New()
		}
		return r.db.Create(profile).Error
	}
	if err != nil {
		return err
	}
	existing.FirstName = profile.FirstName
	existing.LastName = profile.LastName
	existing.EmployeeNumber = profile.EmployeeNumber
	*profile = existing
	return r.db.Save(&existing).Error
}

func (r *userRepository) GetStudentProfileByEnrollmentNumber(number string) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := r.db.Preload("User").Where("enrollment_number = ?", number).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) GetTeacherProfileByEmployeeNumber(number string) (*models.TeacherProfile, error) {
	var profile models.TeacherProfile
	err := r.db.Preload("User").Where("employee_number = ?", number).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
