package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"traitlens/internal/models"
)

// ProfileRepository handles derived trait profiles and their
// recommendations.
type ProfileRepository interface {
	Create(profile *models.Profile) error
	LatestByStudent(studentID uuid.UUID) (*models.Profile, error)
	LatestByStudentInGroup(groupID uint, studentID uuid.UUID) (*models.Profile, error)
	ListByGroup(groupID uint) ([]models.Profile, error)

	CreateRecommendations(recommendations []models.Recommendation) error
	ListRecommendations(profileID uint) ([]models.Recommendation, error)
}

type profileRepository struct{ db *gorm.DB }

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository { return &profileRepository{db: db} }

func (r *profileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// LatestByStudent returns the most recently created profile across all
// groups, found through the response owning it. Used as the clone source
// when the student joins another group.
func (r *profileRepository) LatestByStudent(studentID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := r.db.
		Joins("JOIN responses ON responses.id = profiles.response_id").
		Where("responses.student_id = ?", studentID).
		Order("profiles.created_at DESC, profiles.id DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) LatestByStudentInGroup(groupID uint, studentID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := r.db.
		Preload("Response.Questionnaire").
		Joins("JOIN responses ON responses.id = profiles.response_id").
		Where("profiles.group_id = ? AND responses.student_id = ?", groupID, studentID).
		Order("profiles.created_at DESC, profiles.id DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) ListByGroup(groupID uint) ([]models.Profile, error) {
	var ps []models.Profile
	err := r.db.Preload("Response").Where("group_id = ?", groupID).Find(&ps).Error
	return ps, err
}

func (r *profileRepository) CreateRecommendations(recommendations []models.Recommendation) error {
	if len(recommendations) == 0 {
		return nil
	}
	return r.db.Create(&recommendations).Error
}

func (r *profileRepository) ListRecommendations(profileID uint) ([]models.Recommendation, error) {
	var rs []models.Recommendation
	err := r.db.Where("profile_id = ?", profileID).Order("id ASC").Find(&rs).Error
	return rs, err
}
