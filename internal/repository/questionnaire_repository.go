package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"traitlens/internal/models"
)

// QuestionnaireRepository handles questionnaire definitions and raw
// answer submissions.
type QuestionnaireRepository interface {
	GetActive() (*models.Questionnaire, error)
	GetByID(id uint) (*models.Questionnaire, error)
	EnsureActive(version string) (*models.Questionnaire, error)

	CreateResponse(response *models.Response) error
	GetResponse(questionnaireID uint, studentID uuid.UUID) (*models.Response, error)
}

type questionnaireRepository struct{ db *gorm.DB }

// NewQuestionnaireRepository creates a new questionnaire repository.
func NewQuestionnaireRepository(db *gorm.DB) QuestionnaireRepository {
	return &questionnaireRepository{db: db}
}

func (r *questionnaireRepository) GetActive() (*models.Questionnaire, error) {
	var q models.Questionnaire
	err := r.db.Where("active = ?", true).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionnaireRepository) GetByID(id uint) (*models.Questionnaire, error) {
	var q models.Questionnaire
	err := r.db.First(&q, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// EnsureActive creates the questionnaire for the given version when none
// is active yet, so a fresh database is immediately usable.
func (r *questionnaireRepository) EnsureActive(version string) (*models.Questionnaire, error) {
	var q models.Questionnaire
	err := r.db.Where("active = ?", true).First(&q).Error
	if err == nil {
		return &q, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	q = models.Questionnaire{Version: version, Active: true}
	if err := r.db.Create(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionnaireRepository) CreateResponse(response *models.Response) error {
	return r.db.Create(response).Error
}

func (r *questionnaireRepository) GetResponse(questionnaireID uint, studentID uuid.UUID) (*models.Response, error) {
	var resp models.Response
	err := r.db.Where("questionnaire_id = ? AND student_id = ?", questionnaireID, studentID).First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
