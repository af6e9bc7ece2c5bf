package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"traitlens/internal/models"
	"traitlens/internal/repository"
)

// EnrollmentService handles a student joining additional course groups,
// including carrying an existing trait profile over to the new group.
type EnrollmentService struct {
	db          *gorm.DB
	groupRepo   repository.GroupRepository
	profileRepo repository.ProfileRepository
}

// NewEnrollmentService creates a new enrollment service. It holds the db
// handle directly because the join writes (enrollment, cloned profile,
// cloned recommendations) run inside one transaction.
func NewEnrollmentService(db *gorm.DB, groupRepo repository.GroupRepository, profileRepo repository.ProfileRepository) *EnrollmentService {
	return &EnrollmentService{db: db, groupRepo: groupRepo, profileRepo: profileRepo}
}

// JoinResult reports the joined group and whether an existing profile
// was carried over.
type JoinResult struct {
	Group  *models.CourseGroup `json:"group"`
	Cloned bool                `json:"cloned"`
}

// JoinGroup enrolls the student in the group and, when the student
// already has a profile in any group, clones the most recent one plus
// all its recommendations into the new group. The clone shares the
// original Response; profile and recommendation rows get new ids.
func (s *EnrollmentService) JoinGroup(studentID uuid.UUID, groupID uint) (*JoinResult, error) {
	group, err := s.groupRepo.GetByID(groupID)
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: group %d", ErrNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up group: %w", err)
	}

	enrolled, err := s.groupRepo.IsEnrolled(group.ID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	source, err := s.profileRepo.LatestByStudent(studentID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	cloned := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Enrollment{GroupID: group.ID, StudentID: studentID}).Error; err != nil {
			return fmt.Errorf("failed to enroll student: %w", err)
		}
		if source == nil {
			return nil
		}

		clone := models.Profile{
			ResponseID:              source.ResponseID,
			GroupID:                 group.ID,
			ExtraversionScore:       source.ExtraversionScore,
			AgreeablenessScore:      source.AgreeablenessScore,
			ConscientiousnessScore:  source.ConscientiousnessScore,
			EmotionalStabilityScore: source.EmotionalStabilityScore,
			OpennessScore:           source.OpennessScore,
			ExtraversionLevel:       source.ExtraversionLevel,
			AgreeablenessLevel:      source.AgreeablenessLevel,
			ConscientiousnessLevel:  source.ConscientiousnessLevel,
			EmotionalStabilityLevel: source.EmotionalStabilityLevel,
			OpennessLevel:           source.OpennessLevel,
			ModelVersion:            source.ModelVersion,
		}
		if err := tx.Create(&clone).Error; err != nil {
			return fmt.Errorf("failed to clone profile: %w", err)
		}

		var recommendations []models.Recommendation
		if err := tx.Where("profile_id = ?", source.ID).Order("id ASC").Find(&recommendations).Error; err != nil {
			return fmt.Errorf("failed to load recommendations: %w", err)
		}
		for i := range recommendations {
			recommendations[i].ID = 0
			recommendations[i].ProfileID = clone.ID
			recommendations[i].CreatedAt = time.Time{}
		}
		if len(recommendations) > 0 {
			if err := tx.Create(&recommendations).Error; err != nil {
				return fmt.Errorf("failed to clone recommendations: %w", err)
			}
		}
		cloned = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &JoinResult{Group: group, Cloned: cloned}, nil
}
