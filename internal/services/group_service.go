package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"traitlens/internal/models"
	"traitlens/internal/repository"
)

// GroupService handles course groups and the teacher-side aggregation
// views.
type GroupService struct {
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

// NewGroupService creates a new group service.
func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository, profileRepo repository.ProfileRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo, userRepo: userRepo, profileRepo: profileRepo}
}

// List returns all groups for the public registration form.
func (s *GroupService) List() ([]models.CourseGroup, error) {
	return s.groupRepo.List()
}

// GroupSummary is one group in the teacher's listing.
type GroupSummary struct {
	ID            uint   `json:"id"`
	Subject       string `json:"subject"`
	Section       string `json:"section"`
	Cohort        string `json:"cohort"`
	StudentsCount int64  `json:"studentsCount"`
	ProfilesCount int64  `json:"profilesCount"`
}

// ListForTeacher returns the groups assigned to the teacher with
// enrollment and profile counts.
func (s *GroupService) ListForTeacher(teacherID uuid.UUID) ([]GroupSummary, error) {
	groups, err := s.groupRepo.ListByTeacher(teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	summaries := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		students, err := s.groupRepo.CountEnrollments(g.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count enrollments: %w", err)
		}
		profiles, err := s.groupRepo.CountProfiles(g.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count profiles: %w", err)
		}
		summaries = append(summaries, GroupSummary{
			ID:            g.ID,
			Subject:       g.Subject,
			Section:       g.Section,
			Cohort:        g.Cohort,
			StudentsCount: students,
			ProfilesCount: profiles,
		})
	}
	return summaries, nil
}

// Create creates a group and assigns the creating teacher to it.
func (s *GroupService) Create(teacherID uuid.UUID, subject, section, cohort string) (*models.CourseGroup, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	group := &models.CourseGroup{Subject: subject, Section: section, Cohort: cohort}
	if err := s.groupRepo.Create(group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	if err := s.groupRepo.AssignTeacher(&models.TeacherAssignment{TeacherID: teacherID, GroupID: group.ID}); err != nil {
		return nil, fmt.Errorf("failed to assign teacher: %w", err)
	}
	return group, nil
}

// Join attaches the teacher to an existing group. Joining twice is a
// no-op.
func (s *GroupService) Join(teacherID uuid.UUID, groupID uint) (*models.CourseGroup, error) {
	group, err := s.groupRepo.GetByID(groupID)
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: group %d", ErrNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up group: %w", err)
	}

	assigned, err := s.groupRepo.IsTeacherAssigned(teacherID, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if !assigned {
		if err := s.groupRepo.AssignTeacher(&models.TeacherAssignment{TeacherID: teacherID, GroupID: group.ID}); err != nil {
			return nil, fmt.Errorf("failed to assign teacher: %w", err)
		}
	}
	return group, nil
}

// StudentRow is one student in the roster view.
type StudentRow struct {
	StudentID              uuid.UUID     `json:"studentId"`
	FullName               string        `json:"fullName"`
	Answered               bool          `json:"answered"`
	ExtraversionLevel      *models.Level `json:"extraversionLevel"`
	ConscientiousnessLevel *models.Level `json:"conscientiousnessLevel"`
	AgreeablenessLevel     *models.Level `json:"agreeablenessLevel"`
}

// LevelTally counts students per level for one trait.
type LevelTally struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

func (t *LevelTally) add(level *models.Level) {
	if level == nil {
		return
	}
	switch *level {
	case models.LevelLow:
		t.Low++
	case models.LevelMedium:
		t.Medium++
	case models.LevelHigh:
		t.High++
	}
}

// RosterSummary tallies levels for the three populated traits.
type RosterSummary struct {
	Extraversion      LevelTally `json:"extraversion"`
	Conscientiousness LevelTally `json:"conscientiousness"`
	Agreeableness     LevelTally `json:"agreeableness"`
}

// Roster is the per-group teacher view.
type Roster struct {
	Group    *models.CourseGroup `json:"group"`
	Students []StudentRow        `json:"students"`
	Summary  RosterSummary       `json:"summary"`
}

type studentLevels struct {
	extraversion      *models.Level
	conscientiousness *models.Level
	agreeableness     *models.Level
}

// Roster builds the roster and level tally for one group. The teacher
// must be assigned to the group; that check comes first so unknown
// groups also answer 403.
func (s *GroupService) Roster(teacherID uuid.UUID, groupID uint) (*Roster, error) {
	assigned, err := s.groupRepo.IsTeacherAssigned(teacherID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if !assigned {
		return nil, ErrNotAssigned
	}

	group, err := s.groupRepo.GetByID(groupID)
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: group %d", ErrNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up group: %w", err)
	}

	profiles, err := s.profileRepo.ListByGroup(groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	levelsByStudent := make(map[uuid.UUID]*studentLevels)
	summary := RosterSummary{}
	for i := range profiles {
		p := &profiles[i]
		current, ok := levelsByStudent[p.Response.StudentID]
		if !ok {
			current = &studentLevels{}
			levelsByStudent[p.Response.StudentID] = current
		}
		if p.ExtraversionLevel != nil {
			current.extraversion = p.ExtraversionLevel
			summary.Extraversion.add(p.ExtraversionLevel)
		}
		if p.ConscientiousnessLevel != nil {
			current.conscientiousness = p.ConscientiousnessLevel
			summary.Conscientiousness.add(p.ConscientiousnessLevel)
		}
		if p.AgreeablenessLevel != nil {
			current.agreeableness = p.AgreeablenessLevel
			summary.Agreeableness.add(p.AgreeablenessLevel)
		}
	}

	enrollments, err := s.groupRepo.ListEnrollments(groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	students := make([]StudentRow, 0, len(enrollments))
	for _, e := range enrollments {
		fullName := "Sin perfil de alumno"
		if e.Student.StudentProfile != nil {
			fullName = e.Student.StudentProfile.FullName()
		}
		row := StudentRow{StudentID: e.StudentID, FullName: fullName}
		if levels, ok := levelsByStudent[e.StudentID]; ok {
			row.Answered = true
			row.ExtraversionLevel = levels.extraversion
			row.ConscientiousnessLevel = levels.conscientiousness
			row.AgreeablenessLevel = levels.agreeableness
		}
		students = append(students, row)
	}

	return &Roster{Group: group, Students: students, Summary: summary}, nil
}

// StudentDetail is the per-student teacher view with full scores and
// recommendations.
type StudentDetail struct {
	Group   *models.CourseGroup `json:"group"`
	Student struct {
		ID       uuid.UUID `json:"id"`
		Email    string    `json:"email"`
		FullName string    `json:"fullName"`
	} `json:"student"`
	Profile         *ProfileDetail          `json:"profile"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// ProfileDetail flattens the most recent profile for the detail view.
type ProfileDetail struct {
	ExtraversionScore       *float64      `json:"extraversionScore"`
	ExtraversionLevel       *models.Level `json:"extraversionLevel"`
	ConscientiousnessScore  *float64      `json:"conscientiousnessScore"`
	ConscientiousnessLevel  *models.Level `json:"conscientiousnessLevel"`
	AgreeablenessScore      *float64      `json:"agreeablenessScore"`
	AgreeablenessLevel      *models.Level `json:"agreeablenessLevel"`
	EmotionalStabilityScore *float64      `json:"emotionalStabilityScore"`
	EmotionalStabilityLevel *models.Level `json:"emotionalStabilityLevel"`
	OpennessScore           *float64      `json:"opennessScore"`
	OpennessLevel           *models.Level `json:"opennessLevel"`
	ModelVersion            string        `json:"modelVersion"`
	EvaluatedAt             *time.Time    `json:"evaluatedAt"`
	QuestionnaireVersion    string        `json:"questionnaireVersion"`
}

// StudentDetail returns the most recent profile of one student within
// the group, with its recommendations.
func (s *GroupService) StudentDetail(teacherID uuid.UUID, groupID uint, studentID uuid.UUID) (*StudentDetail, error) {
	assigned, err := s.groupRepo.IsTeacherAssigned(teacherID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if !assigned {
		return nil, ErrNotAssigned
	}

	group, err := s.groupRepo.GetByID(groupID)
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: group %d", ErrNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up group: %w", err)
	}

	student, err := s.userRepo.GetByIDWithProfiles(studentID)
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: student", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}

	detail := &StudentDetail{Group: group, Recommendations: []models.Recommendation{}}
	detail.Student.ID = student.ID
	detail.Student.Email = student.Email
	detail.Student.FullName = "Sin nombre registrado"
	if student.StudentProfile != nil {
		detail.Student.FullName = student.StudentProfile.FullName()
	}

	profile, err := s.profileRepo.LatestByStudentInGroup(groupID, studentID)
	if err == gorm.ErrRecordNotFound {
		return detail, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	evaluatedAt := profile.Response.EvaluatedAt
	detail.Profile = &ProfileDetail{
		ExtraversionScore:       profile.ExtraversionScore,
		ExtraversionLevel:       profile.ExtraversionLevel,
		ConscientiousnessScore:  profile.ConscientiousnessScore,
		ConscientiousnessLevel:  profile.ConscientiousnessLevel,
		AgreeablenessScore:      profile.AgreeablenessScore,
		AgreeablenessLevel:      profile.AgreeablenessLevel,
		EmotionalStabilityScore: profile.EmotionalStabilityScore,
		EmotionalStabilityLevel: profile.EmotionalStabilityLevel,
		OpennessScore:           profile.OpennessScore,
		OpennessLevel:           profile.OpennessLevel,
		ModelVersion:            profile.ModelVersion,
		EvaluatedAt:             &evaluatedAt,
		QuestionnaireVersion:    profile.Response.Questionnaire.Version,
	}

	recommendations, err := s.profileRepo.ListRecommendations(profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	detail.Recommendations = recommendations

	return detail, nil
}
