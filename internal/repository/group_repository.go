package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"traitlens/internal/models"
)

// GroupRepository handles course groups, teacher assignments and student
// enrollments.
type GroupRepository interface {
	Create(group *models.CourseGroup) error
	GetByID(id uint) (*models.CourseGroup, error)
	List() ([]models.CourseGroup, error)

	AssignTeacher(assignment *models.TeacherAssignment) error
	IsTeacherAssigned(teacherID uuid.UUID, groupID uint) (bool, error)
	ListByTeacher(teacherID uuid.UUID) ([]models.CourseGroup, error)

	Enroll(enrollment *models.Enrollment) error
	IsEnrolled(groupID uint, studentID uuid.UUID) (bool, error)
	FirstEnrollmentByStudent(studentID uuid.UUID) (*models.Enrollment, error)
	ListEnrollments(groupID uint) ([]models.Enrollment, error)

	CountEnrollments(groupID uint) (int64, error)
	CountProfiles(groupID uint) (int64, error)
}

type groupRepository struct{ db *gorm.DB }

// NewGroupRepository creates a new group repository.
func NewGroupRepository(db *gorm.DB) GroupRepository { return &groupRepository{db: db} }

func (r *groupRepository) Create(group *models.CourseGroup) error {
	return r.db.Create(group).Error
}

func (r *groupRepository) GetByID(id uint) (*models.CourseGroup, error) {
	var g models.CourseGroup
	err := r.db.First(&g, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns every group ordered by cohort then subject, for the
// registration form.
func (r *groupRepository) List() ([]models.CourseGroup, error) {
	var gs []models.CourseGroup
	err := r.db.Order("cohort ASC, subject ASC").Find(&gs).Error
	return gs, err
}

func (r *groupRepository) AssignTeacher(assignment *models.TeacherAssignment) error {
	return r.db.Create(assignment).Error
}

func (r *groupRepository) IsTeacherAssigned(teacherID uuid.UUID, groupID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.TeacherAssignment{}).
		Where("teacher_id = ? AND group_id = ?", teacherID, groupID).Count(&count).Error
	return count > 0, err
}

func (r *groupRepository) ListByTeacher(teacherID uuid.UUID) ([]models.CourseGroup, error) {
	var gs []models.CourseGroup
	err := r.db.
		Joins("JOIN teacher_assignments ON teacher_assignments.group_id = course_groups.id").
		Where("teacher_assignments.teacher_id = ?", teacherID).
		Order("course_groups.created_at DESC").
		Find(&gs).Error
	return gs, err
}

func (r *groupRepository) Enroll(enrollment *models.Enrollment) error {
	return r.db.Create(enrollment).Error
}

func (r *groupRepository) IsEnrolled(groupID uint, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Enrollment{}).
		Where("group_id = ? AND student_id = ?", groupID, studentID).Count(&count).Error
	return count > 0, err
}

// FirstEnrollmentByStudent returns the student's oldest enrollment; the
// questionnaire submission is scoped to that group.
func (r *groupRepository) FirstEnrollmentByStudent(studentID uuid.UUID) (*models.Enrollment, error) {
	var e models.Enrollment
	err := r.db.Where("student_id = ?", studentID).Order("id ASC").First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *groupRepository) ListEnrollments(groupID uint) ([]models.Enrollment, error) {
	var es []models.Enrollment
	err := r.db.Preload("Student.StudentProfile").Where("group_id = ?", groupID).Find(&es).Error
	return es, err
}

func (r *groupRepository) CountEnrollments(groupID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Enrollment{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}

func (r *groupRepository) CountProfiles(groupID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}
