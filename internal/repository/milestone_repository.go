package repository

import (
	"github.com/harukimoto/governance-ledger/internal/models"
	"gorm.io/gorm"
)

// GormMilestoneRepository is a GORM implementation of MilestoneRepository
type GormMilestoneRepository struct {
	db *gorm.DB
}

// NewMilestoneRepository creates a new MilestoneRepository
func NewMilestoneRepository(db *gorm.DB) MilestoneRepository {
	return &GormMilestoneRepository{db: db}
}

// Create allocates the next milestone ID from the owning project's counter
// and inserts the milestone. The counter update and the insert commit
// together, so a failure leaves the counter untouched.
func (r *GormMilestoneRepository) Create(milestone *models.Milestone) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, milestone.ProjectID).Error; err != nil {
			return err
		}

		milestone.MilestoneID = project.MilestoneCount + 1

		if err := tx.Create(milestone).Error; err != nil {
			return err
		}

		return tx.Model(&models.Project{}).
			Where("id = ?", milestone.ProjectID).
			Update("milestone_count", milestone.MilestoneID).Error
	})
}

// FindByID finds a milestone by its scoped identifier
func (r *GormMilestoneRepository) FindByID(projectID, milestoneID uint64) (*models.Milestone, error) {
	var milestone models.Milestone
	if err := r.db.Where("project_id = ? AND milestone_id = ?", projectID, milestoneID).
		First(&milestone).Error; err != nil {
		return nil, err
	}
	return &milestone, nil
}

// Update updates a milestone
func (r *GormMilestoneRepository) Update(milestone *models.Milestone) error {
	return r.db.Save(milestone).Error
}

// ListByProject lists all milestones of a project
func (r *GormMilestoneRepository) ListByProject(projectID uint64) ([]models.Milestone, error) {
	var milestones []models.Milestone
	if err := r.db.Where("project_id = ?", projectID).
		Order("milestone_id ASC").
		Find(&milestones).Error; err != nil {
		return nil, err
	}
	return milestones, nil
}

// ListByDeadlineRange lists milestones whose deadline falls in [from, to]
func (r *GormMilestoneRepository) ListByDeadlineRange(projectID, from, to uint64) ([]models.Milestone, error) {
	var milestones []models.Milestone
	if err := r.db.Where("project_id = ? AND deadline >= ? AND deadline <= ?", projectID, from, to).
		Order("deadline ASC").
		Find(&milestones).Error; err != nil {
		return nil, err
	}
	return milestones, nil
}
