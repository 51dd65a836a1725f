package repository

import (
	"github.com/harukimoto/governance-ledger/internal/database"
	"github.com/harukimoto/governance-ledger/internal/models"
	"github.com/harukimoto/governance-ledger/internal/utils"
	"gorm.io/gorm"
)

// GormCommunicationRepository is a GORM implementation of CommunicationRepository
type GormCommunicationRepository struct {
	db *gorm.DB
}

// NewCommunicationRepository creates a new CommunicationRepository
func NewCommunicationRepository(db *gorm.DB) CommunicationRepository {
	return &GormCommunicationRepository{db: db}
}

// Append allocates the next communication ID from the project's counter and
// inserts the entry. The log has no update or delete path.
func (r *GormCommunicationRepository) Append(comm *models.Communication) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, comm.ProjectID).Error; err != nil {
			return err
		}

		comm.CommID = project.CommunicationCount + 1

		if err := tx.Create(comm).Error; err != nil {
			return err
		}

		return tx.Model(&models.Project{}).
			Where("id = ?", comm.ProjectID).
			Update("communication_count", comm.CommID).Error
	})
}

// ListByProject lists a project's log entries, newest first, paginated
func (r *GormCommunicationRepository) ListByProject(projectID uint64, params utils.PaginationParams) ([]models.Communication, int64, error) {
	var comms []models.Communication

	query := r.db.Model(&models.Communication{}).Where("project_id = ?", projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("comm_id DESC").
		Scopes(database.Paginate(params)).
		Find(&comms).Error; err != nil {
		return nil, 0, err
	}

	return comms, total, nil
}
