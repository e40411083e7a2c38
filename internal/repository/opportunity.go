package repository

import (
	"context"

	"hustlehub/internal/models"

	"gorm.io/gorm"
)

// OpportunityRepository defines persistence operations for opportunities.
type OpportunityRepository interface {
	Create(ctx context.Context, opp *models.Opportunity) error
	GetByID(ctx context.Context, id uint) (*models.Opportunity, error)
	Update(ctx context.Context, opp *models.Opportunity) error
	Delete(ctx context.Context, id uint) error
	// List pages newest first. offset and limit are used as given.
	List(ctx context.Context, status string, offset, limit int) ([]models.Opportunity, error)
}

type opportunityRepository struct {
	db *gorm.DB
}

// NewOpportunityRepository returns a new OpportunityRepository implementation.
func NewOpportunityRepository(db *gorm.DB) OpportunityRepository {
	return &opportunityRepository{db: db}
}

func (r *opportunityRepository) Create(ctx context.Context, opp *models.Opportunity) error {
	if err := conn(ctx, r.db).Create(opp).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *opportunityRepository) GetByID(ctx context.Context, id uint) (*models.Opportunity, error) {
	var opp models.Opportunity
	if err := conn(ctx, r.db).First(&opp, id).Error; err != nil {
		return nil, lookupErr(err, "Opportunity", id)
	}
	return &opp, nil
}

func (r *opportunityRepository) Update(ctx context.Context, opp *models.Opportunity) error {
	if err := conn(ctx, r.db).Save(opp).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the opportunity together with its applications.
func (r *opportunityRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("opportunity_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		result := tx.Delete(&models.Opportunity{}, id)
		if result.Error != nil {
			return models.NewInternalError(result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Opportunity", id)
		}
		return nil
	})
}

// List returns opportunities newest first, optionally filtered by exact status.
func (r *opportunityRepository) List(ctx context.Context, status string, offset, limit int) ([]models.Opportunity, error) {
	q := conn(ctx, r.db)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var opps []models.Opportunity
	if err := q.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&opps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return opps, nil
}
