package repository

import (
	"context"
	"errors"

	"hustlehub/internal/models"

	"gorm.io/gorm"
)

// ErrAlreadyApplied is the message reported for a second application to one opportunity.
const ErrAlreadyApplied = "Already applied to this opportunity"

// ApplicationRepository defines persistence operations for applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	Exists(ctx context.Context, opportunityID, applicantID uint) (bool, error)
	ListByOpportunity(ctx context.Context, opportunityID uint) ([]models.Application, error)
	ListByCreator(ctx context.Context, creatorID uint) ([]models.Application, error)
	ListByApplicant(ctx context.Context, applicantID uint) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository returns a new ApplicationRepository implementation.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create inserts the application. The (opportunity, applicant) unique index turns a racing duplicate into CONFLICT.
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	if err := conn(ctx, r.db).Create(app).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError(ErrAlreadyApplied)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	if err := conn(ctx, r.db).First(&app, id).Error; err != nil {
		return nil, lookupErr(err, "Application", id)
	}
	return &app, nil
}

func (r *applicationRepository) Exists(ctx context.Context, opportunityID, applicantID uint) (bool, error) {
	var app models.Application
	err := conn(ctx, r.db).
		Select("id").
		Where("opportunity_id = ? AND applicant_id = ?", opportunityID, applicantID).
		Take(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}

func (r *applicationRepository) ListByOpportunity(ctx context.Context, opportunityID uint) ([]models.Application, error) {
	return r.list(conn(ctx, r.db).Where("opportunity_id = ?", opportunityID))
}

// ListByCreator returns applications to every opportunity created by creatorID.
func (r *applicationRepository) ListByCreator(ctx context.Context, creatorID uint) ([]models.Application, error) {
	db := conn(ctx, r.db)
	owned := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Opportunity{}).
		Select("id").
		Where("creator_id = ?", creatorID)
	return r.list(db.Where("opportunity_id IN (?)", owned))
}

func (r *applicationRepository) ListByApplicant(ctx context.Context, applicantID uint) ([]models.Application, error) {
	return r.list(conn(ctx, r.db).Where("applicant_id = ?", applicantID))
}

func (r *applicationRepository) list(q *gorm.DB) ([]models.Application, error) {
	apps := []models.Application{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&apps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return apps, nil
}

// UpdateStatus overwrites the status column only.
func (r *applicationRepository) UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus) error {
	result := conn(ctx, r.db).Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Application", id)
	}
	return nil
}
