package service

import (
	"context"
	"time"

	"hustlehub/internal/database"
	"hustlehub/internal/featureflags"
	"hustlehub/internal/middleware"
	"hustlehub/internal/models"
	"hustlehub/internal/observability"
	"hustlehub/internal/repository"
	"hustlehub/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// OpportunityService runs the opportunity and application workflow.
type OpportunityService struct {
	opportunities repository.OpportunityRepository
	applications  repository.ApplicationRepository
	tx            database.Transactor
	flags         *featureflags.Manager
}

// OpportunityInput is the full writable state of an opportunity. Create and update share it.
// An empty skill list is stored as absent.
type OpportunityInput struct {
	Title          string
	Description    string
	RequiredSkills []string
	BountyAmount   *int
	Deadline       *time.Time
}

func NewOpportunityService(
	opportunities repository.OpportunityRepository,
	applications repository.ApplicationRepository,
	tx database.Transactor,
	flags *featureflags.Manager,
) *OpportunityService {
	return &OpportunityService{
		opportunities: opportunities,
		applications:  applications,
		tx:            tx,
		flags:         flags,
	}
}

func (in OpportunityInput) validate() error {
	var errs validation.Errors
	errs.Check("title", validation.ValidateTitle(in.Title))
	errs.Check("description", validation.ValidateDescription(in.Description))
	return errs.Err()
}

func (in OpportunityInput) apply(opp *models.Opportunity) {
	opp.Title = in.Title
	opp.Description = in.Description
	opp.RequiredSkills = nil
	if len(in.RequiredSkills) > 0 {
		opp.RequiredSkills = listOf(in.RequiredSkills)
	}
	opp.BountyAmount = in.BountyAmount
	opp.Deadline = in.Deadline
}

func (s *OpportunityService) enforceModes(userID uint) bool {
	return s.flags.Enabled(featureflags.EnforceModes, userID)
}

// CreateOpportunity posts a new open opportunity owned by creator.
func (s *OpportunityService) CreateOpportunity(ctx context.Context, creator *models.User, in OpportunityInput) (*models.Opportunity, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if s.enforceModes(creator.ID) && creator.Mode != models.ModeBuilder {
		return nil, models.NewForbiddenError("Only builders can post opportunities")
	}

	opp := &models.Opportunity{
		Status:    models.OpportunityOpen,
		CreatorID: creator.ID,
	}
	in.apply(opp)

	if err := s.opportunities.Create(ctx, opp); err != nil {
		return nil, err
	}
	return opp, nil
}

func (s *OpportunityService) ListOpportunities(ctx context.Context, status string, page Page) ([]models.Opportunity, error) {
	page = page.Normalize()
	opps, err := s.opportunities.List(ctx, status, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	if opps == nil {
		opps = []models.Opportunity{}
	}
	return opps, nil
}

func (s *OpportunityService) GetOpportunity(ctx context.Context, id uint) (*models.Opportunity, error) {
	return s.opportunities.GetByID(ctx, id)
}

// owned loads the opportunity and checks that actorID created it.
func (s *OpportunityService) owned(ctx context.Context, actorID, id uint, action string) (*models.Opportunity, error) {
	opp, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if opp.CreatorID != actorID {
		return nil, models.NewForbiddenError("Not authorized to " + action + " this opportunity")
	}
	return opp, nil
}

// UpdateOpportunity replaces the writable fields of an opportunity the actor created.
func (s *OpportunityService) UpdateOpportunity(ctx context.Context, actorID, id uint, in OpportunityInput) (*models.Opportunity, error) {
	var updated *models.Opportunity
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		opp, err := s.owned(ctx, actorID, id, "update")
		if err != nil {
			return err
		}
		if err := in.validate(); err != nil {
			return err
		}
		in.apply(opp)
		if err := s.opportunities.Update(ctx, opp); err != nil {
			return err
		}
		updated = opp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOpportunity removes an opportunity the actor created along with its applications.
func (s *OpportunityService) DeleteOpportunity(ctx context.Context, actorID, id uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.owned(ctx, actorID, id, "delete"); err != nil {
			return err
		}
		return s.opportunities.Delete(ctx, id)
	})
}

// Apply submits a pending application. A second application by the same user is a conflict.
func (s *OpportunityService) Apply(ctx context.Context, applicant *models.User, opportunityID uint, message string) (app *models.Application, err error) {
	ctx, span := observability.StartSpan(ctx, "OpportunityService.Apply",
		attribute.Int64("opportunity.id", int64(opportunityID)),
		attribute.Int64("user.id", int64(applicant.ID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	var errs validation.Errors
	errs.Check("message", validation.ValidateMessage(message))
	if err := errs.Err(); err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.opportunities.GetByID(ctx, opportunityID); err != nil {
			return err
		}
		if s.enforceModes(applicant.ID) && applicant.Mode != models.ModeHustler {
			return models.NewForbiddenError("Only hustlers can apply to opportunities")
		}

		exists, err := s.applications.Exists(ctx, opportunityID, applicant.ID)
		if err != nil {
			return err
		}
		if exists {
			return models.NewConflictError(repository.ErrAlreadyApplied)
		}

		created := &models.Application{
			OpportunityID: opportunityID,
			ApplicantID:   applicant.ID,
			Message:       message,
			Status:        models.ApplicationPending,
		}
		if err := s.applications.Create(ctx, created); err != nil {
			return err
		}
		app = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.ApplicationsCreated.Inc()
	middleware.Logger.InfoContext(ctx, "application submitted",
		"application_id", app.ID,
		"opportunity_id", opportunityID,
	)
	return app, nil
}

// ListApplicationsForOpportunity lists the applications to one of the actor's opportunities.
func (s *OpportunityService) ListApplicationsForOpportunity(ctx context.Context, actorID, opportunityID uint) ([]models.Application, error) {
	if _, err := s.owned(ctx, actorID, opportunityID, "view applications for"); err != nil {
		return nil, err
	}
	return s.applications.ListByOpportunity(ctx, opportunityID)
}

// ListMyCreatedOpportunityApplications lists applications across every opportunity the actor created.
func (s *OpportunityService) ListMyCreatedOpportunityApplications(ctx context.Context, actorID uint) ([]models.Application, error) {
	return s.applications.ListByCreator(ctx, actorID)
}

// ListMyApplications lists the applications the actor submitted.
func (s *OpportunityService) ListMyApplications(ctx context.Context, actorID uint) ([]models.Application, error) {
	return s.applications.ListByApplicant(ctx, actorID)
}

// SetApplicationStatus records the creator's decision on an application.
// Checks run in a fixed order: existence, then ownership, then the status value.
func (s *OpportunityService) SetApplicationStatus(ctx context.Context, actorID, applicationID uint, status string) (app *models.Application, err error) {
	ctx, span := observability.StartSpan(ctx, "OpportunityService.SetApplicationStatus",
		attribute.Int64("application.id", int64(applicationID)),
		attribute.String("application.status", status),
	)
	defer func() { observability.EndSpan(span, err) }()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		found, err := s.applications.GetByID(ctx, applicationID)
		if err != nil {
			return err
		}
		opp, err := s.opportunities.GetByID(ctx, found.OpportunityID)
		if err != nil {
			return err
		}
		if opp.CreatorID != actorID {
			return models.NewForbiddenError("Not authorized to update this application")
		}

		next := models.ApplicationStatus(status)
		if !next.Decision() {
			return models.NewInvalidStatusError(status)
		}
		if err := s.applications.UpdateStatus(ctx, found.ID, next); err != nil {
			return err
		}
		found.Status = next
		app = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.ApplicationTransitions.WithLabelValues(status).Inc()
	return app, nil
}
