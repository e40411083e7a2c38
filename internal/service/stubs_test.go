package service

import (
	"context"
	"errors"
	"testing"

	"hustlehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// txStub runs the unit of work inline.
type txStub struct {
	calls int
}

func (s *txStub) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	s.calls++
	return fn(ctx)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	listOthersFn    func(context.Context, uint, *models.Mode, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) ListOthers(ctx context.Context, excludeID uint, mode *models.Mode, offset, limit int) ([]models.User, error) {
	return s.listOthersFn(ctx, excludeID, mode, offset, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		listOthersFn: func(_ context.Context, _ uint, _ *models.Mode, _, _ int) ([]models.User, error) {
			return nil, nil
		},
	}
}

// opportunityRepoStub is a stub for repository.OpportunityRepository.
type opportunityRepoStub struct {
	createFn  func(context.Context, *models.Opportunity) error
	getByIDFn func(context.Context, uint) (*models.Opportunity, error)
	updateFn  func(context.Context, *models.Opportunity) error
	deleteFn  func(context.Context, uint) error
	listFn    func(context.Context, string, int, int) ([]models.Opportunity, error)
}

func (s *opportunityRepoStub) Create(ctx context.Context, opp *models.Opportunity) error {
	return s.createFn(ctx, opp)
}
func (s *opportunityRepoStub) GetByID(ctx context.Context, id uint) (*models.Opportunity, error) {
	return s.getByIDFn(ctx, id)
}
func (s *opportunityRepoStub) Update(ctx context.Context, opp *models.Opportunity) error {
	return s.updateFn(ctx, opp)
}
func (s *opportunityRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *opportunityRepoStub) List(ctx context.Context, status string, offset, limit int) ([]models.Opportunity, error) {
	return s.listFn(ctx, status, offset, limit)
}

func noopOpportunityRepo() *opportunityRepoStub {
	return &opportunityRepoStub{
		createFn: func(_ context.Context, _ *models.Opportunity) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Opportunity, error) {
			return &models.Opportunity{ID: id, CreatorID: 1, Status: models.OpportunityOpen}, nil
		},
		updateFn: func(_ context.Context, _ *models.Opportunity) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		listFn: func(_ context.Context, _ string, _, _ int) ([]models.Opportunity, error) {
			return nil, nil
		},
	}
}

// applicationRepoStub is a stub for repository.ApplicationRepository.
type applicationRepoStub struct {
	createFn            func(context.Context, *models.Application) error
	getByIDFn           func(context.Context, uint) (*models.Application, error)
	existsFn            func(context.Context, uint, uint) (bool, error)
	listByOpportunityFn func(context.Context, uint) ([]models.Application, error)
	listByCreatorFn     func(context.Context, uint) ([]models.Application, error)
	listByApplicantFn   func(context.Context, uint) ([]models.Application, error)
	updateStatusFn      func(context.Context, uint, models.ApplicationStatus) error
}

func (s *applicationRepoStub) Create(ctx context.Context, app *models.Application) error {
	return s.createFn(ctx, app)
}
func (s *applicationRepoStub) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	return s.getByIDFn(ctx, id)
}
func (s *applicationRepoStub) Exists(ctx context.Context, opportunityID, applicantID uint) (bool, error) {
	return s.existsFn(ctx, opportunityID, applicantID)
}
func (s *applicationRepoStub) ListByOpportunity(ctx context.Context, opportunityID uint) ([]models.Application, error) {
	return s.listByOpportunityFn(ctx, opportunityID)
}
func (s *applicationRepoStub) ListByCreator(ctx context.Context, creatorID uint) ([]models.Application, error) {
	return s.listByCreatorFn(ctx, creatorID)
}
func (s *applicationRepoStub) ListByApplicant(ctx context.Context, applicantID uint) ([]models.Application, error) {
	return s.listByApplicantFn(ctx, applicantID)
}
func (s *applicationRepoStub) UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus) error {
	return s.updateStatusFn(ctx, id, status)
}

func noopApplicationRepo() *applicationRepoStub {
	empty := func(_ context.Context, _ uint) ([]models.Application, error) { return []models.Application{}, nil }
	return &applicationRepoStub{
		createFn: func(_ context.Context, _ *models.Application) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Application, error) {
			return &models.Application{ID: id, OpportunityID: 1, ApplicantID: 2, Status: models.ApplicationPending}, nil
		},
		existsFn:            func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listByOpportunityFn: empty,
		listByCreatorFn:     empty,
		listByApplicantFn:   empty,
		updateStatusFn:      func(_ context.Context, _ uint, _ models.ApplicationStatus) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint) (*models.Post, error)
	listFn           func(context.Context, int, int) ([]models.Post, error)
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) error
	incrementLikesFn func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, offset, limit int) ([]models.Post, error) {
	return s.listFn(ctx, offset, limit)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IncrementLikes(ctx context.Context, id uint) error {
	return s.incrementLikesFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1, Content: "hello"}, nil
		},
		listFn:           func(_ context.Context, _, _ int) ([]models.Post, error) { return nil, nil },
		updateFn:         func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
		incrementLikesFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// assertCode asserts that err is an AppError carrying code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
