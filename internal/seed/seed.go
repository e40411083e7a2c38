// Package seed fills the store with demo data for development and manual testing.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hustlehub/internal/auth"
	"hustlehub/internal/database"
	"hustlehub/internal/middleware"
	"hustlehub/internal/models"
	"hustlehub/internal/repository"

	"gorm.io/gorm"
)

// DefaultPassword is the password of every generated account.
const DefaultPassword = "password123"

// Options sizes a random seeding run.
type Options struct {
	Users         int
	Opportunities int
	Posts         int
	// MaxApplications caps applications per opportunity.
	MaxApplications int
	// Seed makes runs reproducible when non-zero.
	Seed int64
}

// Result counts what a run created.
type Result struct {
	Users         int
	Opportunities int
	Applications  int
	Posts         int
}

func (r Result) String() string {
	return fmt.Sprintf("%d users, %d opportunities, %d applications, %d posts",
		r.Users, r.Opportunities, r.Applications, r.Posts)
}

// Seeder writes demo data through the repositories inside one transaction per run.
type Seeder struct {
	db            *gorm.DB
	hasher        auth.PasswordHasher
	tx            database.Transactor
	users         repository.UserRepository
	opportunities repository.OpportunityRepository
	applications  repository.ApplicationRepository
	posts         repository.PostRepository
	now           func() time.Time
}

// NewSeeder creates a Seeder over db.
func NewSeeder(db *gorm.DB, hasher auth.PasswordHasher) *Seeder {
	return &Seeder{
		db:            db,
		hasher:        hasher,
		tx:            database.NewTransactor(db),
		users:         repository.NewUserRepository(db),
		opportunities: repository.NewOpportunityRepository(db),
		applications:  repository.NewApplicationRepository(db),
		posts:         repository.NewPostRepository(db),
		now:           time.Now,
	}
}

// ClearAll removes every row the application owns. Children go first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	middleware.Logger.InfoContext(ctx, "clearing existing data")
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		db := database.Conn(ctx, s.db)
		for _, model := range []interface{}{&models.Application{}, &models.Opportunity{}, &models.Post{}, &models.User{}} {
			if err := db.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// SeedFixture loads fx. Either all of it is written or none.
func (s *Seeder) SeedFixture(ctx context.Context, fx *Fixture) (Result, error) {
	var res Result
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		byName := make(map[string]*models.User, len(fx.Users))
		for _, fu := range fx.Users {
			password := fu.Password
			if password == "" {
				password = fx.DefaultPassword
			}
			digest, err := s.hasher.Hash(password)
			if err != nil {
				return err
			}

			mode := models.Mode(fu.Mode)
			if !mode.Valid() {
				mode = models.ModeHustler
			}
			user := &models.User{
				Email:          fu.Email,
				Username:       fu.Username,
				HashedPassword: digest,
				FullName:       fu.FullName,
				Bio:            fu.Bio,
				Skills:         listOrNil(fu.Skills),
				Interests:      listOrNil(fu.Interests),
				Mode:           mode,
				IsActive:       true,
			}
			if err := s.users.Create(ctx, user); err != nil {
				return fmt.Errorf("user %q: %w", fu.Username, err)
			}
			byName[fu.Username] = user
			res.Users++
		}

		for _, fo := range fx.Opportunities {
			status := models.OpportunityStatus(fo.Status)
			if status == "" {
				status = models.OpportunityOpen
			}
			opp := &models.Opportunity{
				Title:          fo.Title,
				Description:    fo.Description,
				RequiredSkills: listOrNil(fo.RequiredSkills),
				BountyAmount:   fo.Bounty,
				Status:         status,
				CreatorID:      byName[fo.Creator].ID,
			}
			if fo.DeadlineDays > 0 {
				deadline := s.now().AddDate(0, 0, fo.DeadlineDays).UTC().Truncate(time.Hour)
				opp.Deadline = &deadline
			}
			if err := s.opportunities.Create(ctx, opp); err != nil {
				return fmt.Errorf("opportunity %q: %w", fo.Title, err)
			}
			res.Opportunities++

			for _, fa := range fo.Applications {
				appStatus := models.ApplicationStatus(fa.Status)
				if appStatus == "" {
					appStatus = models.ApplicationPending
				}
				app := &models.Application{
					OpportunityID: opp.ID,
					ApplicantID:   byName[fa.Applicant].ID,
					Message:       fa.Message,
					Status:        appStatus,
				}
				if err := s.applications.Create(ctx, app); err != nil {
					return fmt.Errorf("application by %q to %q: %w", fa.Applicant, fo.Title, err)
				}
				res.Applications++
			}
		}

		for _, fp := range fx.Posts {
			post := &models.Post{
				AuthorID:   byName[fp.Author].ID,
				Content:    fp.Content,
				LikesCount: fp.Likes,
			}
			if err := s.posts.Create(ctx, post); err != nil {
				return fmt.Errorf("post by %q: %w", fp.Author, err)
			}
			res.Posts++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	middleware.Logger.InfoContext(ctx, "fixture seeded", slog.String("result", res.String()))
	return res, nil
}

// SeedRandom generates opts.Users accounts and spreads opportunities, applications and posts
// across them. Every account gets DefaultPassword.
func (s *Seeder) SeedRandom(ctx context.Context, opts Options) (Result, error) {
	var res Result
	if opts.Users <= 0 {
		if opts.Opportunities > 0 || opts.Posts > 0 {
			return res, fmt.Errorf("cannot create content without users")
		}
		return res, nil
	}
	if opts.MaxApplications <= 0 {
		opts.MaxApplications = 3
	}

	digest, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return res, err
	}

	f := NewFactory(opts.Seed)
	f.now = s.now

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		users := make([]*models.User, 0, opts.Users)
		var builders []*models.User
		for i := 0; i < opts.Users; i++ {
			user := f.BuildUser(func(u *models.User) { u.HashedPassword = digest })
			if err := s.users.Create(ctx, user); err != nil {
				return fmt.Errorf("user %q: %w", user.Username, err)
			}
			users = append(users, user)
			if user.Mode == models.ModeBuilder {
				builders = append(builders, user)
			}
		}
		res.Users = len(users)
		if len(builders) == 0 {
			builders = users
		}

		for i := 0; i < opts.Opportunities; i++ {
			creator := builders[f.Intn(len(builders))]
			opp := f.BuildOpportunity(creator)
			if err := s.opportunities.Create(ctx, opp); err != nil {
				return fmt.Errorf("opportunity %q: %w", opp.Title, err)
			}
			res.Opportunities++

			applied := map[uint]bool{creator.ID: true}
			for n := f.Intn(opts.MaxApplications + 1); n > 0 && len(applied) < len(users); n-- {
				applicant := users[f.Intn(len(users))]
				if applied[applicant.ID] {
					continue
				}
				applied[applicant.ID] = true
				if err := s.applications.Create(ctx, f.BuildApplication(opp, applicant)); err != nil {
					return fmt.Errorf("application to %q: %w", opp.Title, err)
				}
				res.Applications++
			}
		}

		for i := 0; i < opts.Posts; i++ {
			if err := s.posts.Create(ctx, f.BuildPost(users[f.Intn(len(users))])); err != nil {
				return fmt.Errorf("post: %w", err)
			}
			res.Posts++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	middleware.Logger.InfoContext(ctx, "random data seeded", slog.String("result", res.String()))
	return res, nil
}

func listOrNil(items []string) models.StringList {
	if len(items) == 0 {
		return nil
	}
	return models.StringList(append([]string(nil), items...))
}
