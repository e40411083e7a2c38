package seed

import (
	"fmt"
	"strings"
	"time"

	"hustlehub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

var skillPool = []string{
	"go", "python", "react", "typescript", "postgres", "figma", "copywriting",
	"seo", "swift", "kotlin", "tailwind", "devops", "video-editing", "illustration",
}

var interestPool = []string{
	"climbing", "chess", "cooking", "photography", "cycling", "gaming", "gardening",
	"jazz", "running", "travel",
}

// Factory builds plausible domain entities. It never touches the store.
type Factory struct {
	faker *gofakeit.Faker
	now   func() time.Time
	seq   int
}

// NewFactory creates a Factory. A zero seed picks a random one.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed), now: time.Now}
}

// BuildUser returns an active user whose password digest is set by the caller.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	f.seq++
	first := f.faker.FirstName()
	last := f.faker.LastName()
	username := fmt.Sprintf("%s%s%d", strings.ToLower(first[:1]), strings.ToLower(last), f.seq*1000+f.faker.Number(100, 999))
	username = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, username)

	mode := models.ModeHustler
	if f.faker.Number(1, 3) == 1 {
		mode = models.ModeBuilder
	}

	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FullName:     first + " " + last,
		Bio:          f.faker.Sentence(12),
		Skills:       f.pick(skillPool, 1, 4),
		Interests:    f.pick(interestPool, 0, 3),
		ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
		Mode:         mode,
		IsActive:     true,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// BuildOpportunity returns an open opportunity owned by creator.
func (f *Factory) BuildOpportunity(creator *models.User, overrides ...func(*models.Opportunity)) *models.Opportunity {
	title := fmt.Sprintf("%s %s for %s", capitalize(f.faker.HackerVerb()), f.faker.HackerNoun(), f.faker.Company())
	opp := &models.Opportunity{
		Title:          truncate(title, 200),
		Description:    f.faker.Paragraph(1, 3, 12, " "),
		RequiredSkills: f.pick(skillPool, 1, 3),
		Status:         models.OpportunityOpen,
		CreatorID:      creator.ID,
	}

	// Roughly one in four has no bounty or no deadline.
	if f.faker.Number(1, 4) > 1 {
		bounty := f.faker.Number(1, 40) * 50
		opp.BountyAmount = &bounty
	}
	if f.faker.Number(1, 4) > 1 {
		deadline := f.now().Add(time.Duration(f.faker.Number(3, 60)) * 24 * time.Hour).UTC().Truncate(time.Hour)
		opp.Deadline = &deadline
	}

	for _, override := range overrides {
		override(opp)
	}
	return opp
}

// BuildApplication returns a pending application from applicant to opp.
func (f *Factory) BuildApplication(opp *models.Opportunity, applicant *models.User) *models.Application {
	return &models.Application{
		OpportunityID: opp.ID,
		ApplicantID:   applicant.ID,
		Message:       f.faker.Sentence(f.faker.Number(8, 20)),
		Status:        models.ApplicationPending,
	}
}

// BuildPost returns a post by author with a random like count.
func (f *Factory) BuildPost(author *models.User) *models.Post {
	return &models.Post{
		AuthorID:   author.ID,
		Content:    f.faker.Paragraph(1, 2, 10, " "),
		LikesCount: f.faker.Number(0, 25),
	}
}

// Intn returns a value in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

// pick returns between lo and hi distinct entries of pool.
func (f *Factory) pick(pool []string, lo, hi int) models.StringList {
	n := f.faker.Number(lo, hi)
	if n == 0 {
		return nil
	}
	shuffled := append([]string(nil), pool...)
	f.faker.ShuffleStrings(shuffled)
	return models.StringList(shuffled[:n])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
