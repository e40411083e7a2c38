package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/demo.yml
var demoFixture []byte

// Fixture is a hand-written data set keyed by username.
type Fixture struct {
	DefaultPassword string               `yaml:"default_password"`
	Users           []FixtureUser        `yaml:"users"`
	Opportunities   []FixtureOpportunity `yaml:"opportunities"`
	Posts           []FixturePost        `yaml:"posts"`
}

type FixtureUser struct {
	Username  string   `yaml:"username"`
	Email     string   `yaml:"email"`
	FullName  string   `yaml:"full_name"`
	Password  string   `yaml:"password"`
	Mode      string   `yaml:"mode"`
	Bio       string   `yaml:"bio"`
	Skills    []string `yaml:"skills"`
	Interests []string `yaml:"interests"`
}

type FixtureOpportunity struct {
	Creator        string               `yaml:"creator"`
	Title          string               `yaml:"title"`
	Description    string               `yaml:"description"`
	RequiredSkills []string             `yaml:"required_skills"`
	Bounty         *int                 `yaml:"bounty"`
	DeadlineDays   int                  `yaml:"deadline_days"`
	Status         string               `yaml:"status"`
	Applications   []FixtureApplication `yaml:"applications"`
}

type FixtureApplication struct {
	Applicant string `yaml:"applicant"`
	Message   string `yaml:"message"`
	Status    string `yaml:"status"`
}

type FixturePost struct {
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
	Likes   int    `yaml:"likes"`
}

// LoadFixture decodes a YAML fixture and checks that every reference resolves.
func LoadFixture(raw []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// DemoFixture returns the embedded demo data set.
func DemoFixture() (*Fixture, error) {
	return LoadFixture(demoFixture)
}

func (fx *Fixture) validate() error {
	known := make(map[string]bool, len(fx.Users))
	for _, u := range fx.Users {
		if u.Username == "" || u.Email == "" {
			return fmt.Errorf("fixture user needs username and email")
		}
		if known[u.Username] {
			return fmt.Errorf("fixture user %q defined twice", u.Username)
		}
		if u.Password == "" && fx.DefaultPassword == "" {
			return fmt.Errorf("fixture user %q has no password", u.Username)
		}
		known[u.Username] = true
	}

	for _, o := range fx.Opportunities {
		if !known[o.Creator] {
			return fmt.Errorf("opportunity %q: unknown creator %q", o.Title, o.Creator)
		}
		for _, a := range o.Applications {
			if !known[a.Applicant] {
				return fmt.Errorf("opportunity %q: unknown applicant %q", o.Title, a.Applicant)
			}
			if a.Applicant == o.Creator {
				return fmt.Errorf("opportunity %q: creator cannot apply", o.Title)
			}
		}
	}

	for _, p := range fx.Posts {
		if !known[p.Author] {
			return fmt.Errorf("post: unknown author %q", p.Author)
		}
	}
	return nil
}
