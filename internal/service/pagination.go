// Package service holds the business rules: authentication, profiles, the opportunity workflow and the feed.
package service

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// Page is a skip/limit window over a listing.
type Page struct {
	Skip  int
	Limit int
}

// Normalize applies the default limit, caps it, and clamps a negative skip to zero.
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}
