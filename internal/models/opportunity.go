package models

import "time"

// OpportunityStatus is the lifecycle state of an opportunity.
type OpportunityStatus string

const (
	OpportunityOpen       OpportunityStatus = "open"
	OpportunityInProgress OpportunityStatus = "in_progress"
	OpportunityCompleted  OpportunityStatus = "completed"
	OpportunityClosed     OpportunityStatus = "closed"
)

// Opportunity is a bounty-style task posted by a user.
type Opportunity struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	Title          string            `gorm:"size:200;not null" json:"title"`
	Description    string            `gorm:"type:text;not null" json:"description"`
	RequiredSkills StringList        `json:"required_skills"`
	BountyAmount   *int              `json:"bounty_amount"`
	Status         OpportunityStatus `gorm:"size:20;not null;default:open;index" json:"status"`
	CreatorID      uint              `gorm:"not null;index" json:"creator_id"`
	Deadline       *time.Time        `json:"deadline"`
	CreatedAt      time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Decision reports whether s is a status a creator may set.
func (s ApplicationStatus) Decision() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}

// Application is a user's request to work on an opportunity.
type Application struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	OpportunityID uint              `gorm:"not null;uniqueIndex:idx_application_opportunity_applicant" json:"opportunity_id"`
	ApplicantID   uint              `gorm:"not null;uniqueIndex:idx_application_opportunity_applicant;index" json:"applicant_id"`
	Message       string            `gorm:"type:text;not null" json:"message"`
	Status        ApplicationStatus `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}
