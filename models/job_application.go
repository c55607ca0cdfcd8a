package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status and stage values used by the tracker UI. They are not enforced.
const (
	StatusApplied             = "Applied"
	StatusNotApplied          = "Not Applied"
	StatusVacancyNotAvailable = "Vacancy Not Available"
	StatusAwaitingResults     = "Awaiting Results"

	StageNotStarted          = "Not Started"
	StageScreening           = "Screening"
	StageTechnicalInterview  = "Technical Interview"
	StageBehavioralInterview = "Behavioral Interview"
	StageFinalRound          = "Final Round"
	StageOffer               = "Offer"
	StageRejected            = "Rejected"
)

// JobApplication represents a tracked job application in the job_applications table.
type JobApplication struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Role        string    `json:"role"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Link        string    `json:"link"`
	Status      string    `json:"status" example:"Applied"`  // Applied, Not Applied, Vacancy Not Available, Awaiting Results
	Stage       string    `json:"stage" example:"Screening"` // Not Started, Screening, Technical Interview, Behavioral Interview, Final Round, Offer, Rejected
	Description string    `json:"description" gorm:"type:text"`
	AIInsights  string    `json:"aiInsights" gorm:"column:ai_insights;type:text"`
	Notes       string    `json:"notes" gorm:"type:text"`
	Salary      string    `json:"salary"`
	DateApplied string    `json:"dateApplied"` // kept as the client sent it, never parsed
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName pins the table name regardless of gorm's naming strategy.
func (JobApplication) TableName() string {
	return "job_applications"
}

// BeforeCreate assigns the identifier and creation time on first insert.
func (a *JobApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}

// ApplicationPatch is the body of an update. A nil field leaves the stored value untouched;
// location, link, salary and dateApplied are not part of an update.
type ApplicationPatch struct {
	Role        *string `json:"role,omitempty"`
	Company     *string `json:"company,omitempty"`
	Status      *string `json:"status,omitempty"`
	Stage       *string `json:"stage,omitempty"`
	Description *string `json:"description,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	AIInsights  *string `json:"aiInsights,omitempty"`
}

// ApplyTo overwrites the fields of app that are set in the patch.
func (p ApplicationPatch) ApplyTo(app *JobApplication) {
	if p.Role != nil {
		app.Role = *p.Role
	}
	if p.Company != nil {
		app.Company = *p.Company
	}
	if p.Status != nil {
		app.Status = *p.Status
	}
	if p.Stage != nil {
		app.Stage = *p.Stage
	}
	if p.Description != nil {
		app.Description = *p.Description
	}
	if p.Notes != nil {
		app.Notes = *p.Notes
	}
	if p.AIInsights != nil {
		app.AIInsights = *p.AIInsights
	}
}

// IsEmpty reports whether the patch carries no field at all.
func (p ApplicationPatch) IsEmpty() bool {
	return p.Role == nil && p.Company == nil && p.Status == nil && p.Stage == nil &&
		p.Description == nil && p.Notes == nil && p.AIInsights == nil
}
