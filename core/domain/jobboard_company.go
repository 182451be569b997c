package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company is the profile owned by a COMPANY user.
type Company struct {
	ID              int64     `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	Name            string    `json:"name"`
	ResponsibleName string    `json:"responsibleName"`
	TaxID           string    `json:"cnpj,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Jobs []*Job `json:"jobs,omitempty"`
}

// Public strips fields that must not leave the owner's view.
func (c *Company) Public() *Company {
	pub := *c
	pub.TaxID = ""
	return &pub
}

// CompanySummary is embedded in job and application views.
type CompanySummary struct {
	ID              int64     `json:"id"`
	UserID          uuid.UUID `json:"-"`
	Name            string    `json:"name"`
	ResponsibleName string    `json:"responsibleName,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}
