package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinSkillLevel = 1
	MaxSkillLevel = 5

	// DefaultCountry is stored when a student does not declare living abroad.
	DefaultCountry = "Brasil"
)

func ValidSkillLevel(level int) bool {
	return level >= MinSkillLevel && level <= MaxSkillLevel
}

// Student is the profile owned by a STUDENT user.
type Student struct {
	ID             int64     `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Gender         *string   `json:"gender"`
	City           *string   `json:"city"`
	State          *string   `json:"state"`
	Country        string    `json:"country"`
	SpecialNeeds   *string   `json:"specialNeeds"`
	GithubURL      *string   `json:"githubUrl"`
	LinkedinURL    *string   `json:"linkedinUrl"`
	PortfolioURL   *string   `json:"portfolioUrl"`
	IsFreelancer   bool      `json:"isFreelancer"`
	Bio            *string   `json:"bio"`
	ResumeURL      *string   `json:"resumeUrl"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Skills       []Skill       `json:"skills,omitempty"`
	Experiences  []Experience  `json:"experiences,omitempty"`
	Applications []Application `json:"applications,omitempty"`
}

// StudentSummary is the slice of a student shown to companies and admins.
type StudentSummary struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	ProfilePicture *string   `json:"profilePicture"`
	City           *string   `json:"city,omitempty"`
	State          *string   `json:"state,omitempty"`
	Country        string    `json:"country,omitempty"`
	PortfolioURL   *string   `json:"portfolioUrl,omitempty"`
	GithubURL      *string   `json:"githubUrl,omitempty"`
	LinkedinURL    *string   `json:"linkedinUrl,omitempty"`
	ResumeURL      *string   `json:"resumeUrl,omitempty"`
	Skills         []Skill   `json:"skills,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

// Skill is a named self-assessed proficiency, unique by name per student.
type Skill struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"studentId"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Experience is one entry of a student's work history.
type Experience struct {
	ID          int64      `json:"id"`
	StudentID   int64      `json:"studentId"`
	Company     string     `json:"company"`
	Role        string     `json:"role"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Current     bool       `json:"current"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
