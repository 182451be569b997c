package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrLocationRequired = errors.New("Location is required for hybrid or onsite jobs")

// JobLevel is the seniority a listing targets.
type JobLevel string

const (
	LevelJunior JobLevel = "JUNIOR"
	LevelMid    JobLevel = "MID"
	LevelSenior JobLevel = "SENIOR"
)

func (l JobLevel) Valid() bool {
	switch l {
	case LevelJunior, LevelMid, LevelSenior:
		return true
	}
	return false
}

// ParseJobLevel accepts any letter case and the PLENO alias for MID.
func ParseJobLevel(s string) (JobLevel, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "PLENO" {
		return LevelMid, true
	}
	l := JobLevel(v)
	return l, l.Valid()
}

// LocationType says where the work happens.
type LocationType string

const (
	LocationRemote LocationType = "REMOTE"
	LocationHybrid LocationType = "HYBRID"
	LocationOnsite LocationType = "ONSITE"
)

func (t LocationType) Valid() bool {
	switch t {
	case LocationRemote, LocationHybrid, LocationOnsite:
		return true
	}
	return false
}

// RequiresLocation reports whether listings of this type must name a place.
func (t LocationType) RequiresLocation() bool {
	return t == LocationHybrid || t == LocationOnsite
}

func ParseLocationType(s string) (LocationType, bool) {
	t := LocationType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

// ContactInfo is the optional recruiter contact block of a listing.
type ContactInfo struct {
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	LinkedIn     *string `json:"linkedin,omitempty"`
	Website      *string `json:"website,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
}

// Merge overlays the non-empty fields of patch onto c.
func (c ContactInfo) Merge(patch ContactInfo) ContactInfo {
	pick := func(cur, next *string) *string {
		if next != nil && *next != "" {
			v := *next
			return &v
		}
		return cur
	}
	return ContactInfo{
		Email:        pick(c.Email, patch.Email),
		Phone:        pick(c.Phone, patch.Phone),
		LinkedIn:     pick(c.LinkedIn, patch.LinkedIn),
		Website:      pick(c.Website, patch.Website),
		Instructions: pick(c.Instructions, patch.Instructions),
	}
}

func (c ContactInfo) IsEmpty() bool {
	for _, f := range []*string{c.Email, c.Phone, c.LinkedIn, c.Website, c.Instructions} {
		if f != nil && *f != "" {
			return false
		}
	}
	return true
}

// Job is a listing posted by a company.
type Job struct {
	ID             int64        `json:"id"`
	CompanyID      int64        `json:"companyId"`
	Title          string       `json:"title"`
	Level          JobLevel     `json:"level"`
	LocationType   LocationType `json:"locationType"`
	Location       *string      `json:"location"`
	Salary         *string      `json:"salary"`
	Description    string       `json:"description"`
	Benefits       *string      `json:"benefits"`
	ContactInfo    ContactInfo  `json:"contactInfo"`
	IsActive       bool         `json:"isActive"`
	RequiredSkills []string     `json:"requiredSkills"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`

	Company          *CompanySummary `json:"company,omitempty"`
	Applications     []*Application  `json:"applications,omitempty"`
	ApplicationCount *int            `json:"applicationCount,omitempty"`
}

// Validate checks the rules a listing must satisfy after every write.
func (j *Job) Validate() error {
	if j.LocationType.RequiresLocation() && (j.Location == nil || strings.TrimSpace(*j.Location) == "") {
		return ErrLocationRequired
	}
	return nil
}

// JobFilter drives job listings. Search matches title, description, location
// and company name unless TitleSearchOnly is set, in which case only title
// and company name are matched.
type JobFilter struct {
	Search          *string
	TitleSearchOnly bool
	Level           *JobLevel
	LocationType    *LocationType
	CompanyID       *int64
	Active          *bool
	Skills          []string
	WithCounts      bool
	Offset          int
	Limit           int
}

// NormalizeSkills trims, drops blanks and removes case-insensitive duplicates
// while keeping first-seen order.
func NormalizeSkills(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}
