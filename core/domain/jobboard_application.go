package domain

import (
	"strings"
	"time"
)

// ApplicationStatus is the hiring stage of an application.
type ApplicationStatus string

const (
	StatusPending      ApplicationStatus = "PENDING"
	StatusViewed       ApplicationStatus = "VIEWED"
	StatusInterviewing ApplicationStatus = "INTERVIEWING"
	StatusAccepted     ApplicationStatus = "ACCEPTED"
	StatusRejected     ApplicationStatus = "REJECTED"
)

// AllApplicationStatuses lists every status in pipeline order.
var AllApplicationStatuses = []ApplicationStatus{
	StatusPending,
	StatusViewed,
	StatusInterviewing,
	StatusAccepted,
	StatusRejected,
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range AllApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	st := ApplicationStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

// Application links a student to a job. At most one exists per pair.
type Application struct {
	ID        int64             `json:"id"`
	StudentID int64             `json:"studentId"`
	JobID     int64             `json:"jobId"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`

	Job     *Job            `json:"job,omitempty"`
	Student *StudentSummary `json:"student,omitempty"`
}

// ApplicationFilter scopes application listings. Nil fields are ignored.
type ApplicationFilter struct {
	StudentID *int64
	CompanyID *int64
	JobID     *int64
	Status    *ApplicationStatus
	Offset    int
	Limit     int
}
