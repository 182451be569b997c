package domain

// StatusCounts maps every application status to its count. Statuses with no
// applications are present with zero.
type StatusCounts map[ApplicationStatus]int

func NewStatusCounts() StatusCounts {
	c := make(StatusCounts, len(AllApplicationStatuses))
	for _, s := range AllApplicationStatuses {
		c[s] = 0
	}
	return c
}

type UserStats struct {
	Total        int `json:"total"`
	Students     int `json:"students"`
	Companies    int `json:"companies"`
	Admins       int `json:"admins"`
	NewStudents  int `json:"newStudents"`
	NewCompanies int `json:"newCompanies"`
}

type JobStats struct {
	Total    int  `json:"total"`
	Active   int  `json:"active"`
	Inactive int  `json:"inactive"`
	New      *int `json:"new,omitempty"`
}

type ApplicationStats struct {
	Total    int          `json:"total"`
	ByStatus StatusCounts `json:"byStatus"`
}

// SystemStats is the admin dashboard. "New" counts cover the last 30 days.
type SystemStats struct {
	Users        UserStats        `json:"users"`
	Jobs         JobStats         `json:"jobs"`
	Applications ApplicationStats `json:"applications"`
}

// CompanyStats summarizes one company's listings and their applications.
type CompanyStats struct {
	Jobs         JobStats         `json:"jobs"`
	Applications ApplicationStats `json:"applications"`
}
