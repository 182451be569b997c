package persistence

import (
	"database/sql"
	"reflect"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx/reflectx"
)

// selectedColumns returns the result column names of a SELECT list.
func selectedColumns(query string) []string {
	list := query[strings.Index(query, "SELECT")+len("SELECT"):]
	var cols []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if i := strings.LastIndex(part, " AS "); i >= 0 {
			part = part[i+len(" AS "):]
		} else if i := strings.LastIndex(part, "."); i >= 0 {
			part = part[i+1:]
		}
		cols = append(cols, strings.TrimSpace(part))
	}
	return cols
}

func TestApplicationSummarySelectMapsToRow(t *testing.T) {
	fields := reflectx.NewMapperFunc("db", strings.ToLower).TypeMap(reflect.TypeOf(applicationRow{})).Names

	cols := selectedColumns(applicationSummarySelect)
	seen := map[string]bool{}
	for _, c := range cols {
		if _, ok := fields[c]; !ok {
			t.Errorf("selected column %q has no applicationRow field", c)
		}
		seen[c] = true
	}

	// UpdateStatus authorizes on the owning company and Withdraw on the
	// student, so the single-row lookup must carry both.
	for _, want := range []string{"company_id", "job_title", "company_user_id", "student_id", "student_name"} {
		if !seen[want] {
			t.Errorf("summary select is missing %q", want)
		}
	}
}

func TestApplicationRowToDomain(t *testing.T) {
	bare := applicationRow{ID: 1, StudentID: 10, JobID: 100, Status: "PENDING"}
	if a := bare.toDomain(); a.Job != nil || a.Student != nil {
		t.Errorf("bare row built relations: job=%v student=%v", a.Job, a.Student)
	}

	joined := bare
	joined.CompanyID = sql.NullInt64{Int64: 7, Valid: true}
	joined.JobTitle = sql.NullString{String: "Go Dev", Valid: true}
	joined.CompanyName = sql.NullString{String: "Acme", Valid: true}
	joined.StudentName = sql.NullString{String: "Ana", Valid: true}

	a := joined.toDomain()
	if a.Job == nil || a.Job.CompanyID != 7 || a.Job.Company == nil || a.Job.Company.Name != "Acme" {
		t.Fatalf("job summary = %+v", a.Job)
	}
	if len(a.Job.RequiredSkills) != 0 {
		t.Errorf("skills = %v, want none loaded", a.Job.RequiredSkills)
	}
	if a.Student == nil || a.Student.ID != 10 || a.Student.Name != "Ana" {
		t.Errorf("student summary = %+v", a.Student)
	}
}
