package job

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/core/service/fake"
	"jobboard_server/pkg/apperr"
	"jobboard_server/pkg/response"

	"github.com/google/uuid"
)

type fixture struct {
	svc      *Service
	store    *fake.Store
	acme     domain.Identity
	globex   domain.Identity
	student  domain.Identity
	admin    domain.Identity
	studentI int64
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := fake.NewStore()
	f := &fixture{svc: NewService(store, store, store), store: store}

	addCompany := func(id int64, name string) domain.Identity {
		u := &domain.User{ID: uuid.New(), Email: name + "@corp.com", Role: domain.RoleCompany}
		if err := store.CreateCompanyAccount(ctx, u, &domain.Company{ID: id, UserID: u.ID, Name: name, TaxID: name}); err != nil {
			t.Fatal(err)
		}
		return u.Identity()
	}
	f.acme = addCompany(1, "Acme")
	f.globex = addCompany(2, "Globex")

	su := &domain.User{ID: uuid.New(), Email: "a@x.com", Role: domain.RoleStudent}
	if err := store.CreateStudentAccount(ctx, su, &domain.Student{ID: 50, UserID: su.ID, Name: "Ana"}); err != nil {
		t.Fatal(err)
	}
	f.student = su.Identity()
	f.studentI = 50

	au := &domain.User{ID: uuid.New(), Email: "root@x.com", Role: domain.RoleAdmin}
	if err := store.CreateAdminAccount(ctx, au, &domain.Admin{ID: 60, UserID: au.ID, Name: "Root"}); err != nil {
		t.Fatal(err)
	}
	f.admin = au.Identity()
	return f
}

func (f *fixture) create(t *testing.T, id domain.Identity, req *in.CreateJobRequest) *domain.Job {
	t.Helper()
	job, err := f.svc.Create(context.Background(), id, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return job
}

func baseRequest() *in.CreateJobRequest {
	email := "jobs@acme.com"
	salary := "R$ 5.000"
	return &in.CreateJobRequest{
		Title:        "Go Developer",
		Level:        "pleno",
		LocationType: "REMOTE",
		Description:  "Build services",
		Salary:       &salary,
		Skills:       []string{"Go", "SQL", "go"},
		ContactEmail: &email,
	}
}

func TestCreate_LocationRequiredForOnsite(t *testing.T) {
	f := setup(t)
	req := baseRequest()
	req.LocationType = "Onsite"

	_, err := f.svc.Create(context.Background(), f.acme, req)
	e := apperr.AsAppError(err)
	if e.Status != 400 || e.Code != apperr.CodeValidationFailed || e.Message != domain.ErrLocationRequired.Error() {
		t.Fatalf("err = %+v", e)
	}

	loc := "Remote city"
	req.Location = &loc
	job := f.create(t, f.acme, req)
	if job.LocationType != domain.LocationOnsite || *job.Location != loc {
		t.Errorf("job = %+v", job)
	}
	if job.Level != domain.LevelMid {
		t.Errorf("level = %s, want MID", job.Level)
	}
	if !reflect.DeepEqual(job.RequiredSkills, []string{"Go", "SQL"}) {
		t.Errorf("skills = %v", job.RequiredSkills)
	}
	if job.Company == nil || job.Company.Name != "Acme" || !job.IsActive {
		t.Errorf("company = %+v active = %v", job.Company, job.IsActive)
	}
}

func TestCreate_RoleAndEnums(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.student, baseRequest())
	if e := apperr.AsAppError(err); e.Status != 403 || e.Message != "Only companies can create job listings" {
		t.Errorf("student create err = %+v", e)
	}

	req := baseRequest()
	req.Level = "INTERN"
	if _, err := f.svc.Create(ctx, f.acme, req); apperr.GetHTTPStatus(err) != 400 {
		t.Errorf("bad level err = %v", err)
	}

	req = baseRequest()
	req.LocationType = "MOON"
	if _, err := f.svc.Create(ctx, f.acme, req); apperr.GetHTTPStatus(err) != 400 {
		t.Errorf("bad location type err = %v", err)
	}
}

func TestUpdate_OmittedFieldsPreserved(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	orig := f.create(t, f.acme, baseRequest())

	title := "Senior Go Developer"
	phone := "5581"
	got, err := f.svc.Update(ctx, f.acme, orig.ID, &in.UpdateJobRequest{Title: &title, ContactPhone: &phone})
	if err != nil {
		t.Fatal(err)
	}

	stored, _ := f.store.GetJob(ctx, orig.ID)
	for _, j := range []*domain.Job{got, stored} {
		if j.Title != title {
			t.Errorf("title = %q", j.Title)
		}
		if j.Description != orig.Description || j.Level != orig.Level || j.LocationType != orig.LocationType {
			t.Errorf("untouched fields changed: %+v", j)
		}
		if *j.Salary != *orig.Salary {
			t.Errorf("salary = %v", *j.Salary)
		}
		if !reflect.DeepEqual(j.RequiredSkills, orig.RequiredSkills) {
			t.Errorf("skills = %v", j.RequiredSkills)
		}
		if j.ContactInfo.Email == nil || *j.ContactInfo.Email != "jobs@acme.com" || *j.ContactInfo.Phone != phone {
			t.Errorf("contact = %+v", j.ContactInfo)
		}
	}
}

func TestUpdate_SkillsReplacedWholesale(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	orig := f.create(t, f.acme, baseRequest())

	if _, err := f.svc.Update(ctx, f.acme, orig.ID, &in.UpdateJobRequest{Skills: []string{}}); err != nil {
		t.Fatal(err)
	}
	stored, _ := f.store.GetJob(ctx, orig.ID)
	if !reflect.DeepEqual(stored.RequiredSkills, []string{"Go", "SQL"}) {
		t.Errorf("empty list changed skills: %v", stored.RequiredSkills)
	}

	if _, err := f.svc.Update(ctx, f.acme, orig.ID, &in.UpdateJobRequest{Skills: []string{"Rust"}}); err != nil {
		t.Fatal(err)
	}
	stored, _ = f.store.GetJob(ctx, orig.ID)
	if !reflect.DeepEqual(stored.RequiredSkills, []string{"Rust"}) {
		t.Errorf("skills = %v, want [Rust]", stored.RequiredSkills)
	}
}

func TestUpdate_LocationRuleOnMergedRecord(t *testing.T) {
	f := setup(t)
	orig := f.create(t, f.acme, baseRequest())

	hybrid := "HYBRID"
	_, err := f.svc.Update(context.Background(), f.acme, orig.ID, &in.UpdateJobRequest{LocationType: &hybrid})
	if apperr.AsAppError(err).Message != domain.ErrLocationRequired.Error() {
		t.Errorf("err = %v", err)
	}
}

func TestUpdateDelete_OwnerOrAdmin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	job := f.create(t, f.acme, baseRequest())
	title := "Hijacked"

	_, err := f.svc.Update(ctx, f.globex, job.ID, &in.UpdateJobRequest{Title: &title})
	if e := apperr.AsAppError(err); e.Status != 403 || e.Message != "Access denied: You can only update your own job listings" {
		t.Errorf("foreign update err = %+v", e)
	}
	if err := f.svc.Delete(ctx, f.globex, job.ID); apperr.GetHTTPStatus(err) != 403 {
		t.Errorf("foreign delete err = %v", err)
	}
	if _, err := f.svc.Update(ctx, f.admin, job.ID, &in.UpdateJobRequest{Title: &title}); err != nil {
		t.Errorf("admin update: %v", err)
	}
	if _, err := f.svc.Update(ctx, f.acme, 999, &in.UpdateJobRequest{Title: &title}); apperr.GetHTTPStatus(err) != 404 {
		t.Errorf("missing job err = %v", err)
	}

	if err := f.store.CreateApplication(ctx, &domain.Application{ID: 7, StudentID: f.studentI, JobID: job.ID, Status: domain.StatusPending}); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Delete(ctx, f.acme, job.ID); err != nil {
		t.Fatal(err)
	}
	if f.store.ApplicationCount() != 0 {
		t.Error("applications survived job deletion")
	}
	if _, err := f.svc.Get(ctx, job.ID); apperr.GetHTTPStatus(err) != 404 {
		t.Errorf("deleted job still readable: %v", err)
	}
}

func TestList_Pagination(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	base := time.Now()
	for i := 0; i < 12; i++ {
		req := baseRequest()
		req.Title = fmt.Sprintf("Job %02d", i)
		j := f.create(t, f.acme, req)
		j.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := f.store.UpdateJob(ctx, j, false); err != nil {
			t.Fatal(err)
		}
	}

	pageReq, err := response.ParsePagination("1", "5")
	if err != nil {
		t.Fatal(err)
	}
	res, err := f.svc.List(ctx, &domain.JobFilter{Offset: pageReq.Offset(), Limit: pageReq.Limit})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Jobs) != 5 || res.Total != 12 {
		t.Fatalf("got %d jobs, total %d", len(res.Jobs), res.Total)
	}
	if p := response.NewPagination(pageReq, res.Total); p.Pages != 3 {
		t.Errorf("pages = %d, want 3", p.Pages)
	}
	if res.Jobs[0].Title != "Job 11" {
		t.Errorf("first = %s, want newest", res.Jobs[0].Title)
	}
}

func TestList_Filters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.create(t, f.acme, baseRequest())
	req := baseRequest()
	req.Title = "Data Engineer"
	req.Level = "SENIOR"
	req.Skills = []string{"Python"}
	f.create(t, f.globex, req)

	senior := domain.LevelSenior
	search := "globex"
	acme := int64(1)

	tests := []struct {
		name   string
		filter domain.JobFilter
		want   int
	}{
		{"all", domain.JobFilter{}, 2},
		{"level", domain.JobFilter{Level: &senior}, 1},
		{"company name search", domain.JobFilter{Search: &search}, 1},
		{"company id", domain.JobFilter{CompanyID: &acme}, 1},
		{"skill any match", domain.JobFilter{Skills: []string{"python", "haskell"}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.List(ctx, &tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if res.Total != tt.want {
				t.Errorf("total = %d, want %d", res.Total, tt.want)
			}
		})
	}
}

func TestListMine(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	job := f.create(t, f.acme, baseRequest())
	f.create(t, f.globex, baseRequest())
	if err := f.store.CreateApplication(ctx, &domain.Application{ID: 9, StudentID: f.studentI, JobID: job.ID, Status: domain.StatusPending}); err != nil {
		t.Fatal(err)
	}

	jobs, err := f.svc.ListMine(ctx, f.acme)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || len(jobs[0].Applications) != 1 || jobs[0].Applications[0].Student.Name != "Ana" {
		t.Errorf("jobs = %+v", jobs)
	}

	if _, err := f.svc.ListMine(ctx, f.student); apperr.GetHTTPStatus(err) != 403 {
		t.Errorf("student ListMine err = %v", err)
	}
}
