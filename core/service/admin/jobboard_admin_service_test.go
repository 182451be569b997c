package admin

import (
	"context"
	"testing"
	"time"

	"jobboard_server/core/domain"
	"jobboard_server/core/service/fake"
	"jobboard_server/pkg/apperr"

	"github.com/google/uuid"
)

func seed(t *testing.T) *fake.Store {
	t.Helper()
	ctx := context.Background()
	store := fake.NewStore()

	su := &domain.User{ID: uuid.New(), Email: "ana@x.com", Role: domain.RoleStudent, CreatedAt: time.Now()}
	if err := store.CreateStudentAccount(ctx, su, &domain.Student{ID: 1, UserID: su.ID, Name: "Ana Lima"}); err != nil {
		t.Fatal(err)
	}
	cu := &domain.User{ID: uuid.New(), Email: "hr@acme.com", Role: domain.RoleCompany, CreatedAt: time.Now()}
	if err := store.CreateCompanyAccount(ctx, cu, &domain.Company{ID: 2, UserID: cu.ID, Name: "Acme", TaxID: "1"}); err != nil {
		t.Fatal(err)
	}
	jobs := []*domain.Job{
		{ID: 10, CompanyID: 2, Title: "Go Dev", Description: "lima project", IsActive: true, CreatedAt: time.Now()},
		{ID: 11, CompanyID: 2, Title: "Archived", IsActive: false, CreatedAt: time.Now()},
	}
	for _, j := range jobs {
		if err := store.CreateJob(ctx, j); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.CreateApplication(ctx, &domain.Application{ID: 20, StudentID: 1, JobID: 10, Status: domain.StatusPending}); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestListUsers(t *testing.T) {
	store := seed(t)
	svc := NewService(store, store, store)
	ctx := context.Background()

	student := domain.RoleStudent
	lima := "lima"
	acme := "ACME"

	tests := []struct {
		name   string
		filter domain.UserFilter
		want   int
	}{
		{"all", domain.UserFilter{}, 2},
		{"by role", domain.UserFilter{Role: &student}, 1},
		{"student name", domain.UserFilter{Search: &lima}, 1},
		{"company name or email", domain.UserFilter{Search: &acme}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.ListUsers(ctx, &tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if res.Total != tt.want {
				t.Errorf("total = %d, want %d", res.Total, tt.want)
			}
		})
	}
}

func TestListJobs_TitleSearchAndCounts(t *testing.T) {
	store := seed(t)
	svc := NewService(store, store, store)

	lima := "lima"
	res, err := svc.ListJobs(context.Background(), &domain.JobFilter{Search: &lima})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 0 {
		t.Errorf("admin search matched description: %d", res.Total)
	}

	inactive := false
	res, err = svc.ListJobs(context.Background(), &domain.JobFilter{Active: &inactive})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Jobs[0].ApplicationCount == nil || *res.Jobs[0].ApplicationCount != 0 {
		t.Errorf("jobs = %+v", res.Jobs)
	}
}

func TestBlockUser_NotImplemented(t *testing.T) {
	svc := NewService(fake.NewStore(), fake.NewStore(), fake.NewStore())
	err := svc.BlockUser(context.Background(), uuid.New())
	if apperr.GetHTTPStatus(err) != 501 {
		t.Errorf("err = %v, want 501", err)
	}
}

func TestSetJobStatus(t *testing.T) {
	store := seed(t)
	svc := NewService(store, store, store)
	ctx := context.Background()

	job, err := svc.SetJobStatus(ctx, 11, true)
	if err != nil || !job.IsActive {
		t.Fatalf("job = %+v, %v", job, err)
	}
	stored, _ := store.GetJob(ctx, 11)
	if !stored.IsActive {
		t.Error("status not persisted")
	}

	if _, err := svc.SetJobStatus(ctx, 404, false); apperr.GetHTTPStatus(err) != 404 {
		t.Errorf("missing job err = %v", err)
	}
}
