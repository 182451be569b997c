package application

import (
	"context"
	"testing"

	"jobboard_server/core/domain"
	"jobboard_server/core/service/fake"
	"jobboard_server/pkg/apperr"

	"github.com/google/uuid"
)

type fixture struct {
	svc      *Service
	store    *fake.Store
	ana      domain.Identity
	acme     domain.Identity
	globex   domain.Identity
	active   int64
	inactive int64
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := fake.NewStore()
	f := &fixture{svc: NewService(store, store, store, store), store: store, active: 100, inactive: 101}

	su := &domain.User{ID: uuid.New(), Email: "a@x.com", Role: domain.RoleStudent}
	if err := store.CreateStudentAccount(ctx, su, &domain.Student{ID: 10, UserID: su.ID, Name: "Ana"}); err != nil {
		t.Fatal(err)
	}
	f.ana = su.Identity()

	for i, name := range []string{"Acme", "Globex"} {
		u := &domain.User{ID: uuid.New(), Email: name + "@corp.com", Role: domain.RoleCompany}
		if err := store.CreateCompanyAccount(ctx, u, &domain.Company{ID: int64(i + 1), UserID: u.ID, Name: name, TaxID: name}); err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			f.acme = u.Identity()
		} else {
			f.globex = u.Identity()
		}
	}

	for _, j := range []*domain.Job{
		{ID: f.active, CompanyID: 1, Title: "Go Dev", IsActive: true},
		{ID: f.inactive, CompanyID: 1, Title: "Old", IsActive: false},
	} {
		if err := store.CreateJob(ctx, j); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func TestApply_Twice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	app, err := f.svc.Apply(ctx, f.ana, f.active)
	if err != nil {
		t.Fatal(err)
	}
	if app.Status != domain.StatusPending {
		t.Errorf("status = %s, want PENDING", app.Status)
	}

	_, err = f.svc.Apply(ctx, f.ana, f.active)
	if e := apperr.AsAppError(err); e.Status != 400 || e.Message != msgAlreadyApplied {
		t.Errorf("second apply err = %+v", e)
	}
	if f.store.ApplicationCount() != 1 {
		t.Errorf("applications = %d, want 1", f.store.ApplicationCount())
	}
}

func TestApply_InactiveOrMissingJob(t *testing.T) {
	f := setup(t)
	for _, jobID := range []int64{f.inactive, 999} {
		_, err := f.svc.Apply(context.Background(), f.ana, jobID)
		if e := apperr.AsAppError(err); e.Status != 404 || e.Message != msgJobNotAvailable {
			t.Errorf("job %d err = %+v", jobID, e)
		}
	}
	if f.store.ApplicationCount() != 0 {
		t.Errorf("applications = %d, want 0", f.store.ApplicationCount())
	}
}

func TestApply_CompanyForbidden(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Apply(context.Background(), f.acme, f.active)
	if apperr.GetHTTPStatus(err) != 403 {
		t.Errorf("err = %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	app, err := f.svc.Apply(ctx, f.ana, f.active)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("owning company", func(t *testing.T) {
		got, err := f.svc.UpdateStatus(ctx, f.acme, app.ID, "VIEWED")
		if err != nil {
			t.Fatalf("UpdateStatus() error = %v", err)
		}
		if got.Status != domain.StatusViewed {
			t.Errorf("status = %s", got.Status)
		}
	})

	t.Run("foreign company", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, f.globex, app.ID, "VIEWED")
		if e := apperr.AsAppError(err); e.Status != 404 || e.Message != msgNotCompanysApp {
			t.Errorf("err = %+v", e)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, f.acme, app.ID, "ARCHIVED")
		if e := apperr.AsAppError(err); e.Status != 400 || e.Message != msgInvalidStatus {
			t.Errorf("err = %+v", e)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			got, err := f.svc.UpdateStatus(ctx, f.acme, app.ID, "interviewing")
			if err != nil {
				t.Fatalf("call %d: %v", i, err)
			}
			if got.Status != domain.StatusInterviewing {
				t.Errorf("call %d status = %s", i, got.Status)
			}
		}
		stored, _ := f.store.GetApplication(ctx, app.ID)
		if stored.Status != domain.StatusInterviewing {
			t.Errorf("stored = %s", stored.Status)
		}
	})

	t.Run("any to any", func(t *testing.T) {
		for _, st := range []string{"REJECTED", "PENDING", "ACCEPTED"} {
			if _, err := f.svc.UpdateStatus(ctx, f.acme, app.ID, st); err != nil {
				t.Errorf("%s: %v", st, err)
			}
		}
	})
}

func TestWithdraw(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	app, err := f.svc.Apply(ctx, f.ana, f.active)
	if err != nil {
		t.Fatal(err)
	}

	bu := &domain.User{ID: uuid.New(), Email: "b@x.com", Role: domain.RoleStudent}
	if err := f.store.CreateStudentAccount(ctx, bu, &domain.Student{ID: 11, UserID: bu.ID, Name: "Bruno"}); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Withdraw(ctx, bu.Identity(), app.ID); apperr.AsAppError(err).Message != msgNotStudentsApp {
		t.Errorf("foreign withdraw err = %v", err)
	}

	if err := f.svc.Withdraw(ctx, f.ana, app.ID); err != nil {
		t.Fatal(err)
	}
	if f.store.ApplicationCount() != 0 {
		t.Error("application not deleted")
	}
}

func TestListViews(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	app, _ := f.svc.Apply(ctx, f.ana, f.active)
	if _, err := f.svc.UpdateStatus(ctx, f.acme, app.ID, "VIEWED"); err != nil {
		t.Fatal(err)
	}

	mine, err := f.svc.ListForStudent(ctx, f.ana, "")
	if err != nil || len(mine) != 1 || mine[0].Job == nil || mine[0].Job.Company.Name != "Acme" {
		t.Fatalf("student list = %+v, %v", mine, err)
	}

	pending, err := f.svc.ListForStudent(ctx, f.ana, "pending")
	if err != nil || len(pending) != 0 {
		t.Errorf("pending = %d, %v", len(pending), err)
	}

	theirs, err := f.svc.ListForCompany(ctx, f.acme, nil, "VIEWED")
	if err != nil || len(theirs) != 1 || theirs[0].Student == nil || theirs[0].Student.Name != "Ana" {
		t.Errorf("company list = %+v, %v", theirs, err)
	}

	other, err := f.svc.ListForCompany(ctx, f.globex, nil, "")
	if err != nil || len(other) != 0 {
		t.Errorf("globex sees %d applications", len(other))
	}

	if _, err := f.svc.ListForCompany(ctx, f.acme, nil, "bogus"); apperr.GetHTTPStatus(err) != 400 {
		t.Errorf("bogus status err = %v", err)
	}
}
