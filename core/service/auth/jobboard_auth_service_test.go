package auth

import (
	"context"
	"testing"
	"time"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/in"
	"jobboard_server/core/service/fake"
	"jobboard_server/pkg/apperr"
)

func newTestService(t *testing.T) (*Service, *fake.Store) {
	t.Helper()
	store := fake.NewStore()
	svc := NewService(store, store, store, store,
		NewTokenManager("test-secret"),
		NewPasswordHasher(4),
		Config{},
	)
	return svc, store
}

func registerAna(t *testing.T, svc *Service) *in.AuthResponse {
	t.Helper()
	resp, err := svc.RegisterStudent(context.Background(), &in.RegisterStudentRequest{
		Name:     "Ana",
		Email:    "a@x.com",
		Password: "secret1",
		Phone:    "81999990000",
		Skills:   []in.SkillInput{{Name: "Go", Level: 4}, {Name: "go", Level: 2}},
	})
	if err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}
	return resp
}

func TestRegisterStudent_DuplicateEmail(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	first := registerAna(t, svc)
	if first.Token == "" {
		t.Fatal("registration returned no token")
	}

	_, err := svc.RegisterStudent(ctx, &in.RegisterStudentRequest{
		Name: "Ana 2", Email: "A@X.com", Password: "secret1", Phone: "1",
	})
	if !apperr.HasCode(err, apperr.CodeConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if apperr.GetHTTPStatus(err) != 400 {
		t.Errorf("status = %d, want 400", apperr.GetHTTPStatus(err))
	}
	if store.UserCount() != 1 {
		t.Errorf("users = %d, want 1", store.UserCount())
	}
}

func TestRegisterStudent_Defaults(t *testing.T) {
	svc, store := newTestService(t)
	city, country := "Recife", "Portugal"
	ctx := context.Background()

	home, err := svc.RegisterStudent(ctx, &in.RegisterStudentRequest{
		Name: "Bia", Email: "b@x.com", Password: "secret1", Phone: "1", City: &city, Country: &country,
	})
	if err != nil {
		t.Fatal(err)
	}
	st, _ := store.GetStudent(ctx, home.ID)
	if st.Country != domain.DefaultCountry || st.City == nil || *st.City != "Recife" {
		t.Errorf("home student = country %q city %v", st.Country, st.City)
	}

	abroad, err := svc.RegisterStudent(ctx, &in.RegisterStudentRequest{
		Name: "Caio", Email: "c@x.com", Password: "secret1", Phone: "1",
		City: &city, Country: &country, NotInBrazil: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	st, _ = store.GetStudent(ctx, abroad.ID)
	if st.Country != "Portugal" || st.City != nil {
		t.Errorf("abroad student = country %q city %v", st.Country, st.City)
	}
}

func TestRegisterStudent_InitialSkillsDeduplicated(t *testing.T) {
	svc, store := newTestService(t)
	resp := registerAna(t, svc)

	st, _ := store.GetStudent(context.Background(), resp.ID)
	if len(st.Skills) != 1 || st.Skills[0].Name != "Go" || st.Skills[0].Level != 4 {
		t.Errorf("skills = %+v", st.Skills)
	}
}

func TestRegisterCompany_DuplicateTaxID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	req := &in.RegisterCompanyRequest{
		CompanyName: "Acme", ResponsibleName: "Rita", Email: "hr@acme.com",
		Password: "secret1", TaxID: "12345678000190",
	}
	if _, err := svc.RegisterCompany(ctx, req); err != nil {
		t.Fatal(err)
	}

	req.Email = "other@acme.com"
	_, err := svc.RegisterCompany(ctx, req)
	if !apperr.HasCode(err, apperr.CodeConflict) || apperr.AsAppError(err).Message != "Tax ID already registered" {
		t.Fatalf("err = %v", err)
	}
}

func TestLogin_RoundTripsIdentity(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	registerAna(t, svc)

	resp, err := svc.Login(ctx, &in.LoginRequest{Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}

	id, err := svc.Verify(resp.Token)
	if err != nil {
		t.Fatal(err)
	}
	user, _ := store.GetUserByEmail(ctx, "a@x.com")
	if id.UserID != user.ID || id.Email != user.Email || id.Role != domain.RoleStudent {
		t.Errorf("identity = %+v, stored = %+v", id, user)
	}
}

func TestLogin_IdenticalFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	registerAna(t, svc)

	_, unknown := svc.Login(ctx, &in.LoginRequest{Email: "nobody@x.com", Password: "secret1"})
	_, wrong := svc.Login(ctx, &in.LoginRequest{Email: "a@x.com", Password: "wrong!"})

	for _, err := range []error{unknown, wrong} {
		e := apperr.AsAppError(err)
		if e.Status != 401 || e.Message != "Invalid email or password" {
			t.Errorf("err = %+v", e)
		}
	}
}

func TestAdminLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	registerAna(t, svc)

	if _, err := svc.CreateAdmin(ctx, &in.CreateAdminRequest{Name: "Root", Email: "root@x.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}

	_, err := svc.AdminLogin(ctx, &in.LoginRequest{Email: "a@x.com", Password: "secret1"})
	if apperr.AsAppError(err).Message != "Invalid admin credentials" {
		t.Errorf("student admin login err = %v", err)
	}

	now := time.Now()
	svc.tokens.now = func() time.Time { return now }
	resp, err := svc.AdminLogin(ctx, &in.LoginRequest{Email: "root@x.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}

	svc.tokens.now = func() time.Time { return now.Add(7 * time.Hour) }
	if _, err := svc.Verify(resp.Token); err != nil {
		t.Errorf("admin token rejected after 7h: %v", err)
	}
	svc.tokens.now = func() time.Time { return now.Add(9 * time.Hour) }
	if _, err := svc.Verify(resp.Token); err == nil {
		t.Error("admin token accepted after 9h")
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	reg := registerAna(t, svc)
	identity, _ := svc.Verify(reg.Token)

	err := svc.ChangePassword(ctx, *identity, &in.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "secret2"})
	if apperr.AsAppError(err).Message != "Current password is incorrect" {
		t.Fatalf("err = %v", err)
	}

	if err := svc.ChangePassword(ctx, *identity, &in.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret2"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, &in.LoginRequest{Email: "a@x.com", Password: "secret2"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}
