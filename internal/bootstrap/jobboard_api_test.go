package bootstrap

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"jobboard_server/config"
	"jobboard_server/core/port/in"
	"jobboard_server/core/service/fake"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

type envelope struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Reference string          `json:"reference"`
}

type testEnv struct {
	app   *fiber.App
	store *fake.Store
	files *fake.Storage
	audit *fake.Audit
	svc   *Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Environment:         "test",
		JWTSecret:           "test-secret",
		TokenTTL:            time.Hour,
		AdminTokenTTL:       time.Hour,
		BcryptCost:          4,
		RateLimitPerMin:     1000,
		AuthRateLimitPerMin: 1000,
	}
	store := fake.NewStore()
	files := fake.NewStorage()
	audit := &fake.Audit{}

	repos := Repositories{
		Users:        store,
		Students:     store,
		Companies:    store,
		Admins:       store,
		Jobs:         store,
		Applications: store,
		Reports:      store,
	}
	svc := NewServices(cfg, repos, files)
	app, closeApp := NewApp(cfg, svc, AppOptions{Audit: audit})
	t.Cleanup(closeApp)

	return &testEnv{app: app, store: store, files: files, audit: audit, svc: svc}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(t, req, token)
}

func (e *testEnv) send(t *testing.T, req *http.Request, token string) (int, envelope) {
	t.Helper()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", req.Method, req.URL.Path, raw, err)
		}
	}
	return resp.StatusCode, env
}

func decode(t *testing.T, env envelope, v any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func (e *testEnv) registerStudent(t *testing.T, email string) in.AuthResponse {
	t.Helper()
	status, env := e.do(t, "POST", "/api/auth/register/student", "", map[string]any{
		"name":     "Ana",
		"email":    email,
		"password": "secret1",
		"phone":    "81999990000",
		"skills":   []map[string]any{{"name": "Go", "level": 4}},
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register student: status %d: %s", status, env.Message)
	}
	var resp in.AuthResponse
	decode(t, env, &resp)
	return resp
}

func (e *testEnv) registerCompany(t *testing.T, email, taxID string) in.AuthResponse {
	t.Helper()
	status, env := e.do(t, "POST", "/api/auth/register/company", "", map[string]any{
		"companyName":     "Acme " + taxID,
		"responsibleName": "Bia",
		"email":           email,
		"password":        "secret1",
		"cnpj":            taxID,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register company: status %d: %s", status, env.Message)
	}
	var resp in.AuthResponse
	decode(t, env, &resp)
	return resp
}

type jobBody struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	IsActive bool   `json:"isActive"`
}

func (e *testEnv) createJob(t *testing.T, token, title string) jobBody {
	t.Helper()
	status, env := e.do(t, "POST", "/api/jobs", token, map[string]any{
		"title":        title,
		"level":        "junior",
		"locationType": "REMOTE",
		"description":  "Build APIs",
		"skills":       []string{"Go", "SQL"},
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create job: status %d: %s", status, env.Message)
	}
	var job jobBody
	decode(t, env, &job)
	return job
}

func TestRegisterAndLogin(t *testing.T) {
	e := newTestEnv(t)

	ana := e.registerStudent(t, "ana@x.com")
	if ana.Token == "" || ana.Role != "STUDENT" {
		t.Fatalf("register response = %+v", ana)
	}

	status, env := e.do(t, "POST", "/api/auth/register/student", "", map[string]any{
		"name": "Ana 2", "email": "ANA@x.com", "password": "secret1", "phone": "1",
	})
	if status != fiber.StatusBadRequest || env.Status != "error" {
		t.Fatalf("duplicate email: status %d, env %+v", status, env)
	}

	status, env = e.do(t, "POST", "/api/auth/login", "", map[string]any{
		"email": "ana@x.com", "password": "secret1",
	})
	if status != fiber.StatusOK {
		t.Fatalf("login: status %d: %s", status, env.Message)
	}

	status, _ = e.do(t, "POST", "/api/auth/login", "", map[string]any{
		"email": "ana@x.com", "password": "wrong-password",
	})
	if status != fiber.StatusUnauthorized {
		t.Errorf("bad password: status %d, want 401", status)
	}
}

func TestRegisterValidation(t *testing.T) {
	e := newTestEnv(t)

	status, env := e.do(t, "POST", "/api/auth/register/student", "", map[string]any{
		"email": "not-an-email",
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if env.Error == "" {
		t.Error("error code missing from envelope")
	}
	if e.store.UserCount() != 0 {
		t.Errorf("users = %d, want 0", e.store.UserCount())
	}
}

func TestRoleGuards(t *testing.T) {
	e := newTestEnv(t)
	ana := e.registerStudent(t, "ana@x.com")
	acme := e.registerCompany(t, "hr@acme.com", "12345678000199")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", "GET", "/api/students/me", "", fiber.StatusUnauthorized},
		{"garbage token", "GET", "/api/students/me", "garbage", fiber.StatusUnauthorized},
		{"student on student route", "GET", "/api/students/me", ana.Token, fiber.StatusOK},
		{"company on student route", "GET", "/api/students/me", acme.Token, fiber.StatusForbidden},
		{"student on company route", "GET", "/api/companies/me", ana.Token, fiber.StatusForbidden},
		{"student on admin route", "GET", "/api/admin/stats", ana.Token, fiber.StatusForbidden},
		{"public job list", "GET", "/api/jobs", "", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := e.do(t, tt.method, tt.path, tt.token, nil)
			if status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
		})
	}
}

func TestJobApplicationFlow(t *testing.T) {
	e := newTestEnv(t)
	ana := e.registerStudent(t, "ana@x.com")
	acme := e.registerCompany(t, "hr@acme.com", "12345678000199")

	job := e.createJob(t, acme.Token, "Go Developer")
	if !job.IsActive {
		t.Fatal("new job should be active")
	}

	status, env := e.do(t, "GET", "/api/jobs?search=go%20dev&skills=go", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("list jobs: status %d", status)
	}
	var list struct {
		Jobs       []jobBody `json:"jobs"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	decode(t, env, &list)
	if len(list.Jobs) != 1 || list.Pagination.Total != 1 {
		t.Fatalf("list = %+v", list)
	}

	applyPath := "/api/jobs/" + strconv.FormatInt(job.ID, 10) + "/apply"
	status, env = e.do(t, "POST", applyPath, ana.Token, nil)
	if status != fiber.StatusCreated {
		t.Fatalf("apply: status %d: %s", status, env.Message)
	}
	var app struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	decode(t, env, &app)
	if app.Status != "PENDING" {
		t.Errorf("status = %q, want PENDING", app.Status)
	}

	status, _ = e.do(t, "POST", applyPath, ana.Token, nil)
	if status != fiber.StatusBadRequest {
		t.Errorf("second apply: status %d, want 400", status)
	}
	if e.store.ApplicationCount() != 1 {
		t.Errorf("applications = %d, want 1", e.store.ApplicationCount())
	}

	statusPath := "/api/companies/applications/" + strconv.FormatInt(app.ID, 10) + "/status"
	status, _ = e.do(t, "PUT", statusPath, acme.Token, map[string]any{"status": "BOGUS"})
	if status != fiber.StatusBadRequest {
		t.Errorf("invalid status: got %d, want 400", status)
	}
	status, env = e.do(t, "PUT", statusPath, acme.Token, map[string]any{"status": "INTERVIEWING"})
	if status != fiber.StatusOK {
		t.Fatalf("update status: %d: %s", status, env.Message)
	}

	status, env = e.do(t, "GET", "/api/students/applications", ana.Token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("student applications: status %d", status)
	}
	var mine []struct {
		Status string `json:"status"`
	}
	decode(t, env, &mine)
	if len(mine) != 1 || mine[0].Status != "INTERVIEWING" {
		t.Errorf("student applications = %+v", mine)
	}
}

func TestJobOwnership(t *testing.T) {
	e := newTestEnv(t)
	acme := e.registerCompany(t, "hr@acme.com", "12345678000199")
	other := e.registerCompany(t, "hr@other.com", "98765432000111")

	job := e.createJob(t, acme.Token, "Go Developer")
	path := "/api/jobs/" + strconv.FormatInt(job.ID, 10)

	status, _ := e.do(t, "PUT", path, other.Token, map[string]any{"title": "Hijacked"})
	if status != fiber.StatusForbidden {
		t.Errorf("update by other company: status %d, want 403", status)
	}
	status, _ = e.do(t, "DELETE", path, other.Token, nil)
	if status != fiber.StatusForbidden {
		t.Errorf("delete by other company: status %d, want 403", status)
	}

	status, env := e.do(t, "PUT", path, acme.Token, map[string]any{"title": "Senior Go Developer"})
	if status != fiber.StatusOK {
		t.Fatalf("update by owner: status %d: %s", status, env.Message)
	}
	var updated jobBody
	decode(t, env, &updated)
	if updated.Title != "Senior Go Developer" {
		t.Errorf("title = %q", updated.Title)
	}

	status, _ = e.do(t, "DELETE", path, acme.Token, nil)
	if status != fiber.StatusOK {
		t.Errorf("delete by owner: status %d", status)
	}
	status, _ = e.do(t, "GET", path, "", nil)
	if status != fiber.StatusNotFound {
		t.Errorf("get deleted job: status %d, want 404", status)
	}
}

func TestAdminRoutes(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	if _, err := e.svc.Auth.CreateAdmin(ctx, &in.CreateAdminRequest{
		Name: "Root", Email: "root@x.com", Password: "secret1",
	}); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	status, env := e.do(t, "POST", "/api/auth/admin/login", "", map[string]any{
		"email": "root@x.com", "password": "secret1",
	})
	if status != fiber.StatusOK {
		t.Fatalf("admin login: status %d: %s", status, env.Message)
	}
	var admin in.AuthResponse
	decode(t, env, &admin)

	acme := e.registerCompany(t, "hr@acme.com", "12345678000199")
	job := e.createJob(t, acme.Token, "Go Developer")

	status, _ = e.do(t, "GET", "/api/admin/stats", admin.Token, nil)
	if status != fiber.StatusOK {
		t.Errorf("stats: status %d", status)
	}

	statusPath := "/api/admin/jobs/" + strconv.FormatInt(job.ID, 10) + "/status"
	status, env = e.do(t, "PUT", statusPath, admin.Token, map[string]any{"isActive": false})
	if status != fiber.StatusOK {
		t.Fatalf("deactivate job: status %d: %s", status, env.Message)
	}

	status, env = e.do(t, "GET", "/api/jobs?active=true", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("list jobs: status %d", status)
	}
	var list struct {
		Jobs []jobBody `json:"jobs"`
	}
	decode(t, env, &list)
	if len(list.Jobs) != 0 {
		t.Errorf("active filter returned inactive job: %+v", list.Jobs)
	}

	status, _ = e.do(t, "PUT", "/api/admin/users/"+acme.UserID.String()+"/block", admin.Token, nil)
	if status != fiber.StatusNotImplemented {
		t.Errorf("block user: status %d, want 501", status)
	}
}

func TestUploadResume(t *testing.T) {
	e := newTestEnv(t)
	ana := e.registerStudent(t, "ana@x.com")

	newUpload := func(contentType string) *http.Request {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="resume"; filename="cv.pdf"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		part.Write([]byte("%PDF-1.4"))
		w.Close()

		req := httptest.NewRequest("POST", "/api/students/uploads/resume", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		return req
	}

	status, env := e.send(t, newUpload("text/plain"), ana.Token)
	if status != fiber.StatusBadRequest {
		t.Errorf("wrong type: status %d, want 400", status)
	}

	status, env = e.send(t, newUpload("application/pdf"), ana.Token)
	if status != fiber.StatusOK {
		t.Fatalf("upload: status %d: %s", status, env.Message)
	}
	var body struct {
		ResumeURL string `json:"resumeUrl"`
	}
	decode(t, env, &body)
	if !strings.HasPrefix(body.ResumeURL, "/uploads/resumes/") {
		t.Errorf("resumeUrl = %q", body.ResumeURL)
	}

	status, env = e.do(t, "GET", "/api/students/me", ana.Token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("me: status %d", status)
	}
	var me struct {
		ResumeURL *string `json:"resumeUrl"`
	}
	decode(t, env, &me)
	if me.ResumeURL == nil || *me.ResumeURL != body.ResumeURL {
		t.Errorf("profile resumeUrl = %v, want %q", me.ResumeURL, body.ResumeURL)
	}
}

func TestHealthAndNotFound(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("health: status %d", resp.StatusCode)
	}

	status, env := e.do(t, "GET", "/api/nope", "", nil)
	if status != fiber.StatusNotFound || env.Status != "error" {
		t.Errorf("unknown route: status %d, env %+v", status, env)
	}
}

func TestMutationsAreAudited(t *testing.T) {
	e := newTestEnv(t)
	e.registerStudent(t, "ana@x.com")

	deadline := time.Now().Add(2 * time.Second)
	for e.audit.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if e.audit.Len() == 0 {
		t.Fatal("registration was not audited")
	}
}
