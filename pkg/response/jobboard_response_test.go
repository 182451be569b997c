package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"jobboard_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
		wantErr   bool
	}{
		{"defaults", "", "", 1, 10, false},
		{"explicit", "3", "25", 3, 25, false},
		{"max limit", "1", "100", 1, 100, false},
		{"zero page", "0", "", 0, 0, true},
		{"negative limit", "", "-1", 0, 0, true},
		{"limit over cap", "", "101", 0, 0, true},
		{"not a number", "abc", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePagination(tt.page, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePagination(%q, %q) error = %v, wantErr %v", tt.page, tt.limit, err, tt.wantErr)
			}
			if tt.wantErr {
				if apperr.GetHTTPStatus(err) != 400 {
					t.Errorf("status = %d, want 400", apperr.GetHTTPStatus(err))
				}
				return
			}
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Errorf("got %+v, want page=%d limit=%d", got, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(PageRequest{Page: 1, Limit: 5}, 12)
	if p.Pages != 3 {
		t.Errorf("pages = %d, want 3", p.Pages)
	}
	if p.Total != 12 || p.Limit != 5 || p.Page != 1 {
		t.Errorf("unexpected pagination %+v", p)
	}

	empty := NewPagination(PageRequest{Page: 1, Limit: 10}, 0)
	if empty.Pages != 0 {
		t.Errorf("pages = %d, want 0", empty.Pages)
	}

	if off := (PageRequest{Page: 3, Limit: 5}).Offset(); off != 10 {
		t.Errorf("offset = %d, want 10", off)
	}
}

func TestError_HidesInternalCause(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("request_id", "req-1")
		return Error(c, errors.New("pq: relation \"jobs\" does not exist"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 500 {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var got Response
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusError {
		t.Errorf("status field = %q", got.Status)
	}
	if got.Reference != "req-1" {
		t.Errorf("reference = %q, want req-1", got.Reference)
	}
	if got.Message != "internal server error" {
		t.Errorf("message leaked internal detail: %q", got.Message)
	}
}

func TestError_ValidationFields(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Error(c, apperr.InvalidInput("email", "Valid email is required"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var got Response
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Errors) != 1 || got.Errors[0].Field != "email" {
		t.Errorf("errors = %+v", got.Errors)
	}
	if got.Reference != "" {
		t.Errorf("client errors should not carry a reference, got %q", got.Reference)
	}
}
