package persistence

import (
	"strings"
	"testing"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"go dev", "%go dev%"},
		{"c_d", `%c\_d%`},
		{"100%", `%100\%%`},
		{`a\b`, `%a\\b%`},
	}
	for _, tt := range tests {
		if got := containsPattern(tt.in); got != tt.want {
			t.Errorf("containsPattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIlikeAnyEscapes(t *testing.T) {
	got := ilikeAny([]string{"j.title", "c.name"}, 3)
	want := `(j.title ILIKE $3 ESCAPE '\' OR c.name ILIKE $3 ESCAPE '\')`
	if got != want {
		t.Errorf("ilikeAny = %s, want %s", got, want)
	}
}

func TestJobRowToDomainContactInfo(t *testing.T) {
	row := jobRow{ID: 1, Title: "Go Dev", ContactInfo: []byte(`{"email":"hr@acme.com"}`)}
	job, err := row.toDomain()
	if err != nil {
		t.Fatalf("toDomain() error = %v", err)
	}
	if job.ContactInfo.Email == nil || *job.ContactInfo.Email != "hr@acme.com" {
		t.Errorf("contact = %+v", job.ContactInfo)
	}

	row.ContactInfo = []byte(`{"email":`)
	if _, err := row.toDomain(); err == nil || !strings.Contains(err.Error(), "contact_info") {
		t.Errorf("corrupt contact_info error = %v", err)
	}
}
