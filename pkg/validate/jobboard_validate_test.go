package validate

import (
	"testing"

	"jobboard_server/pkg/apperr"
)

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Level    *int   `json:"level,omitempty" validate:"omitempty,gte=1,lte=5"`
}

func TestStruct(t *testing.T) {
	three := 3
	six := 6

	tests := []struct {
		name       string
		in         loginForm
		wantFields []string
	}{
		{"valid", loginForm{Email: "a@x.com", Password: "secret1", Level: &three}, nil},
		{"bad email", loginForm{Email: "nope", Password: "secret1"}, []string{"email"}},
		{"short password", loginForm{Email: "a@x.com", Password: "123"}, []string{"password"}},
		{"everything wrong", loginForm{Level: &six}, []string{"email", "password", "level"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			appErr := apperr.AsAppError(err)
			if appErr.Code != apperr.CodeValidationFailed {
				t.Fatalf("code = %s, want %s", appErr.Code, apperr.CodeValidationFailed)
			}
			if len(appErr.Fields) != len(tt.wantFields) {
				t.Fatalf("fields = %+v, want %v", appErr.Fields, tt.wantFields)
			}
			for i, f := range tt.wantFields {
				if appErr.Fields[i].Field != f {
					t.Errorf("fields[%d] = %s, want %s", i, appErr.Fields[i].Field, f)
				}
			}
		})
	}
}
