package domain

import "testing"

func TestUploadKindAccepts(t *testing.T) {
	tests := []struct {
		kind UploadKind
		ct   string
		want bool
	}{
		{UploadResume, "application/pdf", true},
		{UploadResume, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{UploadResume, "image/png", false},
		{UploadProfilePicture, "image/webp", true},
		{UploadProfilePicture, "IMAGE/JPEG; charset=binary", true},
		{UploadProfilePicture, "application/pdf", false},
	}

	for _, tt := range tests {
		if got := tt.kind.Accepts(tt.ct); got != tt.want {
			t.Errorf("%s.Accepts(%q) = %v, want %v", tt.kind, tt.ct, got, tt.want)
		}
	}
}

func TestUploadKindMaxSize(t *testing.T) {
	if UploadResume.MaxSize() != 5*1024*1024 {
		t.Errorf("resume max = %d", UploadResume.MaxSize())
	}
	if UploadProfilePicture.MaxSize() != 2*1024*1024 {
		t.Errorf("picture max = %d", UploadProfilePicture.MaxSize())
	}
}
