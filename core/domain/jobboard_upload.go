package domain

import (
	"io"
	"path/filepath"
	"strings"
)

// UploadKind selects the destination and acceptance rules of an upload.
type UploadKind string

const (
	UploadResume         UploadKind = "resumes"
	UploadProfilePicture UploadKind = "profile-pictures"
)

const (
	MaxResumeSize         = 5 << 20
	MaxProfilePictureSize = 2 << 20
)

var allowedUploadTypes = map[UploadKind][]string{
	UploadResume: {
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	},
	UploadProfilePicture: {"image/jpeg", "image/png", "image/gif", "image/webp"},
}

// MaxSize is the largest accepted body for the kind, in bytes.
func (k UploadKind) MaxSize() int64 {
	if k == UploadResume {
		return MaxResumeSize
	}
	return MaxProfilePictureSize
}

// Accepts reports whether contentType may be stored under this kind.
func (k UploadKind) Accepts(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	for _, allowed := range allowedUploadTypes[k] {
		if ct == allowed {
			return true
		}
	}
	return false
}

// TypeError is the client-facing rejection message for a wrong content type.
func (k UploadKind) TypeError() string {
	if k == UploadResume {
		return "Invalid file type. Only PDF and DOCX are allowed."
	}
	return "Invalid file type. Only JPEG, PNG, GIF and WEBP are allowed."
}

// UploadedFile is a file received from a multipart form.
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Ext returns the lower-cased extension of the original file name.
func (f *UploadedFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Filename))
}
