package domain

import (
	"time"

	"github.com/google/uuid"
)

// Admin is the profile owned by an ADMIN user.
type Admin struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
