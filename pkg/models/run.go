package models

import (
	"time"

	"github.com/google/uuid"
)

// Run is the persisted history record of one analysis job.
type Run struct {
	ID           uuid.UUID  `db:"id"            json:"id"`
	Role         string     `db:"role"          json:"role"`
	Skills       []string   `db:"skills"        json:"skills"`
	Status       string     `db:"status"        json:"status"`
	Progress     int        `db:"progress"      json:"progress"`
	Message      string     `db:"message"       json:"message"`
	ResultFile   *string    `db:"result_file"   json:"result_file,omitempty"`
	ErrorMessage *string    `db:"error_message" json:"error_message,omitempty"`
	StartedAt    time.Time  `db:"started_at"    json:"started_at"`
	CompletedAt  *time.Time `db:"completed_at"  json:"completed_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"    json:"updated_at"`
}
