package models

import (
	"time"
)

// Folder is a grouping label inside a project. Resources reference folders
// by (project_id, name), not by folder ID, so the name is immutable: there
// is no rename operation, which keeps the implicit foreign key intact.
type Folder struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	Name      string    `json:"name" db:"name"` // unique within a project
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
