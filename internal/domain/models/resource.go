package models

import (
	"time"
)

// ResourceType categorizes the kind of file a resource holds.
type ResourceType string

const (
	TypeConfiguration ResourceType = "Configuration"
	TypeCertificate   ResourceType = "Certificate"
	TypeAccessKey     ResourceType = "AccessKey"
	TypeDocumentation ResourceType = "Documentation"
	TypeDataSample    ResourceType = "DataSample"
)

// Valid reports whether the type is one of the known categories.
func (t ResourceType) Valid() bool {
	switch t {
	case TypeConfiguration, TypeCertificate, TypeAccessKey, TypeDocumentation, TypeDataSample:
		return true
	}
	return false
}

// Resource is a claimable file with bounded stock.
//
// Invariant: 0 <= AvailableQuantity <= TotalQuantity at all times.
// A claim decrements AvailableQuantity by exactly 1; editing TotalQuantity
// preserves the already-consumed delta.
type Resource struct {
	ID                string       `json:"id" db:"id"`
	ProjectID         string       `json:"project_id" db:"project_id"`
	FolderName        string       `json:"folder_name" db:"folder_name"`
	Name              string       `json:"name" db:"name"`
	Type              ResourceType `json:"type" db:"type"`
	Description       string       `json:"description" db:"description"`
	TotalQuantity     int          `json:"total_quantity" db:"total_quantity"`
	AvailableQuantity int          `json:"available_quantity" db:"available_quantity"`
	MaxClaimsPerUser  int          `json:"max_claims_per_user" db:"max_claims_per_user"` // 0 = unlimited
	FileName          string       `json:"file_name" db:"file_name"`
	FileSize          int64        `json:"file_size" db:"file_size"`
	CreatedAt         time.Time    `json:"created_at" db:"created_at"`
}

// Consumed returns the number of units already claimed.
func (r *Resource) Consumed() int {
	return r.TotalQuantity - r.AvailableQuantity
}
