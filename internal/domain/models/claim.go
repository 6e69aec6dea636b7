package models

import (
	"time"
)

// ClaimRecord is the append-only audit entry produced by a successful claim.
// ResourceID is a reference, not ownership: the record survives if the
// resource is later deleted and then resolves to a missing-resource state.
type ClaimRecord struct {
	ID              string    `json:"id" db:"id"`
	ResourceID      string    `json:"resource_id" db:"resource_id"`
	BorrowerName    string    `json:"borrower_name" db:"borrower_name"`
	BorrowerDept    string    `json:"borrower_dept" db:"borrower_dept"`
	BorrowerContact string    `json:"borrower_contact" db:"borrower_contact"`
	Purpose         string    `json:"purpose" db:"purpose"`
	Quantity        int       `json:"quantity" db:"quantity"` // always 1
	ClaimDate       time.Time `json:"claim_date" db:"claim_date"`
}

// ClaimFilter narrows claim listings. Zero-value fields are ignored.
type ClaimFilter struct {
	ResourceID   string
	BorrowerName string
	Limit        int
	Offset       int
}
