package labs

import "time"

// Status enumerates the lab workflow. Completed and cancelled are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether the status belongs to the closed set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// LabOrder tracks the physical production of a prescription. Its lifecycle is
// independent of the retail order that created the prescription.
type LabOrder struct {
	ID             int64     `json:"id"`
	PrescriptionID int64     `json:"prescription_id"`
	Status         Status    `json:"status"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ListFilters narrows the lab order listing.
type ListFilters struct {
	Status *Status
	Limit  int
	Offset int
}
