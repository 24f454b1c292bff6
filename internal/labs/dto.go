package labs

// CreateRequest is the payload for opening a lab order against an existing
// prescription.
type CreateRequest struct {
	PrescriptionID int64   `json:"prescription_id" validate:"required"`
	Status         Status  `json:"status" validate:"required"`
	Notes          *string `json:"notes,omitempty"`
}

// NotesRequest replaces a lab order's notes.
type NotesRequest struct {
	Notes string `json:"notes" validate:"required"`
}
