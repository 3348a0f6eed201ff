package entity

import "time"

// Comment is immutable once appended to a MedicalRecord.
type Comment struct {
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

// MedicalRecord belongs to a patient; its comments only ever grow.
type MedicalRecord struct {
	ID           string    `json:"_id"`
	Patient      string    `json:"patient"`
	Complaint    string    `json:"complaint,omitempty"`
	Diagnosis    string    `json:"diagnosis,omitempty"`
	Prescription string    `json:"prescription,omitempty"`
	Comments     []Comment `json:"comments"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
