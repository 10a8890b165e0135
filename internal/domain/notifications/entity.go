package notifications

import (
	"fmt"
	"time"
)

// Type enum
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// Notification is one mailbox entry for a user. Only the read flag is
// ever mutated; entries are purged after the retention window.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	TenantID  string    `json:"tenant_id,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	Read      bool      `json:"read"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Helper constructors untuk event workflow

// ProjectApproved notifikasi sukses untuk pemilik project
func ProjectApproved(userID, tenantID, projectName string) *Notification {
	return &Notification{
		UserID:   userID,
		TenantID: tenantID,
		Title:    "Project Approved",
		Message:  fmt.Sprintf("Your project %q has been approved by the municipal officer.", projectName),
		Type:     TypeSuccess,
	}
}

// ProjectRejected notifikasi error untuk pemilik project, echo alasan reviewer
func ProjectRejected(userID, tenantID, projectName, reason string) *Notification {
	return &Notification{
		UserID:   userID,
		TenantID: tenantID,
		Title:    "Project Rejected",
		Message:  fmt.Sprintf("Your project %q has been rejected. Reason: %s", projectName, reason),
		Type:     TypeError,
	}
}

// NewSubmission notifikasi info untuk municipal officer
func NewSubmission(officerID, tenantID, projectName string) *Notification {
	return &Notification{
		UserID:   officerID,
		TenantID: tenantID,
		Title:    "New Project Submission",
		Message:  fmt.Sprintf("A new project %q has been submitted for review.", projectName),
		Type:     TypeInfo,
	}
}
