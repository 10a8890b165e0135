package municipal

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"

	"github.com/civicworks/udcpr-compliance/internal/application"
	auditapp "github.com/civicworks/udcpr-compliance/internal/application/audit"
	notifapp "github.com/civicworks/udcpr-compliance/internal/application/notifications"
	domaudit "github.com/civicworks/udcpr-compliance/internal/domain/audit"
	domnotif "github.com/civicworks/udcpr-compliance/internal/domain/notifications"
	domain "github.com/civicworks/udcpr-compliance/internal/domain/projects"
)

var (
	// ErrEmptyComment rejection needs an explanation for the owner.
	ErrEmptyComment = errors.New("comments are required for rejection")
	// ErrAlreadyDecided approval states are terminal.
	ErrAlreadyDecided = errors.New("project review already decided")
)

// Actor identitas reviewer dari layer auth
type Actor struct {
	TenantID string
	UserID   string
}

// Stats rekap review untuk dashboard municipal
type Stats struct {
	Pending      int64   `json:"pending"`
	Approved     int64   `json:"approved"`
	Rejected     int64   `json:"rejected"`
	Total        int64   `json:"total"`
	ApprovalRate float64 `json:"approvalRate"`
}

// Service implements the approval workflow state machine:
// pending → {approved, rejected}, both terminal. Every successful
// transition emits one audit entry and one owner notification as two
// independent best-effort side effects; neither failure rolls back the
// committed transition.
type Service struct {
	Repo   domain.Repository
	Audit  *auditapp.Service
	Notify *notifapp.Service
	Clock  application.Clock
}

// ListForReview projects berdasarkan approval status; "all" berarti semua
func (s *Service) ListForReview(ctx context.Context, tenant, status string) ([]*domain.Project, error) {
	if status == "" {
		status = string(domain.ApprovalPending)
	}
	if status == "all" {
		return s.Repo.ListAll(ctx, tenant)
	}
	return s.Repo.ListByApproval(ctx, tenant, domain.ApprovalStatus(status))
}

// Approve transitions pending → approved. Comment is optional.
func (s *Service) Approve(ctx context.Context, actor Actor, id domain.ProjectID, comments string) (*domain.Project, error) {
	return s.decide(ctx, actor, id, domain.ApprovalApproved, comments)
}

// Reject transitions pending → rejected. Requires a non-empty comment,
// checked before any mutation.
func (s *Service) Reject(ctx context.Context, actor Actor, id domain.ProjectID, comments string) (*domain.Project, error) {
	if strings.TrimSpace(comments) == "" {
		return nil, ErrEmptyComment
	}
	return s.decide(ctx, actor, id, domain.ApprovalRejected, comments)
}

func (s *Service) decide(ctx context.Context, actor Actor, id domain.ProjectID, decision domain.ApprovalStatus, comments string) (*domain.Project, error) {
	p, err := s.Repo.Get(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if p.ApprovalStatus != domain.ApprovalPending {
		return nil, ErrAlreadyDecided
	}

	now := s.Clock.Now()
	p.ApprovalStatus = decision
	p.ApprovalComments = comments
	p.ReviewedBy = actor.UserID
	p.ReviewedAt = &now
	p.UpdatedAt = now
	if err := s.Repo.Save(ctx, p); err != nil {
		return nil, err
	}

	// transition committed; audit + notification are independent
	// best-effort side effects from here on
	action := "project.approved"
	notification := domnotif.ProjectApproved(p.OwnerID, p.TenantID, p.Name)
	if decision == domain.ApprovalRejected {
		action = "project.rejected"
		notification = domnotif.ProjectRejected(p.OwnerID, p.TenantID, p.Name, comments)
	}

	s.Audit.Log(ctx, auditapp.Event{
		TenantID:     actor.TenantID,
		UserID:       actor.UserID,
		Action:       action,
		ResourceType: "project",
		ResourceID:   string(id),
		Result:       domaudit.ResultSuccess,
		Metadata:     map[string]any{"project_name": p.Name, "comments": comments},
	})
	if err := s.Notify.Create(ctx, notification); err != nil {
		log.Printf("municipal: owner notification for project=%s failed: %v", id, err)
	}
	return p, nil
}

// Statistics counts + approval rate. Rate is 0 when there is nothing to
// divide, otherwise approved/total*100 rounded to one decimal.
func (s *Service) Statistics(ctx context.Context, tenant string) (*Stats, error) {
	pending, approved, rejected, total, err := s.Repo.CountByApproval(ctx, tenant)
	if err != nil {
		return nil, err
	}
	st := &Stats{Pending: pending, Approved: approved, Rejected: rejected, Total: total}
	if total > 0 {
		st.ApprovalRate = math.Round(float64(approved)/float64(total)*1000) / 10
	}
	return st, nil
}
