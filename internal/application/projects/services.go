package projects

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/civicworks/udcpr-compliance/internal/application"
	auditapp "github.com/civicworks/udcpr-compliance/internal/application/audit"
	notifapp "github.com/civicworks/udcpr-compliance/internal/application/notifications"
	domaudit "github.com/civicworks/udcpr-compliance/internal/domain/audit"
	"github.com/civicworks/udcpr-compliance/internal/domain/engine"
	domnotif "github.com/civicworks/udcpr-compliance/internal/domain/notifications"
	domain "github.com/civicworks/udcpr-compliance/internal/domain/projects"
)

// Actor identitas principal dari layer auth
type Actor struct {
	TenantID string
	UserID   string
}

// Service implements use-cases untuk Project.
// EngineTimeout bounds the primary evaluation call; any failure inside it
// collapses to the local fallback within the same request, no retry.
type Service struct {
	Repo          domain.Repository
	Engine        engine.Client
	EngineTimeout time.Duration
	Audit         *auditapp.Service
	Notify        *notifapp.Service
	// ReviewerIDs are the municipal officer accounts that get the
	// new-submission notification. Supplied by config; the auth layer
	// owns user management.
	ReviewerIDs []string
	Clock       application.Clock
}

// CreateProjectCommand input pembuatan project baru
type CreateProjectCommand struct {
	Name         string
	Jurisdiction string
	Zone         string
	Plot         domain.PlotDetails
	Building     domain.BuildingDetails
	Special      domain.SpecialConditions
}

// Create project baru, status draft + approval pending
func (s *Service) Create(ctx context.Context, actor Actor, cmd CreateProjectCommand) (*domain.Project, error) {
	now := s.Clock.Now()
	p := &domain.Project{
		ID:             domain.ProjectID(uuid.New().String()),
		TenantID:       actor.TenantID,
		OwnerID:        actor.UserID,
		Name:           cmd.Name,
		Jurisdiction:   cmd.Jurisdiction,
		Zone:           cmd.Zone,
		Plot:           cmd.Plot,
		Building:       cmd.Building,
		Special:        cmd.Special,
		Status:         domain.StatusDraft,
		ApprovalStatus: domain.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.Audit.Log(ctx, auditapp.Event{
		TenantID:     actor.TenantID,
		UserID:       actor.UserID,
		Action:       "project.created",
		ResourceType: "project",
		ResourceID:   string(p.ID),
		Result:       domaudit.ResultSuccess,
	})
	return p, nil
}

// Get satu project milik actor
func (s *Service) Get(ctx context.Context, actor Actor, id domain.ProjectID) (*domain.Project, error) {
	return s.Repo.GetOwned(ctx, actor.TenantID, actor.UserID, id)
}

// List semua project milik actor, updated terbaru dulu
func (s *Service) List(ctx context.Context, actor Actor) ([]*domain.Project, error) {
	return s.Repo.ListByOwner(ctx, actor.TenantID, actor.UserID)
}

// UpdateProjectCommand field yang boleh diubah owner
type UpdateProjectCommand struct {
	Name         string
	Jurisdiction string
	Zone         string
	Plot         domain.PlotDetails
	Building     domain.BuildingDetails
	Special      domain.SpecialConditions
}

// Update project parameters. Evaluation hasil lama dibiarkan; caller harus
// evaluate ulang kalau parameternya berubah.
func (s *Service) Update(ctx context.Context, actor Actor, id domain.ProjectID, cmd UpdateProjectCommand) (*domain.Project, error) {
	p, err := s.Repo.GetOwned(ctx, actor.TenantID, actor.UserID, id)
	if err != nil {
		return nil, err
	}
	p.Name = cmd.Name
	p.Jurisdiction = cmd.Jurisdiction
	p.Zone = cmd.Zone
	p.Plot = cmd.Plot
	p.Building = cmd.Building
	p.Special = cmd.Special
	p.UpdatedAt = s.Clock.Now()

	if err := s.Repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.Audit.Log(ctx, auditapp.Event{
		TenantID:     actor.TenantID,
		UserID:       actor.UserID,
		Action:       "project.updated",
		ResourceType: "project",
		ResourceID:   string(id),
		Result:       domaudit.ResultSuccess,
	})
	return p, nil
}

// Delete project milik actor
func (s *Service) Delete(ctx context.Context, actor Actor, id domain.ProjectID) error {
	if err := s.Repo.Delete(ctx, actor.TenantID, actor.UserID, id); err != nil {
		return err
	}
	s.Audit.Log(ctx, auditapp.Event{
		TenantID:     actor.TenantID,
		UserID:       actor.UserID,
		Action:       "project.deleted",
		ResourceType: "project",
		ResourceID:   string(id),
		Result:       domaudit.ResultSuccess,
	})
	return nil
}

// Evaluate runs the project through the rule engine. The primary call is
// bounded by EngineTimeout; timeout, transport error and non-success
// status are treated identically as "engine unavailable" and collapse to
// the deterministic fallback. Evaluation never hard-fails because the
// engine is down. Re-invocation overwrites the prior result; status stays
// evaluated.
func (s *Service) Evaluate(ctx context.Context, actor Actor, id domain.ProjectID) (*domain.Project, *engine.Outcome, error) {
	p, err := s.Repo.GetOwned(ctx, actor.TenantID, actor.UserID, id)
	if err != nil {
		return nil, nil, err
	}

	in := p.EvaluationInput()
	outcome := s.evaluate(ctx, in)

	p.Evaluation = &outcome.Result
	p.Status = domain.StatusEvaluated
	p.UpdatedAt = s.Clock.Now()
	if err := s.Repo.Save(ctx, p); err != nil {
		return nil, nil, err
	}

	s.Audit.Log(ctx, auditapp.Event{
		TenantID:     actor.TenantID,
		UserID:       actor.UserID,
		Action:       "project.evaluated",
		ResourceType: "project",
		ResourceID:   string(id),
		Result:       domaudit.ResultSuccess,
		Metadata:     map[string]any{"source": string(outcome.Source), "rule_version": outcome.Result.RuleVersion},
	})
	return p, &outcome, nil
}

func (s *Service) evaluate(ctx context.Context, in domain.EvaluationInput) engine.Outcome {
	timeout := s.EngineTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := s.Engine.Evaluate(ctx2, in)
	if err != nil {
		log.Printf("projects: rule engine unavailable, using fallback calculation: %v", err)
		return engine.Outcome{
			Source: engine.SourceFallback,
			Result: domain.FallbackEvaluation(in, s.Clock.Now()),
		}
	}
	res.Normalize()
	return engine.Outcome{Source: engine.SourcePrimary, Result: res}
}

// Submit moves an evaluated project into review and tells the officers.
// The officer notifications are best-effort.
func (s *Service) Submit(ctx context.Context, actor Actor, id domain.ProjectID) (*domain.Project, error) {
	p, err := s.Repo.GetOwned(ctx, actor.TenantID, actor.UserID, id)
	if err != nil {
		return nil, err
	}
	if p.Evaluation == nil {
		return nil, domain.ErrNotEvaluated
	}
	p.Status = domain.StatusSubmitted
	p.ApprovalStatus = domain.ApprovalPending
	p.UpdatedAt = s.Clock.Now()
	if err := s.Repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.Audit.Log(ctx, auditapp.Event{
		TenantID:     actor.TenantID,
		UserID:       actor.UserID,
		Action:       "project.submitted",
		ResourceType: "project",
		ResourceID:   string(id),
		Result:       domaudit.ResultSuccess,
	})
	for _, officer := range s.ReviewerIDs {
		n := domnotif.NewSubmission(officer, actor.TenantID, p.Name)
		if err := s.Notify.Create(ctx, n); err != nil {
			log.Printf("projects: submission notify officer=%s failed: %v", officer, err)
		}
	}
	return p, nil
}
