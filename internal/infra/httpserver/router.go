package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	auditapp "github.com/civicworks/udcpr-compliance/internal/application/audit"
	municipalapp "github.com/civicworks/udcpr-compliance/internal/application/municipal"
	notifapp "github.com/civicworks/udcpr-compliance/internal/application/notifications"
	projectsapp "github.com/civicworks/udcpr-compliance/internal/application/projects"
	reviewapp "github.com/civicworks/udcpr-compliance/internal/application/review"
	rulesapp "github.com/civicworks/udcpr-compliance/internal/application/rules"
	domaudit "github.com/civicworks/udcpr-compliance/internal/domain/audit"
	domengine "github.com/civicworks/udcpr-compliance/internal/domain/engine"
	domnotif "github.com/civicworks/udcpr-compliance/internal/domain/notifications"
	domprojects "github.com/civicworks/udcpr-compliance/internal/domain/projects"
	"github.com/civicworks/udcpr-compliance/internal/domain/rbac"
	domrules "github.com/civicworks/udcpr-compliance/internal/domain/rules"
	"github.com/civicworks/udcpr-compliance/internal/middleware"
)

// Deps adalah semua service yang di-mount router
type Deps struct {
	Review    *reviewapp.Service
	Rules     *rulesapp.Service
	Projects  *projectsapp.Service
	Municipal *municipalapp.Service
	Audit     *auditapp.Service
	Notify    *notifapp.Service
	Health    http.HandlerFunc
}

type Router struct {
	deps Deps
}

func NewRouter(deps Deps) http.Handler {
	r := &Router{deps: deps}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-User-ID", "X-User-Role"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	if deps.Health != nil {
		mux.Get("/health", deps.Health)
	} else {
		mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		})
	}
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Use(middleware.Identity)

		// Rule staging review (officer-only)
		rt.Group(func(g chi.Router) {
			g.Use(middleware.RequirePermission(rbac.PermRulesManage))
			g.Get("/staging/batches", r.wrap(r.handleListBatches))
			g.Get("/staging/stats", r.wrap(r.handleStagingStats))
			g.Get("/staging/batches/{batchID}/candidates", r.wrap(r.handleListCandidates))
			g.Put("/staging/batches/{batchID}/candidates/{index}", r.wrap(r.handleUpdateCandidate))
			g.Post("/staging/batches/{batchID}/candidates/{index}/approve", r.wrap(r.handleApproveCandidate))
			g.Post("/staging/batches/{batchID}/candidates/{index}/reject", r.wrap(r.handleRejectCandidate))
			g.Post("/staging/batches/{batchID}/candidates/{index}/parse", r.wrap(r.handleParseCandidate))
			g.Get("/staging/images/{pdf}/{page}", r.wrap(r.handlePageImage))
		})

		// Approved rule corpus (read)
		rt.Group(func(g chi.Router) {
			g.Use(middleware.RequirePermission(rbac.PermRulesRead))
			g.Get("/rules", r.wrap(r.handleQueryRules))
			g.Get("/rules/versions", r.wrap(r.handleRuleVersions))
			g.Get("/rules/{ruleID}", r.wrap(r.handleGetRule))
		})

		// Applicant projects
		rt.Group(func(g chi.Router) {
			g.With(middleware.RequirePermission(rbac.PermProjectsCreate)).
				Post("/projects", r.wrap(r.handleCreateProject))
			g.With(middleware.RequirePermission(rbac.PermProjectsRead)).
				Get("/projects", r.wrap(r.handleListProjects))
			g.With(middleware.RequirePermission(rbac.PermProjectsRead)).
				Get("/projects/{id}", r.wrap(r.handleGetProject))
			g.With(middleware.RequirePermission(rbac.PermProjectsUpdate)).
				Put("/projects/{id}", r.wrap(r.handleUpdateProject))
			g.With(middleware.RequirePermission(rbac.PermProjectsDelete)).
				Delete("/projects/{id}", r.wrap(r.handleDeleteProject))
			g.With(middleware.RequirePermission(rbac.PermProjectsRead)).
				Post("/projects/{id}/evaluate", r.wrap(r.handleEvaluateProject))
			g.With(middleware.RequirePermission(rbac.PermProjectsSubmit)).
				Post("/projects/{id}/submit", r.wrap(r.handleSubmitProject))
		})

		// Municipal review workflow
		rt.Group(func(g chi.Router) {
			g.Use(middleware.RequirePermission(rbac.PermProjectsApprove))
			g.Get("/municipal/projects", r.wrap(r.handleReviewList))
			g.Post("/municipal/projects/{id}/approve", r.wrap(r.handleApproveProject))
			g.Post("/municipal/projects/{id}/reject", r.wrap(r.handleRejectProject))
			g.Get("/municipal/stats", r.wrap(r.handleMunicipalStats))
		})

		// Notifications milik user sendiri, tanpa permission gate
		rt.Get("/notifications", r.wrap(r.handleListNotifications))
		rt.Get("/notifications/unread-count", r.wrap(r.handleUnreadCount))
		rt.Post("/notifications/read-all", r.wrap(r.handleMarkAllRead))
		rt.Post("/notifications/{id}/read", r.wrap(r.handleMarkRead))
		rt.Delete("/notifications/{id}", r.wrap(r.handleDeleteNotification))

		// Audit trail
		rt.Group(func(g chi.Router) {
			g.Use(middleware.RequirePermission(rbac.PermAuditRead))
			g.Get("/audit/trail", r.wrap(r.handleAuditTrail))
			g.Get("/audit/stats", r.wrap(r.handleAuditStats))
		})
	})

	return mux
}

var errBadRequest = errors.New("bad request")

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, sql.ErrNoRows),
			errors.Is(err, domrules.ErrNotFound),
			errors.Is(err, domrules.ErrBatchNotFound),
			errors.Is(err, domprojects.ErrNotFound),
			errors.Is(err, domnotif.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, domrules.ErrInvalidIndex),
			errors.Is(err, domprojects.ErrNotEvaluated),
			errors.Is(err, municipalapp.ErrEmptyComment),
			errors.Is(err, errBadRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, municipalapp.ErrAlreadyDecided):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

func (r *Router) actor(req *http.Request) (tenant, userID string) {
	tenant = chi.URLParam(req, "tenant")
	p := middleware.GetPrincipal(req.Context())
	return tenant, p.UserID
}

// --- staging review ---

// GET /v1/{tenant}/staging/batches
func (r *Router) handleListBatches(w http.ResponseWriter, req *http.Request) error {
	batches, err := r.deps.Review.ListBatches(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, batches)
}

// GET /v1/{tenant}/staging/stats
func (r *Router) handleStagingStats(w http.ResponseWriter, req *http.Request) error {
	stats, err := r.deps.Review.Stats(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, stats)
}

// GET /v1/{tenant}/staging/batches/{batchID}/candidates?page=&limit=
func (r *Router) handleListCandidates(w http.ResponseWriter, req *http.Request) error {
	batchID := chi.URLParam(req, "batchID")
	if err := middleware.ValidateBatchID(batchID); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	result, err := r.deps.Review.ListCandidates(req.Context(), batchID, page, limit)
	if err != nil {
		return err
	}
	return writeJSON(w, result)
}

func (r *Router) candidateIndex(req *http.Request) (int, error) {
	idx, err := strconv.Atoi(chi.URLParam(req, "index"))
	if err != nil {
		return 0, fmt.Errorf("%w: index must be numeric", errBadRequest)
	}
	return idx, nil
}

// PUT /v1/{tenant}/staging/batches/{batchID}/candidates/{index}
func (r *Router) handleUpdateCandidate(w http.ResponseWriter, req *http.Request) error {
	tenant, userID := r.actor(req)
	batchID := chi.URLParam(req, "batchID")
	idx, err := r.candidateIndex(req)
	if err != nil {
		return err
	}

	var body domrules.Candidate
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	actor := reviewapp.Actor{TenantID: tenant, UserID: userID}
	if err := r.deps.Review.UpdateCandidate(req.Context(), actor, batchID, idx, body); err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"status": "updated", "batch_id": batchID, "index": idx})
}

// POST /v1/{tenant}/staging/batches/{batchID}/candidates/{index}/approve
func (r *Router) handleApproveCandidate(w http.ResponseWriter, req *http.Request) error {
	tenant, userID := r.actor(req)
	batchID := chi.URLParam(req, "batchID")
	idx, err := r.candidateIndex(req)
	if err != nil {
		return err
	}

	actor := reviewapp.Actor{TenantID: tenant, UserID: userID}
	rule, err := r.deps.Review.ApproveCandidate(req.Context(), actor, batchID, idx)
	if err != nil {
		return err
	}
	return writeJSON(w, rule)
}

// POST /v1/{tenant}/staging/batches/{batchID}/candidates/{index}/reject
func (r *Router) handleRejectCandidate(w http.ResponseWriter, req *http.Request) error {
	tenant, userID := r.actor(req)
	batchID := chi.URLParam(req, "batchID")
	idx, err := r.candidateIndex(req)
	if err != nil {
		return err
	}

	var body struct {
		Reason string `json:"reason"`
	}
	// body optional, reason boleh kosong
	_ = json.NewDecoder(req.Body).Decode(&body)

	actor := reviewapp.Actor{TenantID: tenant, UserID: userID}
	r.deps.Review.RejectCandidate(req.Context(), actor, batchID, idx, body.Reason)
	return writeJSON(w, map[string]any{"status": "rejected", "batch_id": batchID, "index": idx})
}

// POST /v1/{tenant}/staging/batches/{batchID}/candidates/{index}/parse
func (r *Router) handleParseCandidate(w http.ResponseWriter, req *http.Request) error {
	tenant, userID := r.actor(req)
	batchID := chi.URLParam(req, "batchID")
	idx, err := r.candidateIndex(req)
	if err != nil {
		return err
	}

	actor := reviewapp.Actor{TenantID: tenant, UserID: userID}
	cand, err := r.deps.Review.ParseCandidateLogic(req.Context(), actor, batchID, idx)
	if err != nil {
		return err
	}
	return writeJSON(w, cand)
}

// GET /v1/{tenant}/staging/images/{pdf}/{page}
func (r *Router) handlePageImage(w http.ResponseWriter, req *http.Request) error {
	pdf := chi.URLParam(req, "pdf")
	page, err := strconv.Atoi(chi.URLParam(req, "page"))
	if err != nil || page <= 0 {
		return fmt.Errorf("%w: page must be a positive number", errBadRequest)
	}

	img, err := r.deps.Review.PageImage(req.Context(), pdf, page)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "image/png")
	_, err = w.Write(img)
	return err
}

// --- approved rules ---

// GET /v1/{tenant}/rules?jurisdiction=&clause_number=&search=&category=&limit=
func (r *Router) handleQueryRules(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	f := domrules.Filters{
		Jurisdiction: middleware.SanitizeString(q.Get("jurisdiction")),
		ClauseNumber: middleware.SanitizeString(q.Get("clause_number")),
		Search:       middleware.SanitizeString(q.Get("search")),
		Category:     middleware.SanitizeString(q.Get("category")),
	}
	if f.Jurisdiction != "" {
		if err := middleware.ValidateJurisdiction(f.Jurisdiction); err != nil {
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	rules, err := r.deps.Rules.Query(req.Context(), f, limit)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"rules": rules, "count": len(rules)})
}

// GET /v1/{tenant}/rules/versions
func (r *Router) handleRuleVersions(w http.ResponseWriter, req *http.Request) error {
	versions, err := r.deps.Rules.Versions(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, versions)
}

// GET /v1/{tenant}/rules/{ruleID}
func (r *Router) handleGetRule(w http.ResponseWriter, req *http.Request) error {
	rule, err := r.deps.Rules.Get(req.Context(), chi.URLParam(req, "ruleID"))
	if err != nil {
		return err
	}
	return writeJSON(w, rule)
}

// --- projects ---

type projectBody struct {
	Name         string                       `json:"name"`
	Jurisdiction string                       `json:"jurisdiction"`
	Zone         string                       `json:"zone"`
	Plot         domprojects.PlotDetails      `json:"plot_details"`
	Building     domprojects.BuildingDetails  `json:"building_details"`
	Special      domprojects.SpecialConditions `json:"special_conditions"`
}

func (b projectBody) validate() error {
	if b.Name == "" {
		return fmt.Errorf("%w: name is required", errBadRequest)
	}
	if err := middleware.ValidateJurisdiction(b.Jurisdiction); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// POST /v1/{tenant}/projects
func (r *Router) handleCreateProject(w http.ResponseWriter, req *http.Request) error {
	tenant, userID := r.actor(req)

	var body projectBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := body.validate(); err != nil {
		return err
	}

	actor := projectsapp.Actor{TenantID: tenant, UserID: userID}
	p, err := r.deps.Projects.Create(req.Context(), actor, projectsapp.CreateProjectCommand{
		Name:         middleware.SanitizeString(body.Name),
		Jurisdiction: body.Jurisdiction,
		Zone:         middleware.SanitizeString(body.Zone),
		Plot:         body.Plot,
		Building:     body.Building,
		Special:      body.Special,
	})
	if err != nil {
		return err
	}
	w.WriteHeader(http.StatusCreated)
	return writeJSON(w, p)
}

// GET /v1/{tenant}/projects
func (r *Router) handleListProjects(w http.ResponseWriter, req *http.Request) error {
	tenant, userID := r.actor(req)
	list, err := r.deps.Projects.List(req.Context(), projectsapp.Actor{TenantID: tenant, UserID: userID})
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/projects/{id}
func (r *Router) handleGetProject(w http.ResponseWriter, req *http.Request) error {
	tenant, userID := r.actor(req)
	id := domprojects.ProjectID(chi.URLParam(req, "id"))
	p, err := r.deps.Projects.Get(req.Context(), projectsapp.Actor{TenantID: tenant, UserID: userID}, id)
	if err != nil {
		return err
	}
	return writeJSON(w, p)
}

// PUT /v1/{tenant}/projects/{id}
func (r *Router) handleUpdateProject(w http.ResponseWriter, req *http.Request) error {
	tenant, userID := r.actor(req)
	id := domprojects.ProjectID(chi.URLParam(req, "id"))

	var body projectBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := body.validate(); err != nil {
		return err
	}

	actor := projectsapp.Actor{TenantID: tenant, UserID: userID}
	p, err := r.deps.Projects.Update(req.Context(), actor, id, projectsapp.UpdateProjectCommand{
		Name:         middleware.SanitizeString(body.Name),
		Jurisdiction: body.Jurisdiction,
		Zone:         middleware.SanitizeString(body.Zone),
		Plot:         body.Plot,
		Building:     body.Building,
		Special:      body.Special,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, p)
}

// DELETE /v1/{tenant}/projects/{id}
func (r *Router) handleDeleteProject(w http.ResponseWriter, req *http.Request) error {
	tenant, userID := r.actor(req)
	id := domprojects.ProjectID(chi.URLParam(req, "id"))
	if err := r.deps.Projects.Delete(req.Context(), projectsapp.Actor{TenantID: tenant, UserID: userID}, id); err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"status": "deleted", "id": id})
}

// POST /v1/{tenant}/projects/{id}/evaluate
func (r *Router) handleEvaluateProject(w http.ResponseWriter, req *http.Request) error {
	tenant, userID := r.actor(req)
	id := domprojects.ProjectID(chi.URLParam(req, "id"))

	middleware.IncrementEvaluations()
	p, outcome, err := r.deps.Projects.Evaluate(req.Context(), projectsapp.Actor{TenantID: tenant, UserID: userID}, id)
	if err != nil {
		middleware.IncrementEvaluationsFailed()
		return err
	}
	if outcome.Source == domengine.SourceFallback {
		middleware.IncrementFallbacks()
	}
	return writeJSON(w, map[string]any{
		"project": p,
		"source":  outcome.Source,
	})
}

// POST /v1/{tenant}/projects/{id}/submit
func (r *Router) handleSubmitProject(w http.ResponseWriter, req *http.Request) error {
	tenant, userID := r.actor(req)
	id := domprojects.ProjectID(chi.URLParam(req, "id"))
	p, err := r.deps.Projects.Submit(req.Context(), projectsapp.Actor{TenantID: tenant, UserID: userID}, id)
	if err != nil {
		return err
	}
	return writeJSON(w, p)
}

// --- municipal review ---

// GET /v1/{tenant}/municipal/projects?status=
func (r *Router) handleReviewList(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	status := req.URL.Query().Get("status")
	list, err := r.deps.Municipal.ListForReview(req.Context(), tenant, status)
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

func (r *Router) decideBody(req *http.Request) string {
	var body struct {
		Comments string `json:"comments"`
	}
	_ = json.NewDecoder(req.Body).Decode(&body)
	return body.Comments
}

// POST /v1/{tenant}/municipal/projects/{id}/approve
func (r *Router) handleApproveProject(w http.ResponseWriter, req *http.Request) error {
	tenant, userID := r.actor(req)
	id := domprojects.ProjectID(chi.URLParam(req, "id"))
	actor := municipalapp.Actor{TenantID: tenant, UserID: userID}
	p, err := r.deps.Municipal.Approve(req.Context(), actor, id, r.decideBody(req))
	if err != nil {
		return err
	}
	return writeJSON(w, p)
}

// POST /v1/{tenant}/municipal/projects/{id}/reject
func (r *Router) handleRejectProject(w http.ResponseWriter, req *http.Request) error {
	tenant, userID := r.actor(req)
	id := domprojects.ProjectID(chi.URLParam(req, "id"))
	actor := municipalapp.Actor{TenantID: tenant, UserID: userID}
	p, err := r.deps.Municipal.Reject(req.Context(), actor, id, r.decideBody(req))
	if err != nil {
		return err
	}
	return writeJSON(w, p)
}

// GET /v1/{tenant}/municipal/stats
func (r *Router) handleMunicipalStats(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	stats, err := r.deps.Municipal.Statistics(req.Context(), tenant)
	if err != nil {
		return err
	}
	return writeJSON(w, stats)
}

// --- notifications ---

// GET /v1/{tenant}/notifications?limit=&unread=
func (r *Router) handleListNotifications(w http.ResponseWriter, req *http.Request) error {
	_, userID := r.actor(req)
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	unreadOnly := req.URL.Query().Get("unread") == "true"

	list, err := r.deps.Notify.List(req.Context(), userID, limit, unreadOnly)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"notifications": list, "count": len(list)})
}

// GET /v1/{tenant}/notifications/unread-count
func (r *Router) handleUnreadCount(w http.ResponseWriter, req *http.Request) error {
	_, userID := r.actor(req)
	count, err := r.deps.Notify.UnreadCount(req.Context(), userID)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"unread": count})
}

// POST /v1/{tenant}/notifications/{id}/read
func (r *Router) handleMarkRead(w http.ResponseWriter, req *http.Request) error {
	_, userID := r.actor(req)
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id must be numeric", errBadRequest)
	}
	n, err := r.deps.Notify.MarkAsRead(req.Context(), userID, id)
	if err != nil {
		return err
	}
	return writeJSON(w, n)
}

// POST /v1/{tenant}/notifications/read-all
func (r *Router) handleMarkAllRead(w http.ResponseWriter, req *http.Request) error {
	_, userID := r.actor(req)
	if err := r.deps.Notify.MarkAllAsRead(req.Context(), userID); err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"status": "ok"})
}

// DELETE /v1/{tenant}/notifications/{id}
func (r *Router) handleDeleteNotification(w http.ResponseWriter, req *http.Request) error {
	_, userID := r.actor(req)
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id must be numeric", errBadRequest)
	}
	if err := r.deps.Notify.Delete(req.Context(), userID, id); err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"status": "deleted", "id": id})
}

// --- audit ---

func parseTimeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid time %q (want RFC3339)", errBadRequest, raw)
	}
	return &t, nil
}

// GET /v1/{tenant}/audit/trail?user_id=&action=&resource_type=&resource_id=&start=&end=&limit=&skip=&order=
func (r *Router) handleAuditTrail(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	q := req.URL.Query()

	start, err := parseTimeParam(q.Get("start"))
	if err != nil {
		return err
	}
	end, err := parseTimeParam(q.Get("end"))
	if err != nil {
		return err
	}

	f := domaudit.Filters{
		TenantID:     tenant,
		UserID:       q.Get("user_id"),
		Action:       q.Get("action"),
		ResourceType: q.Get("resource_type"),
		ResourceID:   q.Get("resource_id"),
		Start:        start,
		End:          end,
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	skip, _ := strconv.Atoi(q.Get("skip"))
	opts := domaudit.ListOptions{
		Limit:     limit,
		Skip:      skip,
		Ascending: q.Get("order") == "asc",
	}

	trail, err := r.deps.Audit.Trail(req.Context(), f, opts)
	if err != nil {
		return err
	}
	return writeJSON(w, trail)
}

// GET /v1/{tenant}/audit/stats?start=&end=
func (r *Router) handleAuditStats(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	q := req.URL.Query()

	start, err := parseTimeParam(q.Get("start"))
	if err != nil {
		return err
	}
	end, err := parseTimeParam(q.Get("end"))
	if err != nil {
		return err
	}

	var s, e time.Time
	if start != nil {
		s = *start
	}
	if end != nil {
		e = *end
	}

	stats, err := r.deps.Audit.Statistics(req.Context(), tenant, s, e)
	if err != nil {
		return err
	}
	return writeJSON(w, stats)
}
