package projects

import (
	"time"
)

// ID tipe untuk Project
type ProjectID string

// Status enum
type Status string

const (
	StatusDraft     Status = "draft"
	StatusEvaluated Status = "evaluated"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// ApprovalStatus is the review sub-state, independent of Status.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// PlotDetails value object
type PlotDetails struct {
	AreaSqm    float64 `json:"area_sqm"`
	RoadWidthM float64 `json:"road_width_m"`
	CornerPlot bool    `json:"corner_plot"`
	FrontageM  float64 `json:"frontage_m"`
}

// BuildingDetails value object
type BuildingDetails struct {
	UseType            string  `json:"use_type"`
	ProposedFloors     int     `json:"proposed_floors"`
	ProposedHeightM    float64 `json:"proposed_height_m"`
	ProposedBuiltUpSqm float64 `json:"proposed_built_up_sqm"`
}

// SpecialConditions flags yang mempengaruhi bonus FSI
type SpecialConditions struct {
	TODZone       bool `json:"tod_zone"`
	Redevelopment bool `json:"redevelopment"`
	SlumRehab     bool `json:"slum_rehab"`
}

// Aggregate Root: Project
type Project struct {
	ID               ProjectID         `json:"id"`
	TenantID         string            `json:"tenant_id"`
	OwnerID          string            `json:"owner_id"`
	Name             string            `json:"name"`
	Jurisdiction     string            `json:"jurisdiction"`
	Zone             string            `json:"zone"`
	Plot             PlotDetails       `json:"plot_details"`
	Building         BuildingDetails   `json:"building_details"`
	Special          SpecialConditions `json:"special_conditions"`
	Status           Status            `json:"status"`
	ApprovalStatus   ApprovalStatus    `json:"approval_status"`
	ApprovalComments string            `json:"approval_comments,omitempty"`
	ReviewedBy       string            `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time        `json:"reviewed_at,omitempty"`
	Evaluation       *EvaluationResult `json:"evaluation_result,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// EvaluationInput is the flat parameter set sent to the rule engine.
type EvaluationInput struct {
	Jurisdiction       string  `json:"jurisdiction"`
	Zone               string  `json:"zone"`
	PlotAreaSqm        float64 `json:"plot_area_sqm"`
	RoadWidthM         float64 `json:"road_width_m"`
	CornerPlot         bool    `json:"corner_plot"`
	FrontageM          float64 `json:"frontage_m"`
	UseType            string  `json:"use_type"`
	ProposedFloors     int     `json:"proposed_floors"`
	ProposedHeightM    float64 `json:"proposed_height_m"`
	ProposedBuiltUpSqm float64 `json:"proposed_built_up_sqm"`
	TODZone            bool    `json:"tod_zone"`
	Redevelopment      bool    `json:"redevelopment"`
	SlumRehab          bool    `json:"slum_rehab"`
}

// EvaluationInput flatten project fields jadi input engine
func (p *Project) EvaluationInput() EvaluationInput {
	return EvaluationInput{
		Jurisdiction:       p.Jurisdiction,
		Zone:               p.Zone,
		PlotAreaSqm:        p.Plot.AreaSqm,
		RoadWidthM:         p.Plot.RoadWidthM,
		CornerPlot:         p.Plot.CornerPlot,
		FrontageM:          p.Plot.FrontageM,
		UseType:            p.Building.UseType,
		ProposedFloors:     p.Building.ProposedFloors,
		ProposedHeightM:    p.Building.ProposedHeightM,
		ProposedBuiltUpSqm: p.Building.ProposedBuiltUpSqm,
		TODZone:            p.Special.TODZone,
		Redevelopment:      p.Special.Redevelopment,
		SlumRehab:          p.Special.SlumRehab,
	}
}
