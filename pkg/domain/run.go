package domain

import "time"

// StageName identifies one step of the provisioning pipeline.
type StageName string

const (
	StageBootstrap StageName = "bootstrap"
	StageVariables StageName = "variables"
	StageGeometry  StageName = "geometry"
	StageTopology  StageName = "topology"
	StageSetup     StageName = "setup"
	StageSweep     StageName = "sweep"
	StageSolve     StageName = "solve"
	StageExport    StageName = "export"
	StageDocument  StageName = "document"
	StageTeardown  StageName = "teardown"
)

// PipelineOrder is the fixed order in which stages run.
var PipelineOrder = []StageName{
	StageBootstrap, StageVariables, StageGeometry, StageTopology, StageSetup,
	StageSweep, StageSolve, StageExport, StageDocument, StageTeardown,
}

// RunStatus is the overall outcome of a run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// StageStatus is the outcome of a single stage.
type StageStatus string

const (
	StagePending StageStatus = "pending"
	StageRunning StageStatus = "running"
	StageDone    StageStatus = "done"
	StageSkipped StageStatus = "skipped"
	StageFailed  StageStatus = "failed"
)

// StageRecord is the persisted outcome of one stage.
type StageRecord struct {
	Name       StageName   `json:"name"`
	Status     StageStatus `json:"status"`
	StartedAt  time.Time   `json:"started_at,omitempty"`
	FinishedAt time.Time   `json:"finished_at,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Duration is the wall time of the stage, zero if it has not finished.
func (s StageRecord) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// ArtifactKind is the format of a produced file.
type ArtifactKind string

const (
	ArtifactImage ArtifactKind = "image"
	ArtifactCSV   ArtifactKind = "csv"
	ArtifactXLSX  ArtifactKind = "xlsx"
	ArtifactPDF   ArtifactKind = "pdf"
)

// Artifact is a file produced by a run.
type Artifact struct {
	Kind   ArtifactKind `json:"kind"`
	Path   string       `json:"path"`
	Report string       `json:"report,omitempty"`
	// Caption is carried from the report so documents built later can reuse it.
	Caption string `json:"caption,omitempty"`
}

// RunRecord is the persisted history of one pipeline run.
type RunRecord struct {
	ID         string        `json:"id"`
	Project    string        `json:"project"`
	Design     string        `json:"design,omitempty"`
	Topology   TopologyKind  `json:"topology,omitempty"`
	Status     RunStatus     `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
	Stages     []StageRecord `json:"stages"`
	Artifacts  []Artifact    `json:"artifacts,omitempty"`
	Warnings   []string      `json:"warnings,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// NewRunRecord creates a running record with every stage pending.
func NewRunRecord(id string, project ProjectRef, now time.Time) *RunRecord {
	stages := make([]StageRecord, 0, len(PipelineOrder))
	for _, name := range PipelineOrder {
		stages = append(stages, StageRecord{Name: name, Status: StagePending})
	}
	return &RunRecord{
		ID:        id,
		Project:   project.Path,
		Design:    project.Design,
		Status:    RunRunning,
		StartedAt: now,
		Stages:    stages,
	}
}

// Stage returns a pointer to the named stage record, or nil.
func (r *RunRecord) Stage(name StageName) *StageRecord {
	for i := range r.Stages {
		if r.Stages[i].Name == name {
			return &r.Stages[i]
		}
	}
	return nil
}

// Completed reports whether the named stage finished successfully.
func (r *RunRecord) Completed(name StageName) bool {
	s := r.Stage(name)
	return s != nil && s.Status == StageDone
}

// Warn appends a non-fatal warning.
func (r *RunRecord) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// AddArtifact records a produced file.
func (r *RunRecord) AddArtifact(kind ArtifactKind, path, report string) {
	r.Artifacts = append(r.Artifacts, Artifact{Kind: kind, Path: path, Report: report})
}

// ArtifactsOf returns the artifacts of one kind.
func (r *RunRecord) ArtifactsOf(kind ArtifactKind) []Artifact {
	var out []Artifact
	for _, a := range r.Artifacts {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}
