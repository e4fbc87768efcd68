package dto

import (
	"time"

	"golang-fundamental-bias/internal/entity"
)

// Signal summarizes what an ingestion pass found.
type Signal string

const (
	SignalNone       Signal = "none"
	SignalNewEvents  Signal = "new_events"
	SignalHighImpact Signal = "high_impact"
)

// IngestOptions controls event ingestion.
type IngestOptions struct {
	HighImpactOnly bool
}

// IngestResult reports one ingestion pass.
type IngestResult struct {
	Source        string             `json:"source"`
	Parsed        int                `json:"parsed"`
	New           int                `json:"new"`
	HighImpactNew int                `json:"high_impact_new"`
	Signal        Signal             `json:"signal"`
	Currencies    []string           `json:"currencies"`
	Scores        map[string]float64 `json:"scores,omitempty"`
	HighImpact    []CalendarEvent    `json:"high_impact,omitempty"`
}

// RunRequest asks for one pipeline execution. It is the payload of the
// recalculation stream.
type RunRequest struct {
	RunID   string         `json:"run_id"`
	Mode    entity.RunMode `json:"mode"`
	Trigger string         `json:"trigger"`
}

// ScoreWindow is the time range a scoring pass covers.
type ScoreWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ScoringResult reports one scoring pass.
type ScoringResult struct {
	RunID      string                `json:"run_id"`
	Mode       string                `json:"mode"`
	Window     ScoreWindow           `json:"window"`
	Currencies map[string]float64    `json:"currencies"`
	Pairs      int                   `json:"pairs"`
	Indices    int                   `json:"indices"`
	Markets    map[string]Provenance `json:"markets"`
}

// DriversResult reports one market driver classification pass.
type DriversResult struct {
	Drivers     map[string]string `json:"drivers"`
	Unavailable []string          `json:"unavailable,omitempty"`
}

// RunResponse is the API view of a bias run.
type RunResponse struct {
	RunID        string     `json:"run_id"`
	Mode         string     `json:"mode"`
	Trigger      string     `json:"trigger"`
	Status       string     `json:"status"`
	Signal       string     `json:"signal,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Output       any        `json:"output,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// RunOutcome is what a pipeline strategy reports back to the run executor.
type RunOutcome struct {
	Signal Signal      `json:"signal,omitempty"`
	Output interface{} `json:"output"`
}

// EventsOutput is the output of an ingestion run.
type EventsOutput struct {
	IngestResult
	Recalculated bool   `json:"recalculated"`
	RecalcError  string `json:"recalc_error,omitempty"`
	Notified     bool   `json:"notified"`
}

// ScoringOutput is the output of a scoring run.
type ScoringOutput struct {
	ScoringResult
	Drivers *DriversResult `json:"drivers,omitempty"`
}
