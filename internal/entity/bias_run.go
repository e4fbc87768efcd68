package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// RunStatus is the lifecycle state of a bias run.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// RunMode identifies which pipeline a run executes.
type RunMode string

const (
	ModeWeekly     RunMode = "weekly"
	ModeHourly     RunMode = "hourly"
	ModeEvents     RunMode = "events"
	ModeHighImpact RunMode = "high_impact"
	ModeDrivers    RunMode = "drivers"
)

// BiasRun records one execution of a pipeline.
type BiasRun struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RunID        string         `gorm:"uniqueIndex;not null" json:"run_id"`
	Mode         RunMode        `gorm:"not null" json:"mode"`
	Trigger      string         `gorm:"not null" json:"trigger"`
	Status       RunStatus      `gorm:"not null" json:"status"`
	Signal       sql.NullString `json:"signal"`
	StartedAt    time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt  sql.NullTime   `json:"completed_at"`
	Output       datatypes.JSON `gorm:"type:jsonb" json:"output"`
	ErrorMessage sql.NullString `json:"error_message"`
}

func (BiasRun) TableName() string {
	return "bias_runs"
}
