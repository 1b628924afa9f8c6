package model

import (
	"github.com/lphuocloc/Oasis-Go-BE/shared/model"
)

const (
	TableName  = "incidents"
	EntityName = "incident"

	FieldID          = "id"
	FieldPodID       = "pod_id"
	FieldDescription = "description"
	FieldSeverity    = "severity"
	FieldStatus      = "status"
)

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// RequiresShutdown reports whether an incident of this severity takes the
// pod out of service on creation.
func (s Severity) RequiresShutdown() bool {
	return s == SeverityHigh || s == SeverityCritical
}

type Status string

const (
	StatusPending       Status = "PENDING"
	StatusInvestigating Status = "INVESTIGATING"
	StatusResolved      Status = "RESOLVED"
	StatusClosed        Status = "CLOSED"
)

// statusRank orders the incident workflow. Updates may only move forward;
// skipping ahead is allowed, moving back is not.
var statusRank = map[Status]int{
	StatusPending:       0,
	StatusInvestigating: 1,
	StatusResolved:      2,
	StatusClosed:        3,
}

func CanAdvance(from, to Status) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}

	toRank, ok := statusRank[to]
	if !ok {
		return false
	}

	return toRank > fromRank
}

type Incident struct {
	ID          string   `db:"id"`
	PodID       string   `db:"pod_id"`
	Description string   `db:"description"`
	Severity    Severity `db:"severity"`
	Status      Status   `db:"status"`
	model.Metadata
}
