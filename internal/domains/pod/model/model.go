package model

import (
	"time"

	"github.com/lphuocloc/Oasis-Go-BE/shared/model"
)

const (
	TableName  = "pods"
	EntityName = "pod"

	FieldID                = "id"
	FieldClusterID         = "cluster_id"
	FieldCode              = "code"
	FieldName              = "name"
	FieldSoundproofLevel   = "soundproof_level"
	FieldVentilationLevel  = "ventilation_level"
	FieldPowerOutlets      = "power_outlets"
	FieldHasWifi           = "has_wifi"
	FieldMaxSessionMinutes = "max_session_minutes"
	FieldLastCleanedAt     = "last_cleaned_at"
	FieldStatus            = "status"
	FieldStatusReason      = "status_reason"
)

type Status string

const (
	StatusAvailable     Status = "AVAILABLE"
	StatusOccupied      Status = "OCCUPIED"
	StatusNeedsCleaning Status = "NEEDS_CLEANING"
	StatusCleaning      Status = "CLEANING"
	StatusMaintenance   Status = "MAINTENANCE"
	StatusOutOfService  Status = "OUT_OF_SERVICE"
)

// transitions is the whole pod state machine. MAINTENANCE and
// OUT_OF_SERVICE are administrative overrides reachable from any state, so
// they are handled separately in CanTransition.
var transitions = map[Status][]Status{
	StatusAvailable:     {StatusOccupied},
	StatusOccupied:      {StatusNeedsCleaning, StatusAvailable},
	StatusNeedsCleaning: {StatusCleaning},
	StatusCleaning:      {StatusAvailable},
	StatusMaintenance:   {StatusAvailable},
	StatusOutOfService:  {StatusAvailable},
}

// Valid reports whether s is one of the known pod statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusNeedsCleaning, StatusCleaning, StatusMaintenance, StatusOutOfService:
		return true
	default:
		return false
	}
}

// CanTransition is the pure transition function: it decides from the prior
// state alone whether the move to the target state is legal.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}

	if to == StatusMaintenance || to == StatusOutOfService {
		return true
	}

	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

type Pod struct {
	ID                string     `db:"id"`
	ClusterID         string     `db:"cluster_id"`
	Code              string     `db:"code"`
	Name              string     `db:"name"`
	SoundproofLevel   int        `db:"soundproof_level"`
	VentilationLevel  int        `db:"ventilation_level"`
	PowerOutlets      int        `db:"power_outlets"`
	HasWifi           bool       `db:"has_wifi"`
	MaxSessionMinutes int        `db:"max_session_minutes"`
	LastCleanedAt     *time.Time `db:"last_cleaned_at"`
	Status            Status     `db:"status"`
	StatusReason      string     `db:"status_reason"`
	model.Metadata
}
