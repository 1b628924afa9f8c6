package model

import (
	"time"

	"github.com/lphuocloc/Oasis-Go-BE/shared/model"
)

const (
	TableName  = "pod_bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldPodID         = "pod_id"
	FieldStartTime     = "start_time"
	FieldEndTime       = "end_time"
	FieldActualEndTime = "actual_end_time"
	FieldStatus        = "status"
)

type Status string

const (
	StatusBooked    Status = "BOOKED"
	StatusInUse     Status = "IN_USE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// ActiveStatuses are the booking states that hold a claim on a pod's time
// window. Only these participate in overlap checks.
var ActiveStatuses = []string{string(StatusBooked), string(StatusInUse)}

type Booking struct {
	ID            string     `db:"id"`
	PodID         string     `db:"pod_id"`
	StartTime     time.Time  `db:"start_time"`
	EndTime       time.Time  `db:"end_time"`
	ActualEndTime *time.Time `db:"actual_end_time"`
	Status        Status     `db:"status"`
	model.Metadata
}

// Overlaps reports whether the half-open interval [start, end) collides
// with this booking's interval. Touching endpoints do not collide.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndTime) && b.StartTime.Before(end)
}
