package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/model"
)

func TestSeverityRequiresShutdown(t *testing.T) {
	assert.False(t, model.SeverityLow.RequiresShutdown())
	assert.False(t, model.SeverityMedium.RequiresShutdown())
	assert.True(t, model.SeverityHigh.RequiresShutdown())
	assert.True(t, model.SeverityCritical.RequiresShutdown())
}

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		name string
		from model.Status
		to   model.Status
		want bool
	}{
		{name: "pending to investigating", from: model.StatusPending, to: model.StatusInvestigating, want: true},
		{name: "investigating to resolved", from: model.StatusInvestigating, to: model.StatusResolved, want: true},
		{name: "resolved to closed", from: model.StatusResolved, to: model.StatusClosed, want: true},
		{name: "skip ahead pending to resolved", from: model.StatusPending, to: model.StatusResolved, want: true},
		{name: "skip ahead pending to closed", from: model.StatusPending, to: model.StatusClosed, want: true},
		{name: "same status refused", from: model.StatusResolved, to: model.StatusResolved, want: false},
		{name: "backwards resolved to pending", from: model.StatusResolved, to: model.StatusPending, want: false},
		{name: "backwards closed to resolved", from: model.StatusClosed, to: model.StatusResolved, want: false},
		{name: "unknown source", from: model.Status("BROKEN"), to: model.StatusClosed, want: false},
		{name: "unknown target", from: model.StatusPending, to: model.Status("BROKEN"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanAdvance(tt.from, tt.to))
		})
	}
}
