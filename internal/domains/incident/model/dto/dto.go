package dto

import (
	"github.com/google/uuid"

	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/model"
	"github.com/lphuocloc/Oasis-Go-BE/shared"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	gModel "github.com/lphuocloc/Oasis-Go-BE/shared/model"
	"github.com/lphuocloc/Oasis-Go-BE/shared/timezone"
)

type ReportIncidentRequest struct {
	PodID       string `json:"pod_id"      validate:"required"`
	Description string `json:"description" validate:"required,max=1000"`
	Severity    string `json:"severity"    validate:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
}

func (c *ReportIncidentRequest) ToModel(user string) model.Incident {
	return model.Incident{
		ID:          uuid.NewString(),
		PodID:       c.PodID,
		Description: c.Description,
		Severity:    model.Severity(c.Severity),
		Status:      model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateIncidentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING INVESTIGATING RESOLVED CLOSED"`
}

type IncidentResponse struct {
	ID          string `json:"id"`
	PodID       string `json:"pod_id"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Status      string `json:"status"`
	gDto.Metadata
}

func (r *IncidentResponse) FromModel(model model.Incident) {
	r.ID = model.ID
	r.PodID = model.PodID
	r.Description = model.Description
	r.Severity = string(model.Severity)
	r.Status = string(model.Status)

	r.Metadata.FromModel(model.Metadata)
}

type GetIncidentsResponse struct {
	Incidents []IncidentResponse `json:"incidents"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetIncidentsResponse) FromModels(models []model.Incident, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Incidents = make([]IncidentResponse, len(models))
	for i, mod := range models {
		r.Incidents[i].FromModel(mod)
	}
}
