package dto

import (
	"github.com/google/uuid"

	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/model"
	"github.com/lphuocloc/Oasis-Go-BE/shared"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	gModel "github.com/lphuocloc/Oasis-Go-BE/shared/model"
	"github.com/lphuocloc/Oasis-Go-BE/shared/timezone"
)

type CreatePodRequest struct {
	ClusterID         string `json:"cluster_id"          validate:"required"`
	Code              string `json:"code"                validate:"required,max=10"`
	Name              string `json:"name"                validate:"omitempty,max=100"`
	SoundproofLevel   int    `json:"soundproof_level"    validate:"omitempty,min=0,max=5"`
	VentilationLevel  int    `json:"ventilation_level"   validate:"omitempty,min=0,max=5"`
	PowerOutlets      int    `json:"power_outlets"       validate:"omitempty,min=0"`
	HasWifi           bool   `json:"has_wifi"            validate:"omitempty"`
	MaxSessionMinutes int    `json:"max_session_minutes" validate:"omitempty,min=0"`
}

func (c *CreatePodRequest) ToModel(user string) model.Pod {
	name := c.Name
	if name == "" {
		name = "Pod " + c.Code
	}

	return model.Pod{
		ID:                uuid.NewString(),
		ClusterID:         c.ClusterID,
		Code:              c.Code,
		Name:              name,
		SoundproofLevel:   c.SoundproofLevel,
		VentilationLevel:  c.VentilationLevel,
		PowerOutlets:      c.PowerOutlets,
		HasWifi:           c.HasWifi,
		MaxSessionMinutes: c.MaxSessionMinutes,
		Status:            model.StatusAvailable,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type CreatePodGridRequest struct {
	ClusterID         string `json:"cluster_id"          validate:"required"`
	NumRows           int    `json:"num_rows"            validate:"required,min=1"`
	NumCols           int    `json:"num_cols"            validate:"required,min=1"`
	SoundproofLevel   int    `json:"soundproof_level"    validate:"omitempty,min=0,max=5"`
	VentilationLevel  int    `json:"ventilation_level"   validate:"omitempty,min=0,max=5"`
	PowerOutlets      int    `json:"power_outlets"       validate:"omitempty,min=0"`
	HasWifi           bool   `json:"has_wifi"            validate:"omitempty"`
	MaxSessionMinutes int    `json:"max_session_minutes" validate:"omitempty,min=0"`
}

func (c *CreatePodGridRequest) ToModels(user string) []model.Pod {
	codes := model.GridCodes(c.NumRows, c.NumCols)
	pods := make([]model.Pod, len(codes))

	for i, code := range codes {
		pods[i] = model.Pod{
			ID:                uuid.NewString(),
			ClusterID:         c.ClusterID,
			Code:              code,
			Name:              "Pod " + code,
			SoundproofLevel:   c.SoundproofLevel,
			VentilationLevel:  c.VentilationLevel,
			PowerOutlets:      c.PowerOutlets,
			HasWifi:           c.HasWifi,
			MaxSessionMinutes: c.MaxSessionMinutes,
			Status:            model.StatusAvailable,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  user,
				ModifiedBy: user,
			},
		}
	}

	return pods
}

type UpdatePodRequest struct {
	Name              string `db:"name"                json:"name"                validate:"omitempty,max=100"`
	SoundproofLevel   *int   `db:"soundproof_level"    json:"soundproof_level"    validate:"omitempty,min=0,max=5"`
	VentilationLevel  *int   `db:"ventilation_level"   json:"ventilation_level"   validate:"omitempty,min=0,max=5"`
	PowerOutlets      *int   `db:"power_outlets"       json:"power_outlets"       validate:"omitempty,min=0"`
	HasWifi           *bool  `db:"has_wifi"            json:"has_wifi"            validate:"omitempty"`
	MaxSessionMinutes *int   `db:"max_session_minutes" json:"max_session_minutes" validate:"omitempty,min=0"`
}

type TransitionPodRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type CreatePodGridResponse struct {
	Created int `json:"created"`
}

type ReleasePodRequest struct {
	ToCleaning bool `json:"to_cleaning"`
}

type PodResponse struct {
	ID                string `json:"id"`
	ClusterID         string `json:"cluster_id"`
	Code              string `json:"code"`
	Name              string `json:"name"`
	SoundproofLevel   int    `json:"soundproof_level"`
	VentilationLevel  int    `json:"ventilation_level"`
	PowerOutlets      int    `json:"power_outlets"`
	HasWifi           bool   `json:"has_wifi"`
	MaxSessionMinutes int    `json:"max_session_minutes"`
	LastCleanedAt     string `json:"last_cleaned_at,omitempty"`
	Status            string `json:"status"`
	StatusReason      string `json:"status_reason,omitempty"`
	gDto.Metadata
}

func (r *PodResponse) FromModel(model model.Pod) {
	r.ID = model.ID
	r.ClusterID = model.ClusterID
	r.Code = model.Code
	r.Name = model.Name
	r.SoundproofLevel = model.SoundproofLevel
	r.VentilationLevel = model.VentilationLevel
	r.PowerOutlets = model.PowerOutlets
	r.HasWifi = model.HasWifi
	r.MaxSessionMinutes = model.MaxSessionMinutes
	r.Status = string(model.Status)
	r.StatusReason = model.StatusReason

	if model.LastCleanedAt != nil {
		r.LastCleanedAt = timezone.Format(*model.LastCleanedAt, constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetPodsResponse struct {
	Pods      []PodResponse `json:"pods"`
	TotalPage int           `json:"total_page"`
	TotalData int           `json:"total_data"`
}

func (r *GetPodsResponse) FromModels(models []model.Pod, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Pods = make([]PodResponse, len(models))
	for i, mod := range models {
		r.Pods[i].FromModel(mod)
	}
}
