package dto

import (
	"github.com/google/uuid"

	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/model"
	"github.com/lphuocloc/Oasis-Go-BE/shared"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	gModel "github.com/lphuocloc/Oasis-Go-BE/shared/model"
	"github.com/lphuocloc/Oasis-Go-BE/shared/timezone"
)

type CreateClusterRequest struct {
	LocationID  string `json:"location_id" validate:"required"`
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

func (c *CreateClusterRequest) ToModel(user string) model.Cluster {
	return model.Cluster{
		ID:          uuid.NewString(),
		LocationID:  c.LocationID,
		Name:        c.Name,
		Description: c.Description,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ClusterResponse struct {
	ID          string `json:"id"`
	LocationID  string `json:"location_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	gDto.Metadata
}

func (r *ClusterResponse) FromModel(model model.Cluster) {
	r.ID = model.ID
	r.LocationID = model.LocationID
	r.Name = model.Name
	r.Description = model.Description
	r.Metadata.FromModel(model.Metadata)
}

type GetClustersResponse struct {
	Clusters  []ClusterResponse `json:"clusters"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetClustersResponse) FromModels(models []model.Cluster, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Clusters = make([]ClusterResponse, len(models))
	for i, mod := range models {
		r.Clusters[i].FromModel(mod)
	}
}
