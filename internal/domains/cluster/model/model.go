package model

import "github.com/lphuocloc/Oasis-Go-BE/shared/model"

const (
	TableName  = "clusters"
	EntityName = "cluster"

	FieldID          = "id"
	FieldLocationID  = "location_id"
	FieldName        = "name"
	FieldDescription = "description"
)

type Cluster struct {
	ID          string `db:"id"`
	LocationID  string `db:"location_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	model.Metadata
}
