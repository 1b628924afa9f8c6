package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"github.com/lphuocloc/Oasis-Go-BE/infras/otel"
	"github.com/lphuocloc/Oasis-Go-BE/infras/postgres"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/model"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	gRepo "github.com/lphuocloc/Oasis-Go-BE/shared/repository"
)

type Incident interface {
	Insert(ctx context.Context, model model.Incident) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Incident, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Incident, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateCount(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Incident]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Incident {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Incident](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
