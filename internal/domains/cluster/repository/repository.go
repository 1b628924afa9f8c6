package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"github.com/lphuocloc/Oasis-Go-BE/infras/otel"
	"github.com/lphuocloc/Oasis-Go-BE/infras/postgres"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/model"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	gRepo "github.com/lphuocloc/Oasis-Go-BE/shared/repository"
)

type Cluster interface {
	Insert(ctx context.Context, model model.Cluster) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Cluster, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Cluster, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Cluster]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Cluster {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Cluster](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
