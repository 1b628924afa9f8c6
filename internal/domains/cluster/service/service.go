package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/lphuocloc/Oasis-Go-BE/config"
	"github.com/lphuocloc/Oasis-Go-BE/infras/otel"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/model"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/repository"
	"github.com/lphuocloc/Oasis-Go-BE/shared"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	"github.com/lphuocloc/Oasis-Go-BE/shared/failure"
)

type Cluster interface {
	Create(ctx context.Context, req dto.CreateClusterRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetClustersResponse, error)
	Get(ctx context.Context, id string) (dto.ClusterResponse, error)
}

type serviceImpl struct {
	repo repository.Cluster
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.Cluster, cfg *config.Config, otel otel.Otel) Cluster {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateClusterRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return failure.Conflict(fmt.Sprintf("cluster %q already exists in this location", req.Name)) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create cluster")

		return fmt.Errorf("failed to create cluster: %w", err)
	}

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetClustersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count clusters")

		return res, fmt.Errorf("failed to count clusters: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get clusters")

		return res, fmt.Errorf("failed to get clusters: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ClusterResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cluster, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get cluster")

		return res, fmt.Errorf("failed to get cluster: %w", err)
	}

	if cluster.ID == constant.Empty {
		return res, failure.NotFound("cluster not found") // nolint:wrapcheck
	}

	res.FromModel(cluster)

	return res, nil
}
