package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/lphuocloc/Oasis-Go-BE/config"
	"github.com/lphuocloc/Oasis-Go-BE/infras/otel"
	"github.com/lphuocloc/Oasis-Go-BE/infras/postgres"
	clusterModel "github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/model"
	clusterRepo "github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/repository"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/model"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/repository"
	"github.com/lphuocloc/Oasis-Go-BE/shared"
	"github.com/lphuocloc/Oasis-Go-BE/shared/cache"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	"github.com/lphuocloc/Oasis-Go-BE/shared/failure"
	"github.com/lphuocloc/Oasis-Go-BE/shared/timezone"
)

const (
	cacheGetPod    = "pod:get"
	cacheGetAllPod = "pod:gets"
	cacheCountPod  = "pod:count"
)

type Pod interface {
	Create(ctx context.Context, req dto.CreatePodRequest) error
	CreateGrid(ctx context.Context, req dto.CreatePodGridRequest) (int, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPodsResponse, error)
	Get(ctx context.Context, id string) (dto.PodResponse, error)
	Update(ctx context.Context, req dto.UpdatePodRequest, id string) error
	Delete(ctx context.Context, id string) error

	Reserve(ctx context.Context, id string) error
	Release(ctx context.Context, id string, toCleaning bool) error
	StartCleaning(ctx context.Context, id string) error
	CompleteCleaning(ctx context.Context, id string) error
	EnterMaintenance(ctx context.Context, id, reason string) error
	ForceOutOfService(ctx context.Context, id, reason string) error
	ExitMaintenance(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Pod
	clusterRepo clusterRepo.Cluster
	transactor  postgres.Transactor
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Pod, clusterRepo clusterRepo.Cluster, transactor postgres.Transactor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Pod {
	return &serviceImpl{
		repo:        repo,
		clusterRepo: clusterRepo,
		transactor:  transactor,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePodRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	clusterExists, err := s.clusterRepo.Exist(ctx, shared.FilterByID(req.ClusterID, clusterModel.FieldID, clusterModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if cluster exists")

		return fmt.Errorf("failed to check if cluster exists: %w", err)
	}

	if !clusterExists {
		return failure.BadRequestFromString("cluster does not exist") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		if isUniqueViolation(err) {
			return failure.Conflict(fmt.Sprintf("pod code %q already exists in this cluster", req.Code)) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create pod")

		return fmt.Errorf("failed to create pod: %w", err)
	}

	s.invalidateListCaches(ctx)

	return nil
}

// CreateGrid creates two pods per grid cell (lower and upper berth). The
// batch is all-or-nothing: one colliding code aborts every row.
func (s *serviceImpl) CreateGrid(ctx context.Context, req dto.CreatePodGridRequest) (created int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateGrid")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	grid := s.cfg.Pod.Grid
	if req.NumRows > grid.MaxRows {
		return 0, failure.UnprocessableEntity(fmt.Sprintf("num_rows exceeds the maximum of %d", grid.MaxRows)) // nolint:wrapcheck
	}

	if req.NumCols > grid.MaxCols {
		return 0, failure.UnprocessableEntity(fmt.Sprintf("num_cols exceeds the maximum of %d", grid.MaxCols)) // nolint:wrapcheck
	}

	total := req.NumRows * req.NumCols * model.GridLevels
	if total > grid.MaxPods {
		return 0, failure.UnprocessableEntity(fmt.Sprintf("grid of %d pods exceeds the maximum of %d", total, grid.MaxPods)) // nolint:wrapcheck
	}

	clusterExists, err := s.clusterRepo.Exist(ctx, shared.FilterByID(req.ClusterID, clusterModel.FieldID, clusterModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if cluster exists")

		return 0, fmt.Errorf("failed to check if cluster exists: %w", err)
	}

	if !clusterExists {
		return 0, failure.BadRequestFromString("cluster does not exist") // nolint:wrapcheck
	}

	colliding, err := s.repo.Count(ctx, filterByClusterCodes(req.ClusterID, model.GridCodes(req.NumRows, req.NumCols)))
	if err != nil {
		log.Error().Err(err).Msg("failed to check for pod code collisions")

		return 0, fmt.Errorf("failed to check for pod code collisions: %w", err)
	}

	if colliding > 0 {
		return 0, failure.Conflict(fmt.Sprintf("%d pod codes already exist in this cluster, no pods were created", colliding)) // nolint:wrapcheck
	}

	pods := req.ToModels(user)

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		return s.repo.InsertBulkTx(ctx, tx, pods)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, failure.Conflict("pod code collision detected, no pods were created") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create pod grid")

		return 0, fmt.Errorf("failed to create pod grid: %w", err)
	}

	s.invalidateListCaches(ctx)

	return len(pods), nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPodsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPod, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for pods")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count pods")

		return res, fmt.Errorf("failed to count pods: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get pods")

		return res, fmt.Errorf("failed to get pods: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save pods to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PodResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetPod, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for pod")

		return res, nil
	}

	pod, err := s.loadPod(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(pod)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save pod to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePodRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()

	if req == (dto.UpdatePodRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if pod exists")

		return fmt.Errorf("failed to check if pod exists: %w", err)
	}

	if !exist {
		return failure.NotFound("pod not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update pod")

		return fmt.Errorf("failed to update pod: %w", err)
	}

	s.invalidatePodCaches(ctx, id)

	return nil
}

// Delete removes a pod. Occupied pods are never deleted: the booking
// pointing at them must finish or be cancelled first.
func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()

	pod, err := s.loadPod(ctx, id)
	if err != nil {
		return err
	}

	if pod.Status == model.StatusOccupied {
		return failure.Conflict("pod is occupied and cannot be deleted") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete pod")

		return fmt.Errorf("failed to delete pod: %w", err)
	}

	s.invalidatePodCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Reserve(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reserve")
	defer scope.End()

	return s.transition(ctx, id, []model.Status{model.StatusAvailable}, model.StatusOccupied, nil)
}

func (s *serviceImpl) Release(ctx context.Context, id string, toCleaning bool) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Release")
	defer scope.End()

	target := model.StatusAvailable
	if toCleaning {
		target = model.StatusNeedsCleaning
	}

	return s.transition(ctx, id, []model.Status{model.StatusOccupied}, target, nil)
}

func (s *serviceImpl) StartCleaning(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".StartCleaning")
	defer scope.End()

	return s.transition(ctx, id, []model.Status{model.StatusNeedsCleaning}, model.StatusCleaning, nil)
}

func (s *serviceImpl) CompleteCleaning(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CompleteCleaning")
	defer scope.End()

	return s.transition(ctx, id, []model.Status{model.StatusCleaning}, model.StatusAvailable, map[string]any{
		model.FieldLastCleanedAt: timezone.Now(),
	})
}

func (s *serviceImpl) EnterMaintenance(ctx context.Context, id, reason string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EnterMaintenance")
	defer scope.End()

	return s.transition(ctx, id, nil, model.StatusMaintenance, map[string]any{
		model.FieldStatusReason: reason,
	})
}

func (s *serviceImpl) ForceOutOfService(ctx context.Context, id, reason string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ForceOutOfService")
	defer scope.End()

	return s.transition(ctx, id, nil, model.StatusOutOfService, map[string]any{
		model.FieldStatusReason: reason,
	})
}

func (s *serviceImpl) ExitMaintenance(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExitMaintenance")
	defer scope.End()

	return s.transition(ctx, id, []model.Status{model.StatusMaintenance, model.StatusOutOfService}, model.StatusAvailable, map[string]any{
		model.FieldStatusReason: constant.Empty,
	})
}

// transition performs one guarded status flip. Each operation names the
// source states it may act on; a nil from list leaves the decision to the
// edge table alone (maintenance and out-of-service apply from any state).
// The UPDATE carries the prior status in its WHERE clause: if another actor
// flipped the pod in between, zero rows match and the caller gets a
// conflict instead of a silent double-apply.
func (s *serviceImpl) transition(ctx context.Context, id string, from []model.Status, target model.Status, extra map[string]any) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	pod, err := s.loadPod(ctx, id)
	if err != nil {
		return err
	}

	allowed := len(from) == 0

	for _, status := range from {
		if pod.Status == status {
			allowed = true

			break
		}
	}

	if !allowed || !model.CanTransition(pod.Status, target) {
		return failure.Conflict(fmt.Sprintf("pod %s cannot move from %s to %s", pod.Code, pod.Status, target)) // nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldStatus:        target,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	for key, value := range extra {
		fields[key] = value
	}

	affected, err := s.repo.UpdateCount(ctx, fields, filterByIDAndStatus(id, pod.Status))
	if err != nil {
		log.Error().Err(err).Msg("failed to update pod status")

		return fmt.Errorf("failed to update pod status: %w", err)
	}

	if affected == 0 {
		return failure.Conflict(fmt.Sprintf("pod %s was modified concurrently, no longer %s", pod.Code, pod.Status)) // nolint:wrapcheck
	}

	s.invalidatePodCaches(ctx, id)

	return nil
}

func (s *serviceImpl) loadPod(ctx context.Context, id string) (model.Pod, error) {
	pod, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get pod")

		return pod, fmt.Errorf("failed to get pod: %w", err)
	}

	if pod.ID == constant.Empty {
		return pod, failure.NotFound("pod not found") // nolint:wrapcheck
	}

	return pod, nil
}

func (s *serviceImpl) invalidatePodCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetPod, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete pod from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllPod)
		shared.InvalidateCaches(c, s.cache, cacheCountPod)
	}()
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllPod)
		shared.InvalidateCaches(c, s.cache, cacheCountPod)
	}()
}

func filterByIDAndStatus(id string, status model.Status) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    status,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

func filterByClusterCodes(clusterID string, codes []string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldClusterID,
				Value:    clusterID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldCode,
				Value:    codes,
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
		},
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
}
