package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lphuocloc/Oasis-Go-BE/infras/otel"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/model"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/repository"
	podModel "github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/model"
	podRepo "github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/repository"
	podService "github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/service"
	"github.com/lphuocloc/Oasis-Go-BE/shared"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	"github.com/lphuocloc/Oasis-Go-BE/shared/failure"
	"github.com/lphuocloc/Oasis-Go-BE/shared/timezone"
)

type Incident interface {
	Report(ctx context.Context, req dto.ReportIncidentRequest) (dto.IncidentResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateIncidentStatusRequest) error
	Get(ctx context.Context, id string) (dto.IncidentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetIncidentsResponse, error)
}

type serviceImpl struct {
	repo       repository.Incident
	podRepo    podRepo.Pod
	podService podService.Pod
	otel       otel.Otel
}

func New(repo repository.Incident, podRepo podRepo.Pod, podService podService.Pod, otel otel.Otel) Incident {
	return &serviceImpl{
		repo:       repo,
		podRepo:    podRepo,
		podService: podService,
		otel:       otel,
	}
}

// Report files an incident against a pod. High and critical severities take
// the pod out of service in the same flow so no new booking lands on
// broken hardware.
func (s *serviceImpl) Report(ctx context.Context, req dto.ReportIncidentRequest) (res dto.IncidentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Report")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	podExists, err := s.podRepo.Exist(ctx, shared.FilterByID(req.PodID, podModel.FieldID, podModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if pod exists")

		return res, fmt.Errorf("failed to check if pod exists: %w", err)
	}

	if !podExists {
		return res, failure.NotFound("pod not found") // nolint:wrapcheck
	}

	incident := req.ToModel(user)

	if err = s.repo.Insert(ctx, incident); err != nil {
		log.Error().Err(err).Msg("failed to create incident")

		return res, fmt.Errorf("failed to create incident: %w", err)
	}

	if incident.Severity.RequiresShutdown() {
		reason := fmt.Sprintf("%s incident: %s", incident.Severity, incident.Description)

		if err := s.podService.ForceOutOfService(ctx, req.PodID, reason); err != nil {
			// The pod may already be OUT_OF_SERVICE from an earlier
			// report. The incident record stands either way.
			if failure.HasCode(err, http.StatusConflict) {
				log.Warn().Err(err).Str("podID", req.PodID).Msg("pod already out of service")
			} else {
				log.Error().Err(err).Str("podID", req.PodID).Msg("failed to force pod out of service")
			}
		}
	}

	res.FromModel(incident)

	return res, nil
}

// UpdateStatus advances the incident workflow. Skip-ahead moves are fine,
// backward moves are refused.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateIncidentStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	incident, err := s.loadIncident(ctx, id)
	if err != nil {
		return err
	}

	target := model.Status(req.Status)

	if !model.CanAdvance(incident.Status, target) {
		return failure.Conflict(fmt.Sprintf("incident cannot move from %s to %s", incident.Status, target)) // nolint:wrapcheck
	}

	affected, err := s.repo.UpdateCount(ctx, map[string]any{
		model.FieldStatus:        target,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}, filterByIDAndStatus(id, incident.Status))
	if err != nil {
		log.Error().Err(err).Msg("failed to update incident status")

		return fmt.Errorf("failed to update incident status: %w", err)
	}

	if affected == 0 {
		return failure.Conflict(fmt.Sprintf("incident was modified concurrently, no longer %s", incident.Status)) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.IncidentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	incident, err := s.loadIncident(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(incident)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetIncidentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count incidents")

		return res, fmt.Errorf("failed to count incidents: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get incidents")

		return res, fmt.Errorf("failed to get incidents: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) loadIncident(ctx context.Context, id string) (model.Incident, error) {
	incident, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get incident")

		return incident, fmt.Errorf("failed to get incident: %w", err)
	}

	if incident.ID == constant.Empty {
		return incident, failure.NotFound("incident not found") // nolint:wrapcheck
	}

	return incident, nil
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
