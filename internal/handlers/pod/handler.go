package pod

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lphuocloc/Oasis-Go-BE/infras/otel"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/model"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/service"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	"github.com/lphuocloc/Oasis-Go-BE/shared/validator"
	"github.com/lphuocloc/Oasis-Go-BE/transport/http/response"
)

type Handler struct {
	service service.Pod
	otel    otel.Otel
}

func New(service service.Pod, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/pods", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePod)
		routerGroup.Post("/grid", handler.CreatePodGrid)
		routerGroup.Get("/", handler.GetPods)
		routerGroup.Get("/{id}", handler.GetPodByID)
		routerGroup.Patch("/{id}", handler.UpdatePod)
		routerGroup.Delete("/{id}", handler.DeletePod)

		routerGroup.Post("/{id}/reserve", handler.Reserve)
		routerGroup.Post("/{id}/release", handler.Release)
		routerGroup.Post("/{id}/start-cleaning", handler.StartCleaning)
		routerGroup.Post("/{id}/complete-cleaning", handler.CompleteCleaning)
		routerGroup.Post("/{id}/maintenance", handler.EnterMaintenance)
		routerGroup.Post("/{id}/out-of-service", handler.ForceOutOfService)
		routerGroup.Post("/{id}/activate", handler.ExitMaintenance)
	})
}

// CreatePod handles the creation of a single pod.
// @Summary Create a new pod
// @Description Create a single pod under a cluster with an explicit code.
// @Tags Pod
// @Accept json
// @Produce json
// @Param request body dto.CreatePodRequest true "Create Pod Request"
// @Success 201 {object} response.Message "Pod created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/pods [post]
// @Security BearerAuth
func (handler *Handler) CreatePod(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePod")
	defer scope.End()

	req := dto.CreatePodRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create pod")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pod created successfully")

	response.WithMessage(w, http.StatusCreated, "Pod created successfully")
}

// CreatePodGrid handles batch creation of pods laid out as a grid.
// @Summary Create pods as a grid
// @Description Create two pods (lower and upper level) per grid cell. The batch is all-or-nothing.
// @Tags Pod
// @Accept json
// @Produce json
// @Param request body dto.CreatePodGridRequest true "Create Pod Grid Request"
// @Success 201 {object} response.Message "Pods created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/pods/grid [post]
// @Security BearerAuth
func (handler *Handler) CreatePodGrid(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePodGrid")
	defer scope.End()

	req := dto.CreatePodGridRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	created, err := handler.service.CreateGrid(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create pod grid")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pod grid created successfully")

	response.WithJSON(w, http.StatusCreated, dto.CreatePodGridResponse{Created: created})
}

// GetPods retrieves all pods based on query parameters.
// @Summary Get all pods
// @Description Retrieve all pods with optional filtering and pagination.
// @Tags Pod
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param cluster_id query string false "Filter by cluster ID"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[dto.GetPodsResponse] "List of pods"
// @Failure 500 {object} response.Error
// @Router /v1/pods [get]
func (handler *Handler) GetPods(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPods")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	clusterID := r.URL.Query().Get(model.FieldClusterID)
	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if clusterID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldClusterID,
			Operator: gDto.FilterOperatorEq,
			Value:    clusterID,
			Table:    model.TableName,
		})
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	pods, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get pods")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pods retrieved successfully")

	response.WithJSON(w, http.StatusOK, pods)
}

// GetPodByID retrieves a pod by its ID.
// @Summary Get a pod by ID
// @Description Retrieve a pod by its unique identifier.
// @Tags Pod
// @Accept json
// @Produce json
// @Param id path string true "Pod ID"
// @Success 200 {object} response.Data[dto.PodResponse] "Pod details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/pods/{id} [get]
func (handler *Handler) GetPodByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPodByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	pod, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get pod by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pod retrieved successfully")

	response.WithJSON(w, http.StatusOK, pod)
}

// UpdatePod updates an existing pod's descriptive attributes.
// @Summary Update a pod by ID
// @Description Update the amenity attributes of an existing pod. Status changes go through the transition endpoints.
// @Tags Pod
// @Accept json
// @Produce json
// @Param id path string true "Pod ID"
// @Param request body dto.UpdatePodRequest true "Update Pod Request"
// @Success 200 {object} response.Message "Pod updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/pods/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdatePod(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePod")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdatePodRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update pod")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pod updated successfully")

	response.WithMessage(w, http.StatusOK, "Pod updated successfully")
}

// DeletePod deletes a pod by its ID.
// @Summary Delete a pod by ID
// @Description Delete a pod. Occupied pods are refused.
// @Tags Pod
// @Accept json
// @Produce json
// @Param id path string true "Pod ID"
// @Success 200 {object} response.Message "Pod deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/pods/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeletePod(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePod")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete pod")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pod deleted successfully")

	response.WithMessage(w, http.StatusOK, "Pod deleted successfully")
}

// Reserve manually flips a pod from AVAILABLE to OCCUPIED.
// @Summary Reserve a pod
// @Description Move a pod from AVAILABLE to OCCUPIED outside the booking flow (walk-in usage).
// @Tags Pod
// @Produce json
// @Param id path string true "Pod ID"
// @Success 200 {object} response.Message "Pod reserved"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/pods/{id}/reserve [post]
// @Security BearerAuth
func (handler *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Reserve")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Reserve(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reserve pod")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pod reserved")

	response.WithMessage(w, http.StatusOK, "Pod reserved")
}

// Release hands an OCCUPIED pod back, either to NEEDS_CLEANING after a
// session or straight to AVAILABLE on a no-show.
// @Summary Release a pod
// @Description Move a pod from OCCUPIED to NEEDS_CLEANING (after use) or AVAILABLE (before use).
// @Tags Pod
// @Accept json
// @Produce json
// @Param id path string true "Pod ID"
// @Param request body dto.ReleasePodRequest true "Release options"
// @Success 200 {object} response.Message "Pod released"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/pods/{id}/release [post]
// @Security BearerAuth
func (handler *Handler) Release(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Release")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ReleasePodRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Release(ctx, id, req.ToCleaning); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to release pod")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pod released")

	response.WithMessage(w, http.StatusOK, "Pod released")
}

// StartCleaning moves a pod from NEEDS_CLEANING to CLEANING.
// @Summary Start cleaning a pod
// @Description Move a pod from NEEDS_CLEANING to CLEANING.
// @Tags Pod
// @Produce json
// @Param id path string true "Pod ID"
// @Success 200 {object} response.Message "Cleaning started"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/pods/{id}/start-cleaning [post]
// @Security BearerAuth
func (handler *Handler) StartCleaning(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StartCleaning")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.StartCleaning(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to start cleaning pod")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pod cleaning started")

	response.WithMessage(w, http.StatusOK, "Cleaning started")
}

// CompleteCleaning moves a pod from CLEANING back to AVAILABLE.
// @Summary Complete cleaning a pod
// @Description Move a pod from CLEANING to AVAILABLE and stamp last_cleaned_at.
// @Tags Pod
// @Produce json
// @Param id path string true "Pod ID"
// @Success 200 {object} response.Message "Cleaning completed"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/pods/{id}/complete-cleaning [post]
// @Security BearerAuth
func (handler *Handler) CompleteCleaning(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteCleaning")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.CompleteCleaning(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete cleaning pod")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pod cleaning completed")

	response.WithMessage(w, http.StatusOK, "Cleaning completed")
}

// EnterMaintenance puts a pod into MAINTENANCE with a reason.
// @Summary Put a pod into maintenance
// @Description Move a pod into MAINTENANCE from any state, recording the reason.
// @Tags Pod
// @Accept json
// @Produce json
// @Param id path string true "Pod ID"
// @Param request body dto.TransitionPodRequest true "Maintenance reason"
// @Success 200 {object} response.Message "Pod moved to maintenance"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/pods/{id}/maintenance [post]
// @Security BearerAuth
func (handler *Handler) EnterMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".EnterMaintenance")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.TransitionPodRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.EnterMaintenance(ctx, id, req.Reason); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to put pod into maintenance")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pod moved to maintenance")

	response.WithMessage(w, http.StatusOK, "Pod moved to maintenance")
}

// ForceOutOfService takes a pod out of service.
// @Summary Force a pod out of service
// @Description Move a pod into OUT_OF_SERVICE from any state, recording the reason.
// @Tags Pod
// @Accept json
// @Produce json
// @Param id path string true "Pod ID"
// @Param request body dto.TransitionPodRequest true "Shutdown reason"
// @Success 200 {object} response.Message "Pod taken out of service"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/pods/{id}/out-of-service [post]
// @Security BearerAuth
func (handler *Handler) ForceOutOfService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ForceOutOfService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.TransitionPodRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.ForceOutOfService(ctx, id, req.Reason); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to take pod out of service")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pod taken out of service")

	response.WithMessage(w, http.StatusOK, "Pod taken out of service")
}

// ExitMaintenance returns a pod to AVAILABLE after maintenance or shutdown.
// @Summary Reactivate a pod
// @Description Move a pod from MAINTENANCE or OUT_OF_SERVICE back to AVAILABLE.
// @Tags Pod
// @Produce json
// @Param id path string true "Pod ID"
// @Success 200 {object} response.Message "Pod reactivated"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/pods/{id}/activate [post]
// @Security BearerAuth
func (handler *Handler) ExitMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExitMaintenance")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.ExitMaintenance(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reactivate pod")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pod reactivated")

	response.WithMessage(w, http.StatusOK, "Pod reactivated")
}
