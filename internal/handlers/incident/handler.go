package incident

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lphuocloc/Oasis-Go-BE/infras/otel"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/model"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/service"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	"github.com/lphuocloc/Oasis-Go-BE/shared/validator"
	"github.com/lphuocloc/Oasis-Go-BE/transport/http/response"
)

type Handler struct {
	service service.Incident
	otel    otel.Otel
}

func New(service service.Incident, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/incidents", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.ReportIncident)
		routerGroup.Get("/", handler.GetIncidents)
		routerGroup.Get("/{id}", handler.GetIncidentByID)
		routerGroup.Patch("/{id}/status", handler.UpdateIncidentStatus)
	})
}

// ReportIncident files an incident against a pod.
// @Summary Report an incident
// @Description Report an incident on a pod. High and critical severities take the pod out of service.
// @Tags Incident
// @Accept json
// @Produce json
// @Param request body dto.ReportIncidentRequest true "Report Incident Request"
// @Success 201 {object} response.Data[dto.IncidentResponse] "Incident reported"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/incidents [post]
// @Security BearerAuth
func (handler *Handler) ReportIncident(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReportIncident")
	defer scope.End()

	req := dto.ReportIncidentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	incident, err := handler.service.Report(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to report incident")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Incident reported on pod " + req.PodID)

	response.WithJSON(w, http.StatusCreated, incident)
}

// GetIncidents retrieves all incidents based on query parameters.
// @Summary Get all incidents
// @Description Retrieve all incidents with optional filtering and pagination.
// @Tags Incident
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param pod_id query string false "Filter by pod ID"
// @Param severity query string false "Filter by severity"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[dto.GetIncidentsResponse] "List of incidents"
// @Failure 500 {object} response.Error
// @Router /v1/incidents [get]
// @Security BearerAuth
func (handler *Handler) GetIncidents(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetIncidents")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	podID := r.URL.Query().Get(model.FieldPodID)
	severity := r.URL.Query().Get(model.FieldSeverity)
	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if podID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldPodID,
			Operator: gDto.FilterOperatorEq,
			Value:    podID,
			Table:    model.TableName,
		})
	}

	if severity != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldSeverity,
			Operator: gDto.FilterOperatorEq,
			Value:    severity,
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

	incidents, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get incidents")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Incidents retrieved successfully")

	response.WithJSON(w, http.StatusOK, incidents)
}

// GetIncidentByID retrieves an incident by its ID.
// @Summary Get an incident by ID
// @Description Retrieve an incident by its unique identifier.
// @Tags Incident
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} response.Data[dto.IncidentResponse] "Incident details"
// @Failure 404 {object} response.Error
// @Router /v1/incidents/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetIncidentByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetIncidentByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	incident, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get incident by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Incident retrieved successfully")

	response.WithJSON(w, http.StatusOK, incident)
}

// UpdateIncidentStatus advances the incident workflow.
// @Summary Update incident status
// @Description Advance an incident along PENDING, INVESTIGATING, RESOLVED, CLOSED. Backward moves are refused.
// @Tags Incident
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Param request body dto.UpdateIncidentStatusRequest true "Update Status Request"
// @Success 200 {object} response.Message "Incident status updated"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/incidents/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateIncidentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateIncidentStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateIncidentStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update incident status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Incident status updated")

	response.WithMessage(w, http.StatusOK, "Incident status updated")
}
