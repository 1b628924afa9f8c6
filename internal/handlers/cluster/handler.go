package cluster

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lphuocloc/Oasis-Go-BE/infras/otel"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/service"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	"github.com/lphuocloc/Oasis-Go-BE/shared/validator"
	"github.com/lphuocloc/Oasis-Go-BE/transport/http/response"
)

type Handler struct {
	service service.Cluster
	otel    otel.Otel
}

func New(service service.Cluster, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/clusters", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateCluster)
		routerGroup.Get("/", handler.GetClusters)
		routerGroup.Get("/{id}", handler.GetClusterByID)
	})
}

// CreateCluster handles the creation of a new cluster.
// @Summary Create a new cluster
// @Description Create a new pod cluster at a location.
// @Tags Cluster
// @Accept json
// @Produce json
// @Param request body dto.CreateClusterRequest true "Create Cluster Request"
// @Success 201 {object} response.Message "Cluster created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/clusters [post]
// @Security BearerAuth
func (handler *Handler) CreateCluster(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCluster")
	defer scope.End()

	req := dto.CreateClusterRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create cluster")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Cluster created successfully")

	response.WithMessage(w, http.StatusCreated, "Cluster created successfully")
}

// GetClusters retrieves all clusters.
// @Summary Get all clusters
// @Description Retrieve all clusters with pagination.
// @Tags Cluster
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetClustersResponse] "List of clusters"
// @Failure 500 {object} response.Error
// @Router /v1/clusters [get]
func (handler *Handler) GetClusters(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetClusters")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	clusters, err := handler.service.GetAll(ctx, queryParams, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get clusters")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Clusters retrieved successfully")

	response.WithJSON(w, http.StatusOK, clusters)
}

// GetClusterByID retrieves a cluster by its ID.
// @Summary Get a cluster by ID
// @Description Retrieve a cluster by its unique identifier.
// @Tags Cluster
// @Accept json
// @Produce json
// @Param id path string true "Cluster ID"
// @Success 200 {object} response.Data[dto.ClusterResponse] "Cluster details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/clusters/{id} [get]
func (handler *Handler) GetClusterByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetClusterByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	cluster, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get cluster by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Cluster retrieved successfully")

	response.WithJSON(w, http.StatusOK, cluster)
}
