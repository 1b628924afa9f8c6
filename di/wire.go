//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/lphuocloc/Oasis-Go-BE/config"
	"github.com/lphuocloc/Oasis-Go-BE/infras/jwt"
	"github.com/lphuocloc/Oasis-Go-BE/infras/kafka"
	"github.com/lphuocloc/Oasis-Go-BE/infras/otel"
	"github.com/lphuocloc/Oasis-Go-BE/infras/postgres"
	"github.com/lphuocloc/Oasis-Go-BE/infras/redis"
	"github.com/lphuocloc/Oasis-Go-BE/permissions"
	"github.com/lphuocloc/Oasis-Go-BE/shared/cache"
	"github.com/lphuocloc/Oasis-Go-BE/transport/http"
	"github.com/lphuocloc/Oasis-Go-BE/transport/http/middleware"
	"github.com/lphuocloc/Oasis-Go-BE/transport/http/router"

	bookingRepository "github.com/lphuocloc/Oasis-Go-BE/internal/domains/booking/repository"
	bookingService "github.com/lphuocloc/Oasis-Go-BE/internal/domains/booking/service"
	clusterRepository "github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/repository"
	clusterService "github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/service"
	incidentRepository "github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/repository"
	incidentService "github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/service"
	paymentRepository "github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/repository"
	paymentService "github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/service"
	podRepository "github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/repository"
	podService "github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/service"

	bookingHandler "github.com/lphuocloc/Oasis-Go-BE/internal/handlers/booking"
	clusterHandler "github.com/lphuocloc/Oasis-Go-BE/internal/handlers/cluster"
	incidentHandler "github.com/lphuocloc/Oasis-Go-BE/internal/handlers/incident"
	paymentHandler "github.com/lphuocloc/Oasis-Go-BE/internal/handlers/payment"
	podHandler "github.com/lphuocloc/Oasis-Go-BE/internal/handlers/pod"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.Transactor), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var clusterDomain = wire.NewSet(
	clusterRepository.New,
	clusterService.New,
)

var podDomain = wire.NewSet(
	podRepository.New,
	podService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.NewGateway,
	paymentService.New,
)

var incidentDomain = wire.NewSet(
	incidentRepository.New,
	incidentService.New,
)

var domains = wire.NewSet(
	clusterDomain,
	podDomain,
	bookingDomain,
	paymentDomain,
	incidentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	clusterHandler.New,
	podHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	incidentHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
