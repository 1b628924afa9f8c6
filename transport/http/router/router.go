package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/lphuocloc/Oasis-Go-BE/internal/handlers/booking"
	"github.com/lphuocloc/Oasis-Go-BE/internal/handlers/cluster"
	"github.com/lphuocloc/Oasis-Go-BE/internal/handlers/incident"
	"github.com/lphuocloc/Oasis-Go-BE/internal/handlers/payment"
	"github.com/lphuocloc/Oasis-Go-BE/internal/handlers/pod"
)

type DomainHandlers struct {
	Cluster  cluster.Handler
	Pod      pod.Handler
	Booking  booking.Handler
	Payment  payment.Handler
	Incident incident.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Cluster.Router(routerGroup)
		r.DomainHandlers.Pod.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Incident.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
