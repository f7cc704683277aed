package handlers

import (
	bookingSvc "agendly/services/booking"
	planningSvc "agendly/services/planning"
	providerSvc "agendly/services/provider"
	"agendly/services/scheduling"
	"agendly/services/tasks"
)

// HandlerBundle groups the services every endpoint handler depends on.
type HandlerBundle struct {
	ProviderService providerSvc.ProviderService
	BookingService  bookingSvc.BookingService
	PlanningService planningSvc.PlanningService
	Engine          scheduling.SchedulingEngine
	Enqueuer        *tasks.Enqueuer
}
