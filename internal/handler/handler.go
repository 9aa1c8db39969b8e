package handler

import (
	"github.com/gofiber/fiber/v2"

	"afyalink/internal/domain"
	"afyalink/internal/middleware"
	"afyalink/internal/realtime"
	"afyalink/internal/service"
	"afyalink/internal/service/audit"
)

type Handlers struct {
	Auth         *AuthHandler
	Patient      *PatientHandler
	Dispatch     *DispatchHandler
	Ambulance    *AmbulanceHandler
	Claim        *ClaimHandler
	Audit        *AuditHandler
	Notification *NotificationHandler
	Realtime     *RealtimeHandler
}

func NewHandlers(services *service.Services, channel *realtime.Channel) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Patient:      NewPatientHandler(services.Patient),
		Dispatch:     NewDispatchHandler(services.Dispatch),
		Ambulance:    NewAmbulanceHandler(services.Ambulance),
		Claim:        NewClaimHandler(services.Claim),
		Audit:        NewAuditHandler(services.Audit),
		Notification: NewNotificationHandler(services.Notification),
		Realtime:     NewRealtimeHandler(channel),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()
	if page := c.QueryInt("page"); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size"); pageSize > 0 {
		params.PageSize = pageSize
	}
	params.Validate()
	return params
}

// currentActor assembles the audit identity of the authenticated caller.
func currentActor(c *fiber.Ctx) audit.Actor {
	actor := audit.Actor{
		IPAddress: middleware.GetClientIP(c),
		UserAgent: middleware.GetUserAgent(c),
	}
	if user := middleware.GetCurrentUser(c); user != nil {
		actor.ID = user.ID
		actor.Role = user.Role
		actor.Name = user.FullName
		actor.FacilityID = user.FacilityID
	}
	return actor
}
