package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"afyalink/internal/config"
	"afyalink/internal/realtime"
	"afyalink/internal/repository"
	"afyalink/internal/service/ambulance"
	"afyalink/internal/service/audit"
	"afyalink/internal/service/auth"
	"afyalink/internal/service/claim"
	"afyalink/internal/service/dispatch"
	"afyalink/internal/service/email"
	"afyalink/internal/service/notification"
	"afyalink/internal/service/patient"
)

type Services struct {
	Auth         auth.Service
	Patient      patient.Service
	Dispatch     dispatch.Service
	Ambulance    ambulance.Service
	Claim        claim.Service
	Email        email.Service
	Audit        audit.Service
	AuditSink    *audit.Sink
	Notification notification.Service
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, channel *realtime.Channel, cfg *config.Config) *Services {
	sink := audit.NewSink(repos.AuditLog)
	emailService := email.NewService(cfg)
	authService := auth.NewService(repos.User, sink, cfg)
	auditService := audit.NewService(repos.AuditLog, sink, redisClient, minioClient, cfg)
	patientService := patient.NewService(repos.Patient, sink)
	dispatchService := dispatch.NewService(repos.Dispatch, repos.Ambulance, sink, channel)
	ambulanceService := ambulance.NewService(repos.Ambulance, sink, channel)
	claimService := claim.NewService(repos.Claim, repos.Patient, sink)
	notificationService := notification.NewService(repos.Notification, repos.User, emailService, cfg.FacilityID)

	channel.OnNotification(notificationService.HandleRealtimeNotification)

	return &Services{
		Auth:         authService,
		Patient:      patientService,
		Dispatch:     dispatchService,
		Ambulance:    ambulanceService,
		Claim:        claimService,
		Email:        emailService,
		Audit:        auditService,
		AuditSink:    sink,
		Notification: notificationService,
	}
}
