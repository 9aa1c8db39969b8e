package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Patient      PatientRepository
	Dispatch     DispatchRepository
	Ambulance    AmbulanceRepository
	Claim        ClaimRepository
	AuditLog     AuditLogRepository
	Notification NotificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Patient:      NewPatientRepository(db),
		Dispatch:     NewDispatchRepository(db),
		Ambulance:    NewAmbulanceRepository(db),
		Claim:        NewClaimRepository(db),
		AuditLog:     NewAuditLogRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
