package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"afyalink/internal/domain"
)

// Actor identifies who performed an audited operation, plus the request
// metadata worth keeping.
type Actor struct {
	ID         uuid.UUID
	Role       string
	Name       string
	IPAddress  *string
	UserAgent  *string
	FacilityID *string
}

func (s *Sink) record(actor Actor, action domain.AuditAction, entityType, entityID, description string) *domain.AuditLog {
	name := actor.Name
	return &domain.AuditLog{
		ID:          uuid.New(),
		UserID:      actor.ID,
		UserRole:    actor.Role,
		UserName:    &name,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
		FacilityID:  actor.FacilityID,
		Success:     true,
	}
}

func marshalChanges(changes any) json.RawMessage {
	if changes == nil {
		return nil
	}
	data, err := json.Marshal(changes)
	if err != nil {
		return nil
	}
	return data
}

func (s *Sink) PatientCreated(actor Actor, p *domain.Patient) {
	s.Enqueue(s.record(actor, domain.ActionCreate, "PATIENT", p.ID.String(),
		fmt.Sprintf("Registered patient %s %s", p.FirstName, p.LastName)))
}

func (s *Sink) PatientUpdated(actor Actor, p *domain.Patient, changes any) {
	rec := s.record(actor, domain.ActionUpdate, "PATIENT", p.ID.String(),
		fmt.Sprintf("Updated patient %s %s", p.FirstName, p.LastName))
	rec.Changes = marshalChanges(changes)
	s.Enqueue(rec)
}

func (s *Sink) PatientDeleted(actor Actor, patientID uuid.UUID) {
	s.Enqueue(s.record(actor, domain.ActionDelete, "PATIENT", patientID.String(),
		"Removed patient record"))
}

func (s *Sink) DispatchCreated(actor Actor, call *domain.DispatchCall) {
	s.Enqueue(s.record(actor, domain.ActionCreate, "DISPATCH_CALL", call.ID.String(),
		fmt.Sprintf("Opened %s priority dispatch call at %s", call.Priority, call.Location)))
}

func (s *Sink) DispatchUpdated(actor Actor, call *domain.DispatchCall, changes any) {
	rec := s.record(actor, domain.ActionUpdate, "DISPATCH_CALL", call.ID.String(),
		fmt.Sprintf("Dispatch call moved to %s", call.Status))
	rec.Changes = marshalChanges(changes)
	s.Enqueue(rec)
}

func (s *Sink) AmbulanceStatusChanged(actor Actor, amb *domain.Ambulance, from, to domain.AmbulanceStatus) {
	rec := s.record(actor, domain.ActionUpdate, "AMBULANCE", amb.ID.String(),
		fmt.Sprintf("Ambulance %s status %s -> %s", amb.CallSign, from, to))
	rec.Changes = marshalChanges(map[string]string{"from": string(from), "to": string(to)})
	s.Enqueue(rec)
}

func (s *Sink) LoginSucceeded(actor Actor) {
	s.Enqueue(s.record(actor, domain.ActionLogin, "USER", actor.ID.String(),
		fmt.Sprintf("%s logged in", actor.Name)))
}

func (s *Sink) LoginFailed(email string, ip, userAgent *string) {
	rec := &domain.AuditLog{
		ID:          uuid.New(),
		UserID:      uuid.Nil,
		UserRole:    "unknown",
		Action:      domain.ActionLoginFailed,
		EntityType:  "USER",
		EntityID:    email,
		Description: fmt.Sprintf("Failed login attempt for %s", email),
		IPAddress:   ip,
		UserAgent:   userAgent,
		Success:     false,
	}
	s.Enqueue(rec)
}

func (s *Sink) LoggedOut(actor Actor) {
	s.Enqueue(s.record(actor, domain.ActionLogout, "USER", actor.ID.String(),
		fmt.Sprintf("%s logged out", actor.Name)))
}

func (s *Sink) StaffChanged(actor Actor, user *domain.User, changes any) {
	rec := s.record(actor, domain.ActionUpdate, "USER", user.ID.String(),
		fmt.Sprintf("Updated staff account %s", user.Email))
	rec.Changes = marshalChanges(changes)
	s.Enqueue(rec)
}

func (s *Sink) StaffCreated(actor Actor, user *domain.User) {
	s.Enqueue(s.record(actor, domain.ActionCreate, "USER", user.ID.String(),
		fmt.Sprintf("Created staff account %s (%s)", user.Email, user.Role)))
}

// ClaimSubmitted takes the critical path: claims are money, so the record
// gets an immediate attempt before degrading to the queue.
func (s *Sink) ClaimSubmitted(ctx context.Context, actor Actor, claim *domain.ShaClaim) {
	rec := s.record(actor, domain.ActionSubmitClaim, "SHA_CLAIM", claim.ID.String(),
		fmt.Sprintf("Submitted SHA claim of %d for patient %s", claim.Amount, claim.PatientID))
	_ = s.WriteCritical(ctx, rec)
}

func (s *Sink) ExportRequested(actor Actor, what string) {
	s.Enqueue(s.record(actor, domain.ActionExport, "AUDIT_LOG", what,
		fmt.Sprintf("Exported %s", what)))
}
