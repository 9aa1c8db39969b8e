package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"afyalink/internal/domain"
	"afyalink/internal/realtime"
	"afyalink/internal/repository"
	"afyalink/internal/service/audit"
)

type Service interface {
	Create(ctx context.Context, actor audit.Actor, input domain.CreateDispatchInput) (*domain.DispatchCall, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DispatchCall, error)
	AssignAmbulance(ctx context.Context, actor audit.Actor, callID, ambulanceID uuid.UUID) (*domain.DispatchCall, error)
	UpdateStatus(ctx context.Context, actor audit.Actor, id uuid.UUID, status domain.DispatchStatus) (*domain.DispatchCall, error)
	List(ctx context.Context, facilityID string, status domain.DispatchStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.DispatchCall], error)
}

type service struct {
	dispatchRepo  repository.DispatchRepository
	ambulanceRepo repository.AmbulanceRepository
	sink          *audit.Sink
	channel       *realtime.Channel
}

func NewService(dispatchRepo repository.DispatchRepository, ambulanceRepo repository.AmbulanceRepository, sink *audit.Sink, channel *realtime.Channel) Service {
	return &service{
		dispatchRepo:  dispatchRepo,
		ambulanceRepo: ambulanceRepo,
		sink:          sink,
		channel:       channel,
	}
}

func (s *service) Create(ctx context.Context, actor audit.Actor, input domain.CreateDispatchInput) (*domain.DispatchCall, error) {
	call := &domain.DispatchCall{
		ID:          uuid.New(),
		CallerName:  input.CallerName,
		CallerPhone: input.CallerPhone,
		Location:    input.Location,
		CountyID:    input.CountyID,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      domain.DispatchPending,
		FacilityID:  input.FacilityID,
		CreatedBy:   actor.ID,
	}

	if err := s.dispatchRepo.Create(ctx, call); err != nil {
		return nil, err
	}

	s.sink.DispatchCreated(actor, call)
	s.publishAlert(call)
	return call, nil
}

// publishAlert pushes the new call onto the gateway so nearby facilities
// see it. Best-effort: while disconnected the channel drops it.
func (s *service) publishAlert(call *domain.DispatchCall) {
	severity := "normal"
	if call.Priority == domain.PriorityCritical {
		severity = "critical"
	}
	data, _ := json.Marshal(map[string]string{
		"callId":   call.ID.String(),
		"severity": severity,
		"location": call.Location,
	})

	env := realtime.Envelope{
		Type:       realtime.MsgDispatchAlert,
		Data:       data,
		Timestamp:  time.Now().UTC(),
		FacilityID: call.FacilityID,
		Priority:   realtime.Priority(call.Priority),
	}
	if call.CountyID != nil {
		env.CountyID = *call.CountyID
	}
	s.channel.Send(env)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.DispatchCall, error) {
	call, err := s.dispatchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if call == nil {
		return nil, domain.ErrDispatchNotFound
	}
	return call, nil
}

func (s *service) AssignAmbulance(ctx context.Context, actor audit.Actor, callID, ambulanceID uuid.UUID) (*domain.DispatchCall, error) {
	call, err := s.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}

	amb, err := s.ambulanceRepo.GetByID(ctx, ambulanceID)
	if err != nil {
		return nil, err
	}
	if amb == nil {
		return nil, domain.ErrAmbulanceNotFound
	}
	if amb.Status != domain.AmbulanceAvailable {
		return nil, domain.ErrInvalidStatus
	}

	if err := s.dispatchRepo.AssignAmbulance(ctx, callID, ambulanceID); err != nil {
		return nil, err
	}
	if err := s.ambulanceRepo.UpdateStatus(ctx, ambulanceID, domain.AmbulanceEnRoute, nil); err != nil {
		return nil, err
	}

	call.AmbulanceID = &ambulanceID
	call.Status = domain.DispatchAssigned

	s.sink.DispatchUpdated(actor, call, map[string]string{"ambulance_id": ambulanceID.String()})
	return call, nil
}

func (s *service) UpdateStatus(ctx context.Context, actor audit.Actor, id uuid.UUID, status domain.DispatchStatus) (*domain.DispatchCall, error) {
	call, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := call.Status
	if err := s.dispatchRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	call.Status = status

	s.sink.DispatchUpdated(actor, call, map[string]string{"from": string(previous), "to": string(status)})
	return call, nil
}

func (s *service) List(ctx context.Context, facilityID string, status domain.DispatchStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.DispatchCall], error) {
	calls, total, err := s.dispatchRepo.List(ctx, facilityID, status, params)
	if err != nil {
		return domain.PaginatedResponse[domain.DispatchCall]{}, err
	}
	return domain.NewPaginatedResponse(calls, params.Page, params.PageSize, total), nil
}
