package ambulance

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
	Create(ctx context.Context, actor audit.Actor, amb *domain.Ambulance) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ambulance, error)
	UpdateStatus(ctx context.Context, actor audit.Actor, id uuid.UUID, status domain.AmbulanceStatus, location *string) (*domain.Ambulance, error)
	ListByFacility(ctx context.Context, facilityID string) ([]domain.Ambulance, error)
	ListAvailable(ctx context.Context, facilityID string) ([]domain.Ambulance, error)
}

type service struct {
	ambulanceRepo repository.AmbulanceRepository
	sink          *audit.Sink
	channel       *realtime.Channel
}

func NewService(ambulanceRepo repository.AmbulanceRepository, sink *audit.Sink, channel *realtime.Channel) Service {
	return &service{
		ambulanceRepo: ambulanceRepo,
		sink:          sink,
		channel:       channel,
	}
}

func (s *service) Create(ctx context.Context, actor audit.Actor, amb *domain.Ambulance) error {
	if amb.ID == uuid.Nil {
		amb.ID = uuid.New()
	}
	if amb.Status == "" {
		amb.Status = domain.AmbulanceAvailable
	}
	if err := s.ambulanceRepo.Create(ctx, amb); err != nil {
		return err
	}
	s.sink.AmbulanceStatusChanged(actor, amb, "", amb.Status)
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ambulance, error) {
	amb, err := s.ambulanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if amb == nil {
		return nil, domain.ErrAmbulanceNotFound
	}
	return amb, nil
}

func (s *service) UpdateStatus(ctx context.Context, actor audit.Actor, id uuid.UUID, status domain.AmbulanceStatus, location *string) (*domain.Ambulance, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	amb, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := amb.Status
	if err := s.ambulanceRepo.UpdateStatus(ctx, id, status, location); err != nil {
		return nil, err
	}
	amb.Status = status
	if location != nil {
		amb.Location = location
	}

	s.sink.AmbulanceStatusChanged(actor, amb, previous, status)

	// An emergency declaration is pushed to the gateway immediately.
	if status == domain.AmbulanceEmergency {
		data, _ := json.Marshal(map[string]string{
			"ambulanceId": amb.ID.String(),
			"callSign":    amb.CallSign,
			"status":      "emergency",
		})
		s.channel.Send(realtime.Envelope{
			Type:       realtime.MsgAmbulanceStatus,
			Data:       data,
			Timestamp:  time.Now().UTC(),
			FacilityID: amb.FacilityID,
			Priority:   realtime.PriorityCritical,
		})
	}

	return amb, nil
}

func (s *service) ListByFacility(ctx context.Context, facilityID string) ([]domain.Ambulance, error) {
	return s.ambulanceRepo.ListByFacility(ctx, facilityID)
}

func (s *service) ListAvailable(ctx context.Context, facilityID string) ([]domain.Ambulance, error) {
	return s.ambulanceRepo.ListAvailable(ctx, facilityID)
}
