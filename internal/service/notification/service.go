package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"afyalink/internal/domain"
	"afyalink/internal/realtime"
	"afyalink/internal/repository"
	"afyalink/internal/service/email"
)

type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	HandleRealtimeNotification(n realtime.Notification)
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	emailSvc  email.Service

	facilityID string
}

func NewService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, emailSvc email.Service, facilityID string) Service {
	return &service{
		notifRepo:  notifRepo,
		userRepo:   userRepo,
		emailSvc:   emailSvc,
		facilityID: facilityID,
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.notifRepo.MarkAsRead(ctx, id)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

// HandleRealtimeNotification is the observer registered on the realtime
// channel. It fans a channel notification out to every active staff member
// of the facility and, for emergencies, mails the on-call address. Failures
// here must never reach the channel, so everything is logged and swallowed.
func (s *service) HandleRealtimeNotification(n realtime.Notification) {
	ctx := context.Background()

	if n.Kind == realtime.KindEmergency {
		if err := s.emailSvc.SendEmergencyAlertEmail(ctx, n.Title, n.Body); err != nil {
			log.Printf("notification: emergency email failed: %v", err)
		}
	}

	// Connection chatter stays on screen only; gateway events are stored.
	if n.Source == "connection" {
		return
	}

	users, err := s.userRepo.ListByFacility(ctx, s.facilityID)
	if err != nil {
		log.Printf("notification: cannot list recipients: %v", err)
		return
	}

	data, _ := json.Marshal(map[string]string{
		"source":   n.Source,
		"priority": string(n.Priority),
	})

	for _, user := range users {
		notif := &domain.Notification{
			ID:       uuid.New(),
			UserID:   user.ID,
			Type:     domain.NotificationType(n.Source),
			Title:    n.Title,
			Message:  n.Body,
			Priority: string(n.Priority),
			Data:     data,
		}
		if err := s.notifRepo.Create(ctx, notif); err != nil {
			log.Printf("notification: failed to store for user %s: %v", user.ID, err)
		}
	}
}
