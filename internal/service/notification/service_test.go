package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"afyalink/internal/domain"
	"afyalink/internal/realtime"
	"afyalink/internal/service/notification"
	"afyalink/tests/mocks"
)

func TestNotificationService_HandleRealtimeNotification(t *testing.T) {
	t.Run("Fans Out To Facility Staff", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		userRepo := new(mocks.UserRepository)
		emailSvc := new(mocks.EmailService)
		svc := notification.NewService(notifRepo, userRepo, emailSvc, "KNH-001")

		staff := []domain.User{
			{ID: uuid.New(), Role: "doctor"},
			{ID: uuid.New(), Role: "nurse"},
		}
		userRepo.On("ListByFacility", mock.Anything, "KNH-001").Return(staff, nil).Once()
		notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Type == domain.NotifDispatchAlert && n.Title == "Dispatch Alert"
		})).Return(nil).Times(2)

		svc.HandleRealtimeNotification(realtime.Notification{
			Kind:     realtime.KindWarning,
			Title:    "Dispatch Alert",
			Body:     "New dispatch call at Thika Road",
			Priority: realtime.PriorityHigh,
			Source:   "DISPATCH_ALERT",
			Duration: 8 * time.Second,
		})

		notifRepo.AssertExpectations(t)
		emailSvc.AssertNotCalled(t, "SendEmergencyAlertEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Emergency Also Mails On-Call", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		userRepo := new(mocks.UserRepository)
		emailSvc := new(mocks.EmailService)
		svc := notification.NewService(notifRepo, userRepo, emailSvc, "KNH-001")

		emailSvc.On("SendEmergencyAlertEmail", mock.Anything, "Mass casualty incident", "All units respond").Return(nil).Once()
		userRepo.On("ListByFacility", mock.Anything, "KNH-001").Return([]domain.User{}, nil).Once()

		svc.HandleRealtimeNotification(realtime.Notification{
			Kind:   realtime.KindEmergency,
			Title:  "Mass casualty incident",
			Body:   "All units respond",
			Source: "EMERGENCY_ALERT",
		})

		emailSvc.AssertExpectations(t)
	})

	t.Run("Connection Chatter Is Not Stored", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		userRepo := new(mocks.UserRepository)
		emailSvc := new(mocks.EmailService)
		svc := notification.NewService(notifRepo, userRepo, emailSvc, "KNH-001")

		svc.HandleRealtimeNotification(realtime.Notification{
			Kind:   realtime.KindError,
			Title:  "Connection Error",
			Source: "connection",
		})

		userRepo.AssertNotCalled(t, "ListByFacility", mock.Anything, mock.Anything)
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Store Failure Is Swallowed", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		userRepo := new(mocks.UserRepository)
		emailSvc := new(mocks.EmailService)
		svc := notification.NewService(notifRepo, userRepo, emailSvc, "KNH-001")

		userRepo.On("ListByFacility", mock.Anything, "KNH-001").Return([]domain.User{{ID: uuid.New()}}, nil).Once()
		notifRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError).Once()

		assert.NotPanics(t, func() {
			svc.HandleRealtimeNotification(realtime.Notification{
				Kind:   realtime.KindWarning,
				Title:  "Resource Alert",
				Source: "RESOURCE_ALERT",
			})
		})
	})
}

func TestNotificationService_GetUnreadCount(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	svc := notification.NewService(notifRepo, new(mocks.UserRepository), new(mocks.EmailService), "KNH-001")

	userID := uuid.New()
	notifRepo.On("CountUnread", mock.Anything, userID).Return(int64(7), nil).Once()

	count, err := svc.GetUnreadCount(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestNotificationService_List(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	svc := notification.NewService(notifRepo, new(mocks.UserRepository), new(mocks.EmailService), "KNH-001")

	userID := uuid.New()
	params := domain.PaginationParams{Page: 1, PageSize: 20}
	notifRepo.On("ListByUser", mock.Anything, userID, true, params).
		Return([]domain.Notification{{UserID: userID}}, int64(1), nil).Once()

	resp, err := svc.List(context.Background(), userID, true, params)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalItems)
	assert.Len(t, resp.Data, 1)
}
