package ambulance_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"afyalink/internal/domain"
	"afyalink/internal/realtime"
	"afyalink/internal/service/ambulance"
	"afyalink/internal/service/audit"
	"afyalink/tests/mocks"
)

type stubGateway struct {
	mu     sync.Mutex
	frames [][]byte
	done   chan struct{}
}

func newStubGateway() *stubGateway {
	return &stubGateway{done: make(chan struct{})}
}

func (g *stubGateway) Dial(ctx context.Context, url string) (realtime.Conn, error) {
	return g, nil
}

func (g *stubGateway) ReadMessage() (int, []byte, error) {
	<-g.done
	return 0, nil, context.Canceled
}

func (g *stubGateway) WriteMessage(messageType int, data []byte) error {
	g.mu.Lock()
	g.frames = append(g.frames, data)
	g.mu.Unlock()
	return nil
}

func (g *stubGateway) Close() error {
	select {
	case <-g.done:
	default:
		close(g.done)
	}
	return nil
}

func (g *stubGateway) frameCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.frames)
}

func TestAmbulanceService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	actor := audit.Actor{ID: uuid.New(), Role: "dispatcher"}
	ambulanceID := uuid.New()

	newService := func(t *testing.T) (ambulance.Service, *mocks.AmbulanceRepository, *stubGateway) {
		t.Helper()
		repo := new(mocks.AmbulanceRepository)
		auditRepo := new(mocks.AuditLogRepository)
		auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
		gw := newStubGateway()
		channel := realtime.NewChannel("ws://gateway.test/ws", gw)
		channel.Connect()
		t.Cleanup(channel.Disconnect)
		return ambulance.NewService(repo, audit.NewSink(auditRepo), channel), repo, gw
	}

	t.Run("Emergency Is Pushed To Gateway", func(t *testing.T) {
		svc, repo, gw := newService(t)

		repo.On("GetByID", ctx, ambulanceID).Return(&domain.Ambulance{
			ID:         ambulanceID,
			CallSign:   "KBF-12",
			Status:     domain.AmbulanceEnRoute,
			FacilityID: "KNH-001",
		}, nil).Once()
		repo.On("UpdateStatus", ctx, ambulanceID, domain.AmbulanceEmergency, (*string)(nil)).Return(nil).Once()

		amb, err := svc.UpdateStatus(ctx, actor, ambulanceID, domain.AmbulanceEmergency, nil)

		assert.NoError(t, err)
		assert.Equal(t, domain.AmbulanceEmergency, amb.Status)

		gw.mu.Lock()
		frames := append([][]byte{}, gw.frames...)
		gw.mu.Unlock()
		if assert.Len(t, frames, 1) {
			var env realtime.Envelope
			assert.NoError(t, json.Unmarshal(frames[0], &env))
			assert.Equal(t, realtime.MsgAmbulanceStatus, env.Type)
			assert.Equal(t, realtime.PriorityCritical, env.Priority)

			var payload map[string]string
			assert.NoError(t, json.Unmarshal(env.Data, &payload))
			assert.Equal(t, "KBF-12", payload["callSign"])
			assert.Equal(t, "emergency", payload["status"])
		}
	})

	t.Run("Routine Change Stays Off The Gateway", func(t *testing.T) {
		svc, repo, gw := newService(t)

		repo.On("GetByID", ctx, ambulanceID).Return(&domain.Ambulance{
			ID:     ambulanceID,
			Status: domain.AmbulanceEnRoute,
		}, nil).Once()
		repo.On("UpdateStatus", ctx, ambulanceID, domain.AmbulanceAvailable, (*string)(nil)).Return(nil).Once()

		_, err := svc.UpdateStatus(ctx, actor, ambulanceID, domain.AmbulanceAvailable, nil)

		assert.NoError(t, err)
		assert.Equal(t, 0, gw.frameCount())
	})

	t.Run("Invalid Status", func(t *testing.T) {
		svc, repo, _ := newService(t)

		_, err := svc.UpdateStatus(ctx, actor, ambulanceID, domain.AmbulanceStatus("teleporting"), nil)

		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Not Found", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.On("GetByID", ctx, ambulanceID).Return(nil, nil).Once()

		_, err := svc.UpdateStatus(ctx, actor, ambulanceID, domain.AmbulanceAvailable, nil)

		assert.ErrorIs(t, err, domain.ErrAmbulanceNotFound)
	})
}
