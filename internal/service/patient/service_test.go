package patient_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"afyalink/internal/domain"
	"afyalink/internal/service/audit"
	"afyalink/internal/service/patient"
	"afyalink/tests/mocks"
)

func stringPtr(s string) *string { return &s }

func TestPatientService_Create(t *testing.T) {
	ctx := context.Background()
	actor := audit.Actor{ID: uuid.New(), Role: "nurse", Name: "Grace Njeri"}

	input := domain.CreatePatientInput{
		FirstName:  "Wanjiku",
		LastName:   "Kamau",
		ShaNumber:  stringPtr("SHA-00123456"),
		FacilityID: "KNH-001",
	}

	t.Run("Success", func(t *testing.T) {
		patientRepo := new(mocks.PatientRepository)
		auditRepo := new(mocks.AuditLogRepository)
		auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
		svc := patient.NewService(patientRepo, audit.NewSink(auditRepo))

		patientRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Patient) bool {
			return p.FirstName == "Wanjiku" && p.CreatedBy == actor.ID
		})).Return(nil).Once()

		p, err := svc.Create(ctx, actor, input)

		assert.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, "KNH-001", p.FacilityID)
		patientRepo.AssertExpectations(t)
	})

	t.Run("Repo Error", func(t *testing.T) {
		patientRepo := new(mocks.PatientRepository)
		auditRepo := new(mocks.AuditLogRepository)
		svc := patient.NewService(patientRepo, audit.NewSink(auditRepo))

		patientRepo.On("Create", ctx, mock.Anything).Return(errors.New("db error")).Once()

		p, err := svc.Create(ctx, actor, input)

		assert.Error(t, err)
		assert.Nil(t, p)
		auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestPatientService_Update(t *testing.T) {
	ctx := context.Background()
	actor := audit.Actor{ID: uuid.New(), Role: "doctor"}
	patientID := uuid.New()

	t.Run("Not Found", func(t *testing.T) {
		patientRepo := new(mocks.PatientRepository)
		svc := patient.NewService(patientRepo, audit.NewSink(new(mocks.AuditLogRepository)))

		patientRepo.On("GetByID", ctx, patientID).Return(nil, nil).Once()

		p, err := svc.Update(ctx, actor, patientID, domain.UpdatePatientInput{})

		assert.ErrorIs(t, err, domain.ErrPatientNotFound)
		assert.Nil(t, p)
	})

	t.Run("Applies Changes", func(t *testing.T) {
		patientRepo := new(mocks.PatientRepository)
		auditRepo := new(mocks.AuditLogRepository)
		auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
		svc := patient.NewService(patientRepo, audit.NewSink(auditRepo))

		existing := &domain.Patient{ID: patientID, FirstName: "Wanjiku", LastName: "Kamau"}
		patientRepo.On("GetByID", ctx, patientID).Return(existing, nil).Once()
		patientRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Patient) bool {
			return p.TriageLevel != nil && *p.TriageLevel == domain.TriageCritical
		})).Return(nil).Once()

		level := domain.TriageCritical
		p, err := svc.Update(ctx, actor, patientID, domain.UpdatePatientInput{TriageLevel: &level})

		assert.NoError(t, err)
		assert.Equal(t, domain.TriageCritical, *p.TriageLevel)
		patientRepo.AssertExpectations(t)
	})
}

func TestPatientService_Delete(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()

	patientRepo := new(mocks.PatientRepository)
	auditRepo := new(mocks.AuditLogRepository)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	svc := patient.NewService(patientRepo, audit.NewSink(auditRepo))

	existing := &domain.Patient{ID: patientID, FirstName: "Wanjiku"}
	patientRepo.On("GetByID", ctx, patientID).Return(existing, nil).Once()
	patientRepo.On("Delete", ctx, patientID).Return(nil).Once()

	err := svc.Delete(ctx, audit.Actor{ID: uuid.New()}, patientID)

	assert.NoError(t, err)
	patientRepo.AssertExpectations(t)
}

func TestPatientService_GetByShaNumber(t *testing.T) {
	ctx := context.Background()
	patientRepo := new(mocks.PatientRepository)
	svc := patient.NewService(patientRepo, audit.NewSink(new(mocks.AuditLogRepository)))

	patientRepo.On("GetByShaNumber", ctx, "SHA-99999999").Return(nil, nil).Once()

	_, err := svc.GetByShaNumber(ctx, "SHA-99999999")
	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
}
