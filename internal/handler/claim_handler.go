package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"afyalink/internal/domain"
	"afyalink/internal/middleware"
	"afyalink/internal/service/claim"
)

type ClaimHandler struct {
	claimService claim.Service
}

func NewClaimHandler(claimService claim.Service) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

func (h *ClaimHandler) Submit(c *fiber.Ctx) error {
	var input domain.SubmitClaimInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.PatientID == uuid.Nil || input.Amount <= 0 || input.FacilityID == "" {
		return middleware.BadRequest("Patient, amount and facility are required")
	}

	cl, err := h.claimService.Submit(c.Context(), currentActor(c), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPatientNotFound):
			return middleware.NotFound("Patient not found")
		case errors.Is(err, domain.ErrMissingShaNumber):
			return middleware.Conflict("Patient has no SHA number on file")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(cl)
}

func (h *ClaimHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("claimId"))
	if err != nil {
		return middleware.BadRequest("Invalid claim ID")
	}

	cl, err := h.claimService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrClaimNotFound) {
			return middleware.NotFound("Claim not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(cl)
}

func (h *ClaimHandler) List(c *fiber.Ctx) error {
	if patientID := c.Query("patient_id"); patientID != "" {
		id, err := uuid.Parse(patientID)
		if err != nil {
			return middleware.BadRequest("Invalid patient ID")
		}
		claims, err := h.claimService.ListByPatient(c.Context(), id)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusOK).JSON(claims)
	}

	facilityID := c.Query("facility_id")
	if facilityID == "" {
		return middleware.BadRequest("facility_id or patient_id is required")
	}

	result, err := h.claimService.List(c.Context(), facilityID, getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
