package handler

import (
	"github.com/gofiber/fiber/v2"

	"afyalink/internal/realtime"
)

type RealtimeHandler struct {
	channel *realtime.Channel
}

func NewRealtimeHandler(channel *realtime.Channel) *RealtimeHandler {
	return &RealtimeHandler{channel: channel}
}

// Status reports the gateway link for dashboards and health tooling.
func (h *RealtimeHandler) Status(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":        h.channel.Status(),
		"attempts":      h.channel.Attempts(),
		"subscriptions": h.channel.Subscriptions(),
	})
}

// Reconnect forces a fresh connection cycle, clearing any backoff stall.
func (h *RealtimeHandler) Reconnect(c *fiber.Ctx) error {
	h.channel.Reconnect()
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": h.channel.Status(),
	})
}
