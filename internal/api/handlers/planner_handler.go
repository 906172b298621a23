package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/postpilothq/postpilot/internal/scheduler"
	"github.com/postpilothq/postpilot/internal/service"
	"github.com/postpilothq/postpilot/internal/transfer"
)

type PlannerHandler struct {
	s service.PlannerService
}

func NewPlannerHandler(service service.PlannerService) *PlannerHandler {
	return &PlannerHandler{s: service}
}

func (h *PlannerHandler) GenerateSchedule(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.GenerateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	entries, ids, err := h.s.GenerateSchedule(c.Context(), userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	response := fiber.Map{
		"entries": entries,
	}
	if ids != nil {
		response["ids"] = ids
	}
	return c.Status(fiber.StatusOK).JSON(response)
}

func (h *PlannerHandler) FindOptimalTime(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.OptimalTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	slot, err := h.s.FindOptimalTime(c.Context(), userID, &req)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, scheduler.ErrNoAvailableSlot) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"platform":       req.Platform,
		"scheduled_time": slot,
	})
}
