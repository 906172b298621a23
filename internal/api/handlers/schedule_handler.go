package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/internal/repository"
	"github.com/postpilothq/postpilot/internal/service"
	"github.com/postpilothq/postpilot/internal/transfer"
)

type ScheduleHandler struct {
	s service.ScheduleService
}

func NewScheduleHandler(service service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{s: service}
}

func requestToPost(userID int64, req *transfer.SchedulePostRequest) *models.ScheduledPost {
	return &models.ScheduledPost{
		UserID:        userID,
		ContentID:     req.ContentID,
		Platform:      req.Platform,
		ScheduledTime: req.ScheduledTime,
		Status:        req.Status,
		ContentType:   req.ContentType,
		Caption:       req.Caption,
		MediaURLs:     req.MediaURLs,
		Tags:          req.Tags,
		Metadata:      req.Metadata,
	}
}

func (h *ScheduleHandler) SchedulePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.SchedulePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	id, err := h.s.SchedulePost(c.Context(), requestToPost(userID, &req))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": id,
	})
}

func (h *ScheduleHandler) BulkSchedule(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.BulkScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	posts := make([]*models.ScheduledPost, 0, len(req.Posts))
	for i := range req.Posts {
		posts = append(posts, requestToPost(userID, &req.Posts[i]))
	}

	ids, err := h.s.BulkSchedule(c.Context(), posts)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ids": ids,
	})
}

func (h *ScheduleHandler) ListScheduledPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	filter := repository.ScheduledPostFilter{
		Platform: c.Query("platform"),
		Status:   c.Query("status"),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid from time",
			})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid to time",
			})
		}
		filter.To = &t
	}

	posts, err := h.s.GetScheduledPosts(c.Context(), userID, &filter)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list scheduled posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *ScheduleHandler) UpdateScheduledPost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	postID, err := c.ParamsInt("id", 0)
	if err != nil || postID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	var update transfer.ScheduledPostUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	err = h.s.UpdateScheduledPost(c.Context(), userID, int64(postID), &update)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, service.ErrPostNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *ScheduleHandler) CancelScheduledPost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	postID, err := c.ParamsInt("id", 0)
	if err != nil || postID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	err = h.s.CancelScheduledPost(c.Context(), userID, int64(postID))
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, service.ErrPostNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *ScheduleHandler) GetScheduleSummary(c *fiber.Ctx) error {
	userID := GetUserID(c)

	summary, err := h.s.GetScheduleSummary(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to build schedule summary",
		})
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
