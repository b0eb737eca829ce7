package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskmasters/taskmasters-api/internal/dto"
	"github.com/taskmasters/taskmasters-api/internal/scope"
	"github.com/taskmasters/taskmasters-api/internal/services"
)

type PomodoroHandler struct {
	service *services.PomodoroService
}

func NewPomodoroHandler(service *services.PomodoroService) *PomodoroHandler {
	return &PomodoroHandler{service: service}
}

func (h *PomodoroHandler) Record(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.RecordPomodoroRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	session, err := h.service.Record(userID, req.TaskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotOwned) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to record pomodoro",
		})
	}

	stats, err := h.service.TodayStats(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute today's stats",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RecordPomodoroResponse{
		Pomodoro:   *session,
		TodayStats: *stats,
	})
}

func (h *PomodoroHandler) Today(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	sessions, err := h.service.TodaySessions(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch today's pomodoros",
		})
	}

	stats, err := h.service.TodayStats(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute today's stats",
		})
	}

	return c.JSON(dto.TodayResponse{Pomodoros: sessions, Stats: *stats})
}

func (h *PomodoroHandler) Week(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	rows, err := h.service.WeekStats(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch week stats",
		})
	}

	return c.JSON(rows)
}

func (h *PomodoroHandler) Range(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	rows, err := h.service.ByDateRange(userID, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		if errors.Is(err, services.ErrEmptyDateRange) || errors.Is(err, services.ErrInvalidDate) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch pomodoros by range",
		})
	}

	return c.JSON(rows)
}

func (h *PomodoroHandler) Stats(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	general, err := h.service.GeneralStats(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute general stats",
		})
	}

	today, err := h.service.TodayStats(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute today's stats",
		})
	}

	return c.JSON(dto.GeneralStatsResponse{General: *general, Today: *today})
}

func (h *PomodoroHandler) UpdateGoal(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	goal, err := h.service.UpdateGoal(userID, req.Goal)
	if err != nil {
		if errors.Is(err, services.ErrInvalidGoal) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update goal",
		})
	}

	stats, err := h.service.TodayStats(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute today's stats",
		})
	}

	return c.JSON(dto.GoalResponse{Goal: goal, TodayStats: *stats})
}

func (h *PomodoroHandler) Delete(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	pomodoroID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid pomodoro ID",
		})
	}

	deleted, err := h.service.Delete(pomodoroID, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete pomodoro",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Pomodoro not found",
		})
	}

	stats, err := h.service.TodayStats(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute today's stats",
		})
	}

	return c.JSON(dto.DeletePomodoroResponse{
		Message:    "Pomodoro deleted successfully",
		TodayStats: *stats,
	})
}
