package delivery

import (
	"errors"
	"time"

	"attendance/config"
	"attendance/domain"
	"attendance/middleware"

	"github.com/gofiber/fiber/v2"
)

type notifierHandler struct {
	nuc domain.NotifierUseCase
}

func NewNotifierDelivery(app *fiber.App, uc domain.NotifierUseCase) {
	handler := &notifierHandler{
		nuc: uc,
	}

	route := app.Group("/notifier")
	route.Get("/daily", handler.deliveryNotifyDaily)
}

func NewNotifierDeliveryDeploy(app *fiber.App, uc domain.NotifierUseCase) {
	handler := &notifierHandler{
		nuc: uc,
	}

	route := app.Group("/notifier")
	route.Get("/daily", middleware.AuthRequired(), middleware.RoleRequired("admin"), handler.deliveryNotifyDaily)
}

func (nh *notifierHandler) deliveryNotifyDaily(c *fiber.Ctx) error {
	username := usernameFromCtx(c)

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			config.PrintLogInfo(username, fiber.StatusBadRequest, "NotifyDaily")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid date, expected YYYY-MM-DD",
				"error":   err.Error(),
			})
		}
		date = parsed
	}

	result, err := nh.nuc.NotifyDaily(c.Context(), date)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			config.PrintLogInfo(username, fiber.StatusOK, "NotifyDaily")
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"success": false,
				"message": "No attendance data found for this date",
				"error":   err.Error(),
			})
		}

		status := statusForError(err)
		config.PrintLogInfo(username, status, "NotifyDaily")
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Failed to send daily digests",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(username, fiber.StatusOK, "NotifyDaily")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Daily digests dispatched",
		"data":    result,
	})
}
