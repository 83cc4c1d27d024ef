package delivery

import (
	"attendance/config"
	"attendance/domain"
	"attendance/middleware"
	"context"

	"github.com/gofiber/fiber/v2"
)

type notifHandler struct {
	uc domain.NotificationUseCase
}

func NewNotificationDelivery(app *fiber.App, uc domain.NotificationUseCase) {
	handler := &notifHandler{
		uc: uc,
	}

	group := app.Group("/notification")
	group.Get("/history", middleware.AuthRequired(), middleware.RoleRequired("admin"), handler.GetNotificationHistory)
}

func (nh *notifHandler) GetNotificationHistory(c *fiber.Ctx) error {
	userToken := c.Locals("user").(*domain.Claims)

	datas, err := nh.uc.History(context.Background(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusInternalServerError, "GetNotificationHistory")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get notification history",
		})
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "GetNotificationHistory")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Successfully retrieved notification history",
		"data":    datas,
	})
}
