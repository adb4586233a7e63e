package delivery

import (
	"attendance/config"
	"attendance/domain"

	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"
)

type authHandler struct {
	auc domain.AuthUseCase
}

func NewAuthDelivery(app *fiber.App, uc domain.AuthUseCase) {
	handler := &authHandler{
		auc: uc,
	}

	app.Post("/login", handler.deliveryLogin)

	route := app.Group("/otp")
	route.Post("/request", handler.deliveryRequestOTP)
	route.Post("/verify", handler.deliveryVerifyOTP)
}

func (ah *authHandler) deliveryLogin(c *fiber.Ctx) error {
	username := usernameFromCtx(c)

	var req domain.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "Login")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if _, err := govalidator.ValidateStruct(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "Login")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   govalidator.ErrorsByField(err),
		})
	}

	resp, err := ah.auc.Login(c.Context(), &req)
	if err != nil {
		config.PrintLogInfo(&req.Username, fiber.StatusUnauthorized, "Login")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Login failed",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(&req.Username, fiber.StatusOK, "Login")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data":    resp,
	})
}

func (ah *authHandler) deliveryRequestOTP(c *fiber.Ctx) error {
	username := usernameFromCtx(c)

	var req domain.OTPRequest
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "RequestOTP")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if _, err := govalidator.ValidateStruct(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "RequestOTP")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   govalidator.ErrorsByField(err),
		})
	}

	// The issued code goes out by email, never in the HTTP response.
	if err := ah.auc.RequestOTP(c.Context(), req.Email); err != nil {
		config.PrintLogInfo(username, fiber.StatusInternalServerError, "RequestOTP")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to issue OTP",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(username, fiber.StatusOK, "RequestOTP")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "OTP issued successfully",
	})
}

func (ah *authHandler) deliveryVerifyOTP(c *fiber.Ctx) error {
	username := usernameFromCtx(c)

	var req domain.OTPVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "VerifyOTP")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if _, err := govalidator.ValidateStruct(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "VerifyOTP")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   govalidator.ErrorsByField(err),
		})
	}

	ok, err := ah.auc.VerifyOTP(c.Context(), req.Email, req.OTP)
	if err != nil {
		config.PrintLogInfo(username, fiber.StatusInternalServerError, "VerifyOTP")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to verify OTP",
			"error":   err.Error(),
		})
	}

	if !ok {
		config.PrintLogInfo(username, fiber.StatusUnauthorized, "VerifyOTP")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid or expired OTP",
		})
	}

	config.PrintLogInfo(username, fiber.StatusOK, "VerifyOTP")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "OTP verified successfully",
	})
}
