package delivery

import (
	"errors"
	"time"

	"attendance/config"
	"attendance/domain"
	"attendance/middleware"

	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"
)

type attendanceHandler struct {
	auc domain.AttendanceUseCase
}

func NewAttendanceDelivery(app *fiber.App, uc domain.AttendanceUseCase) {
	handler := &attendanceHandler{
		auc: uc,
	}

	route := app.Group("/attendance")
	route.Post("/add-bulk", handler.deliveryAddBulk)
	route.Put("/update", handler.deliveryUpdate)
	route.Put("/update-bulk", handler.deliveryUpdateBulk)
	route.Get("/check-course/:course_id/:date", handler.deliveryCheckCourseDate)
	route.Get("/course/:course_id/:date", handler.deliveryCourseAttendance)
	route.Get("/summary/:student_id/:course_id", handler.deliveryStudentSummary)
}

func NewAttendanceDeliveryDeploy(app *fiber.App, uc domain.AttendanceUseCase) {
	handler := &attendanceHandler{
		auc: uc,
	}

	route := app.Group("/attendance")
	route.Post("/add-bulk", middleware.AuthRequired(), middleware.RoleRequired("admin", "staff"), handler.deliveryAddBulk)
	route.Put("/update", middleware.AuthRequired(), middleware.RoleRequired("admin", "staff"), handler.deliveryUpdate)
	route.Put("/update-bulk", middleware.AuthRequired(), middleware.RoleRequired("admin", "staff"), handler.deliveryUpdateBulk)
	route.Get("/check-course/:course_id/:date", middleware.AuthRequired(), handler.deliveryCheckCourseDate)
	route.Get("/course/:course_id/:date", middleware.AuthRequired(), handler.deliveryCourseAttendance)
	route.Get("/summary/:student_id/:course_id", middleware.AuthRequired(), handler.deliveryStudentSummary)
}

// statusForError maps domain error types onto HTTP statuses. Lock conflicts
// get 409 so clients can tell "already taken" apart from bad input.
func statusForError(err error) int {
	var validationErr *domain.ValidationError
	var lockErr *domain.LockConflictError

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.As(err, &lockErr):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func usernameFromCtx(c *fiber.Ctx) *string {
	if userToken, ok := c.Locals("user").(*domain.Claims); ok {
		return &userToken.Username
	}
	anonymous := "anonymous"
	return &anonymous
}

func (ah *attendanceHandler) deliveryAddBulk(c *fiber.Ctx) error {
	username := usernameFromCtx(c)

	var req domain.BulkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "AddBulkAttendance")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if _, err := govalidator.ValidateStruct(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "AddBulkAttendance")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   govalidator.ErrorsByField(err),
		})
	}

	result, err := ah.auc.AddBulk(c.Context(), req.Attendances)
	if err != nil {
		status := statusForError(err)
		config.PrintLogInfo(username, status, "AddBulkAttendance")

		var lockErr *domain.LockConflictError
		if errors.As(err, &lockErr) {
			return c.Status(status).JSON(fiber.Map{
				"success":                false,
				"message":                "Attendance has already been taken for this course and date",
				"error":                  err.Error(),
				"existing_records_count": lockErr.ExistingRecords,
			})
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Failed to add attendance",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(username, fiber.StatusOK, "AddBulkAttendance")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Attendance added successfully",
		"data":    result,
	})
}

func (ah *attendanceHandler) deliveryUpdate(c *fiber.Ctx) error {
	username := usernameFromCtx(c)

	var entry domain.AttendanceEntry
	if err := c.BodyParser(&entry); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "UpdateAttendance")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if _, err := govalidator.ValidateStruct(&entry); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "UpdateAttendance")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   govalidator.ErrorsByField(err),
		})
	}

	updated, err := ah.auc.Update(c.Context(), entry)
	if err != nil {
		status := statusForError(err)
		config.PrintLogInfo(username, status, "UpdateAttendance")
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update attendance",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(username, fiber.StatusOK, "UpdateAttendance")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Attendance updated successfully",
		"data":    updated,
	})
}

func (ah *attendanceHandler) deliveryUpdateBulk(c *fiber.Ctx) error {
	username := usernameFromCtx(c)

	var req domain.BulkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "UpdateBulkAttendance")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	result, err := ah.auc.UpdateBulk(c.Context(), req.Attendances)
	if err != nil {
		status := statusForError(err)
		config.PrintLogInfo(username, status, "UpdateBulkAttendance")
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update attendance",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(username, fiber.StatusOK, "UpdateBulkAttendance")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Attendance update processed",
		"data":    result,
	})
}

func (ah *attendanceHandler) deliveryCheckCourseDate(c *fiber.Ctx) error {
	username := usernameFromCtx(c)
	courseID := c.Params("course_id")

	date, err := time.Parse(domain.DateLayout, c.Params("date"))
	if err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "CheckCourseDate")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid date, expected YYYY-MM-DD",
			"error":   err.Error(),
		})
	}

	status, err := ah.auc.CourseDateStatus(c.Context(), courseID, date)
	if err != nil {
		httpStatus := statusForError(err)
		config.PrintLogInfo(username, httpStatus, "CheckCourseDate")
		return c.Status(httpStatus).JSON(fiber.Map{
			"success": false,
			"message": "Failed to check course date",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(username, fiber.StatusOK, "CheckCourseDate")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Course date checked successfully",
		"data":    status,
	})
}

func (ah *attendanceHandler) deliveryCourseAttendance(c *fiber.Ctx) error {
	username := usernameFromCtx(c)
	courseID := c.Params("course_id")

	date, err := time.Parse(domain.DateLayout, c.Params("date"))
	if err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "GetCourseAttendance")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid date, expected YYYY-MM-DD",
			"error":   err.Error(),
		})
	}

	records, err := ah.auc.CourseAttendance(c.Context(), courseID, date)
	if err != nil {
		status := statusForError(err)
		config.PrintLogInfo(username, status, "GetCourseAttendance")
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve attendance",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(username, fiber.StatusOK, "GetCourseAttendance")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Attendance retrieved successfully",
		"data":    records,
	})
}

func (ah *attendanceHandler) deliveryStudentSummary(c *fiber.Ctx) error {
	username := usernameFromCtx(c)
	studentID := c.Params("student_id")
	courseID := c.Params("course_id")

	summary, err := ah.auc.StudentSummary(c.Context(), studentID, courseID)
	if err != nil {
		status := statusForError(err)
		config.PrintLogInfo(username, status, "GetStudentSummary")
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve attendance summary",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(username, fiber.StatusOK, "GetStudentSummary")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Attendance summary retrieved successfully",
		"data":    summary,
	})
}
