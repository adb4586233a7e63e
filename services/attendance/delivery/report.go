package delivery

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"attendance/config"
	"attendance/domain"
	"attendance/middleware"

	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"
)

type reportHandler struct {
	ruc domain.ReportUseCase
}

func NewReportDelivery(app *fiber.App, uc domain.ReportUseCase) {
	handler := &reportHandler{
		ruc: uc,
	}

	route := app.Group("/reports")
	route.Post("/course/xlsx", handler.deliveryCourseXLSX)
	route.Post("/course/pdf", handler.deliveryCoursePDF)
	route.Post("/semester/xlsx", handler.deliverySemesterXLSX)
}

func NewReportDeliveryDeploy(app *fiber.App, uc domain.ReportUseCase) {
	handler := &reportHandler{
		ruc: uc,
	}

	route := app.Group("/reports")
	route.Post("/course/xlsx", middleware.AuthRequired(), middleware.RoleRequired("admin", "staff"), handler.deliveryCourseXLSX)
	route.Post("/course/pdf", middleware.AuthRequired(), middleware.RoleRequired("admin", "staff"), handler.deliveryCoursePDF)
	route.Post("/semester/xlsx", middleware.AuthRequired(), middleware.RoleRequired("admin", "staff"), handler.deliverySemesterXLSX)
}

func (rh *reportHandler) parseCourseRequest(c *fiber.Ctx, fnName string) (*domain.CourseReportRequest, *time.Time, *time.Time, error) {
	username := usernameFromCtx(c)

	var req domain.CourseReportRequest
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, fnName)
		return nil, nil, nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if _, err := govalidator.ValidateStruct(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, fnName)
		return nil, nil, nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   govalidator.ErrorsByField(err),
		})
	}

	var from, to *time.Time
	for _, bound := range []struct {
		raw  string
		dest **time.Time
	}{{req.From, &from}, {req.To, &to}} {
		if bound.raw == "" {
			continue
		}
		t, err := time.Parse(domain.DateLayout, bound.raw)
		if err != nil {
			config.PrintLogInfo(username, fiber.StatusBadRequest, fnName)
			return nil, nil, nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", bound.raw),
				"error":   err.Error(),
			})
		}
		*bound.dest = &t
	}

	return &req, from, to, nil
}

// sendReportFile streams a rendered artifact. ErrNoData is not a failure:
// there is simply nothing to render, and the client gets told so.
func (rh *reportHandler) sendReportFile(c *fiber.Ctx, fnName, contentType, path string, err error) error {
	username := usernameFromCtx(c)

	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			config.PrintLogInfo(username, fiber.StatusOK, fnName)
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"success": false,
				"message": "No attendance data found for this report",
				"error":   err.Error(),
			})
		}

		status := statusForError(err)
		config.PrintLogInfo(username, status, fnName)
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate report",
			"error":   err.Error(),
		})
	}

	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filepath.Base(path)))
	c.Set("Content-Type", contentType)

	config.PrintLogInfo(username, fiber.StatusOK, fnName)
	return c.SendFile(path)
}

func (rh *reportHandler) deliveryCourseXLSX(c *fiber.Ctx) error {
	req, from, to, err := rh.parseCourseRequest(c, "CourseReportXLSX")
	if req == nil {
		return err
	}

	path, genErr := rh.ruc.CourseReportXLSX(c.Context(), req.CourseID, from, to)
	return rh.sendReportFile(c, "CourseReportXLSX",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", path, genErr)
}

func (rh *reportHandler) deliveryCoursePDF(c *fiber.Ctx) error {
	req, from, to, err := rh.parseCourseRequest(c, "CourseReportPDF")
	if req == nil {
		return err
	}

	path, genErr := rh.ruc.CourseReportPDF(c.Context(), req.CourseID, from, to)
	return rh.sendReportFile(c, "CourseReportPDF", "application/pdf", path, genErr)
}

func (rh *reportHandler) deliverySemesterXLSX(c *fiber.Ctx) error {
	username := usernameFromCtx(c)

	var req domain.SemesterReportRequest
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "SemesterReportXLSX")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if _, err := govalidator.ValidateStruct(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "SemesterReportXLSX")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   govalidator.ErrorsByField(err),
		})
	}

	path, genErr := rh.ruc.SemesterReportXLSX(c.Context(), req.SemID)
	return rh.sendReportFile(c, "SemesterReportXLSX",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", path, genErr)
}
