package server

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Houeta/hrkeeper/internal/models"
	"github.com/Houeta/hrkeeper/internal/service"
	"github.com/gofiber/fiber/v2"
)

// attendanceResponse is the wire shape of one attendance record. The
// employee reference is embedded, or null when orphaned.
type attendanceResponse struct {
	ID        string           `json:"id"`
	Employee  *models.Employee `json:"employee"`
	Date      string           `json:"date"`
	Status    string           `json:"status"`
	CreatedAt string           `json:"created_at"`
}

func attendancePayload(att models.Attendance) attendanceResponse {
	return attendanceResponse{
		ID:        att.ID,
		Employee:  att.Employee,
		Date:      att.Date.Format(service.DateLayout),
		Status:    att.Status,
		CreatedAt: att.CreatedAt.Format(time.RFC3339),
	}
}

func attendanceListPayload(records []models.Attendance) []attendanceResponse {
	payload := make([]attendanceResponse, 0, len(records))
	for _, att := range records {
		payload = append(payload, attendancePayload(att))
	}

	return payload
}

// employeeListPayload keeps an empty list serialized as [] rather than null.
func employeeListPayload(employees []models.Employee) []models.Employee {
	if employees == nil {
		return []models.Employee{}
	}

	return employees
}

// respondError maps a service error onto the error envelope and the HTTP
// status the contract defines: malformed identifier and validation or
// duplicate failures are 400, a missing entity is 404, anything
// unanticipated is 500 with a generic message and the stringified cause.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	var validationErr *service.ValidationError
	var duplicateErr *service.DuplicateError
	var notFoundErr *service.NotFoundError
	var invalidIDErr *service.InvalidIDError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Validation failed",
			"details": validationErr.Fields,
		})
	case errors.As(err, &duplicateErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Validation failed",
			"details": map[string]string{duplicateErr.Field: duplicateErr.Message},
		})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": notFoundErr.Message,
			"details": notFoundErr.Details,
		})
	case errors.As(err, &invalidIDErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": invalidIDErr.Message,
			"details": invalidIDErr.Details,
		})
	default:
		s.log.ErrorContext(c.UserContext(), "Unexpected failure", slog.String("path", c.Path()), "error", err)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Internal server error",
			"details": err.Error(),
		})
	}
}

// respondInvalidBody reports an unparsable request body.
func respondInvalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   true,
		"message": "Invalid request body",
		"details": err.Error(),
	})
}
