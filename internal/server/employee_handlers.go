package server

import (
	"github.com/Houeta/hrkeeper/internal/service"
	"github.com/gofiber/fiber/v2"
)

// listEmployees handles GET /employees/ and returns all employee records.
func (s *Server) listEmployees(c *fiber.Ctx) error {
	employees, err := s.employees.List(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}

	payload := employeeListPayload(employees)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payload,
		"count":   len(payload),
	})
}

// createEmployee handles POST /employees/.
func (s *Server) createEmployee(c *fiber.Ctx) error {
	var input service.EmployeeInput
	if err := c.BodyParser(&input); err != nil {
		return respondInvalidBody(c, err)
	}

	emp, err := s.employees.Create(c.UserContext(), input)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Employee created successfully",
		"data":    emp,
	})
}

// getEmployee handles GET /employees/{id}/.
func (s *Server) getEmployee(c *fiber.Ctx) error {
	emp, err := s.employees.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    emp,
	})
}

// updateEmployee handles PUT /employees/{id}/ with full replace semantics.
func (s *Server) updateEmployee(c *fiber.Ctx) error {
	var input service.EmployeeInput
	if err := c.BodyParser(&input); err != nil {
		return respondInvalidBody(c, err)
	}

	emp, err := s.employees.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Employee updated successfully",
		"data":    emp,
	})
}

// patchEmployee handles PATCH /employees/{id}/update/ and applies only the
// provided fields.
func (s *Server) patchEmployee(c *fiber.Ctx) error {
	var patch service.EmployeePatch
	if err := c.BodyParser(&patch); err != nil {
		return respondInvalidBody(c, err)
	}

	emp, err := s.employees.PartialUpdate(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Employee updated successfully",
		"data":    emp,
	})
}

// deleteEmployee handles DELETE /employees/{id}/. Attendance records of the
// deleted employee are left in place.
func (s *Server) deleteEmployee(c *fiber.Ctx) error {
	if err := s.employees.Delete(c.UserContext(), c.Params("id")); err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Employee deleted successfully",
	})
}
