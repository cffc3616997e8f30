package handlers

import (
	"errors"
	"log"

	"proveedores/internal/models"
	"proveedores/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SupplierHandler handles HTTP requests for the submission flow.
type SupplierHandler struct {
	service *services.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(service *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{
		service: service,
	}
}

// RegisterRoutes registers the submission routes with the Fiber app.
func (h *SupplierHandler) RegisterRoutes(router fiber.Router) {
	supplierRoutes := router.Group("/suppliers")
	supplierRoutes.Post("/", h.HandleSubmit)
}

// HandleSubmit accepts one registration form submission. Every accepted
// submission appends a new history row; resubmitting a known tax id records
// a new version rather than overwriting the old one.
func (h *SupplierHandler) HandleSubmit(c *fiber.Ctx) error {
	var sub models.Submission
	if err := c.BodyParser(&sub); err != nil {
		log.Printf("Error parsing submission body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	result, err := h.service.Submit(sub)
	if err != nil {
		return h.renderSubmitError(c, err)
	}

	message := "Supplier registered successfully"
	if result.Updated {
		message = "Supplier updated - new version recorded"
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  message,
		"supplier": result.Record,
		"revision": result.Revision,
		"reset":    result.ClearForm,
	})
}

// renderSubmitError maps the service error taxonomy onto HTTP responses.
// All failures are user-facing messages; none crash the session.
func (h *SupplierHandler) renderSubmitError(c *fiber.Ctx, err error) error {
	var missing *services.MissingFieldError
	if errors.As(err, &missing) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "All fields are required",
			"field":   missing.Field,
			"error":   missing.Error(),
		})
	}

	var invalid *services.InvalidFormatError
	if errors.As(err, &invalid) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"field":   invalid.Field,
			"error":   invalid.Error(),
		})
	}

	var persistence *services.PersistenceError
	if errors.As(err, &persistence) {
		log.Printf("Error saving submission: %v", persistence.Err)
		// The underlying store error is surfaced verbatim, matching the
		// original form's behavior.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save registration",
			"error":   persistence.Error(),
		})
	}

	log.Printf("Unexpected error handling submission: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process submission",
		"error":   err.Error(),
	})
}
