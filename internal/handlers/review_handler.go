package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"time"

	"proveedores/internal/services"
	"proveedores/pkg/spreadsheet"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for the gated review flow: unlocking
// with the shared passphrase, browsing the latest version per supplier and
// downloading the export.
type ReviewHandler struct {
	supplierService *services.SupplierService
	accessService   *services.AccessService
	validate        *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(supplierService *services.SupplierService, accessService *services.AccessService) *ReviewHandler {
	return &ReviewHandler{
		supplierService: supplierService,
		accessService:   accessService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the review routes with the Fiber app. The gate
// middleware protects everything except login.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, gate fiber.Handler) {
	reviewRoutes := router.Group("/review")
	reviewRoutes.Post("/login", h.HandleLogin)
	reviewRoutes.Get("/suppliers", gate, h.HandleLatest)
	reviewRoutes.Get("/history", gate, h.HandleHistory)
	reviewRoutes.Get("/export", gate, h.HandleExport)
}

// LoginRequest represents the request body for unlocking the review flow.
type LoginRequest struct {
	Passphrase string `json:"passphrase" validate:"required"`
}

// HandleLogin exchanges the shared passphrase for a session token. A wrong
// passphrase leaves the gate locked and reports an authentication failure.
func (h *ReviewHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	token, err := h.accessService.Unlock(req.Passphrase)
	if err != nil {
		if errors.Is(err, services.ErrAuthFailed) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication failed",
				"error":   err.Error(),
			})
		}
		log.Printf("Error issuing session token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not issue session token",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Review access granted",
		"token":   token,
	})
}

// HandleLatest returns the most recent registration per distinct tax id.
func (h *ReviewHandler) HandleLatest(c *fiber.Ctx) error {
	records, err := h.supplierService.Latest()
	if err != nil {
		log.Printf("Error resolving latest supplier versions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve suppliers",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"suppliers": records,
		"count":     len(records),
	})
}

// HandleHistory returns every stored submission, oldest first.
func (h *ReviewHandler) HandleHistory(c *fiber.Ctx) error {
	records, err := h.supplierService.History()
	if err != nil {
		log.Printf("Error retrieving supplier history: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve supplier history",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"suppliers": records,
		"count":     len(records),
	})
}

// HandleExport streams the latest-version set as a downloadable file.
// Supported formats: xlsx (default) and csv.
func (h *ReviewHandler) HandleExport(c *fiber.Ctx) error {
	records, err := h.supplierService.Latest()
	if err != nil {
		log.Printf("Error resolving suppliers for export: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not export suppliers",
			"error":   err.Error(),
		})
	}

	format := c.Query("format", "xlsx")
	filename := fmt.Sprintf("proveedores_%s.%s", time.Now().Format("20060102"), format)

	var buf bytes.Buffer
	switch format {
	case "csv":
		err = spreadsheet.WriteCSV(&buf, records)
		c.Set(fiber.HeaderContentType, spreadsheet.ContentTypeCSV)
	case "xlsx":
		err = spreadsheet.WriteXLSX(&buf, records)
		c.Set(fiber.HeaderContentType, spreadsheet.ContentTypeXLSX)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Unsupported export format: %s", format),
		})
	}
	if err != nil {
		log.Printf("Error serializing %s export: %v", format, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not generate export file",
			"error":   err.Error(),
		})
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
