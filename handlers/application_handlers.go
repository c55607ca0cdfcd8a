package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"hunt/api-gateway/middleware"
	"hunt/api-gateway/models"
	"hunt/api-gateway/repository"
	"hunt/api-gateway/utils"
)

// CreateApplicationRequest is the body of a create. id and createdAt are assigned by
// the server and never read from the request.
type CreateApplicationRequest struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Link        string `json:"link"`
	Status      string `json:"status" example:"Applied"`
	Stage       string `json:"stage" example:"Screening"`
	Description string `json:"description"`
	AIInsights  string `json:"aiInsights"`
	Notes       string `json:"notes"`
	Salary      string `json:"salary"`
	DateApplied string `json:"dateApplied"`
}

func (r CreateApplicationRequest) toModel() models.JobApplication {
	return models.JobApplication{
		Role:        r.Role,
		Company:     r.Company,
		Location:    r.Location,
		Link:        r.Link,
		Status:      r.Status,
		Stage:       r.Stage,
		Description: r.Description,
		AIInsights:  r.AIInsights,
		Notes:       r.Notes,
		Salary:      r.Salary,
		DateApplied: r.DateApplied,
	}
}

// ListApplications godoc
// @Summary List all job applications
// @Description Retrieves every tracked job application. An empty store yields an empty array.
// @Tags applications
// @Produce  json
// @Success 200 {array} models.JobApplication "All job applications"
// @Failure 500 {object} utils.ErrorResponse "Store failure"
// @Router /api/applications [get]
func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	apps, err := h.Service.GetAllApplications(c.UserContext())
	if err != nil {
		return h.respondWithServiceError(c, err, "list job applications")
	}

	h.log(c).WithField("count", len(apps)).Debug("Listed job applications")
	return utils.RespondWithJSON(c, fiber.StatusOK, apps)
}

// CreateApplication godoc
// @Summary Create a job application
// @Description Stores a new job application. Any id or createdAt in the body is ignored; the server assigns both.
// @Tags applications
// @Accept  json
// @Produce  json
// @Param   application body CreateApplicationRequest true "Application to create"
// @Success 200 {object} models.JobApplication "Created application including its id"
// @Failure 400 {object} utils.ErrorResponse "Malformed JSON"
// @Failure 500 {object} utils.ErrorResponse "Store failure"
// @Router /api/applications [post]
func (h *ApplicationHandler) CreateApplication(c *fiber.Ctx) error {
	var req CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		h.log(c).WithError(err).Warn("Error parsing job application")
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse job application JSON: %v", err))
	}

	created, err := h.Service.SaveApplication(c.UserContext(), req.toModel())
	if err != nil {
		return h.respondWithServiceError(c, err, "create job application")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, created)
}

// GetApplication godoc
// @Summary Get a job application
// @Tags applications
// @Produce  json
// @Param   id path string true "Application ID"
// @Success 200 {object} models.JobApplication
// @Failure 404 {object} utils.ErrorResponse "Unknown id"
// @Failure 500 {object} utils.ErrorResponse "Store failure"
// @Router /api/applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	id := c.Params("id")

	app, err := h.Service.GetApplication(c.UserContext(), id)
	if err != nil {
		return h.respondWithServiceError(c, err, "retrieve job application "+id)
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, app)
}

// UpdateApplication godoc
// @Summary Update a job application
// @Description Overwrites role, company, status, stage, description, notes and aiInsights when present and non-null. Other fields in the body are ignored. A body with none of them returns the stored application unchanged.
// @Tags applications
// @Accept  json
// @Produce  json
// @Param   id path string true "Application ID"
// @Param   patch body models.ApplicationPatch true "Fields to change"
// @Success 200 {object} models.JobApplication "Updated application"
// @Failure 400 {object} utils.ErrorResponse "Malformed JSON"
// @Failure 404 {object} utils.ErrorResponse "Unknown id"
// @Failure 500 {object} utils.ErrorResponse "Store failure"
// @Router /api/applications/{id} [put]
func (h *ApplicationHandler) UpdateApplication(c *fiber.Ctx) error {
	id := c.Params("id")

	var patch models.ApplicationPatch
	if err := c.BodyParser(&patch); err != nil {
		h.log(c).WithError(err).WithField("application_id", id).Warn("Error parsing update payload")
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	updated, err := h.Service.UpdateApplication(c.UserContext(), id, patch)
	if err != nil {
		return h.respondWithServiceError(c, err, "update job application "+id)
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, updated)
}

// DeleteApplication godoc
// @Summary Delete a job application
// @Description Removes the application. Deleting an unknown id also succeeds.
// @Tags applications
// @Param   id path string true "Application ID"
// @Success 200 "Empty body"
// @Failure 500 {object} utils.ErrorResponse "Store failure"
// @Router /api/applications/{id} [delete]
func (h *ApplicationHandler) DeleteApplication(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.Service.DeleteApplication(c.UserContext(), id); err != nil {
		return h.respondWithServiceError(c, err, "delete job application "+id)
	}

	c.Status(fiber.StatusOK)
	return nil
}

// HealthCheck godoc
// @Summary Health check
// @Tags health
// @Produce  json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *ApplicationHandler) HealthCheck(c *fiber.Ctx) error {
	if h.Health != nil {
		if err := h.Health.Ping(c.UserContext()); err != nil {
			h.log(c).WithError(err).Error("Store health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "unavailable",
				"message": err.Error(),
			})
		}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"message": "Job tracker API is healthy",
	})
}

func (h *ApplicationHandler) respondWithServiceError(c *fiber.Ctx, err error, action string) error {
	if errors.Is(err, repository.ErrNotFound) {
		h.log(c).WithError(err).Warn("Job application not found")
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Could not %s: %v", action, repository.ErrNotFound))
	}

	h.log(c).WithError(err).Error("Job application request failed")
	return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not %s: %v", action, err))
}

func (h *ApplicationHandler) log(c *fiber.Ctx) *logrus.Entry {
	return h.Logger.WithField("request_id", middleware.RequestID(c))
}
