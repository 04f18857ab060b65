package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	apperrors "fanout-runner/errors"
	"fanout-runner/logging"
	"fanout-runner/models"
	"fanout-runner/services"
)

type InvocationHandler struct {
	service *services.InvocationService
	logger  logging.Logger
}

func NewInvocationHandler(svc *services.InvocationService, logger logging.Logger) *InvocationHandler {
	return &InvocationHandler{service: svc, logger: logger}
}

// Register mounts the invocation routes on router
func (h *InvocationHandler) Register(router fiber.Router) {
	router.Post("/invoke", h.Invoke)
	router.Post("/invocations", h.Enqueue)
	router.Get("/invocations/:id", h.GetResult)
}

// Invoke godoc
// @Summary Run the fan-out synchronously
// @Description Launches 10 workers, waits up to 30 seconds, and returns timing and status
// @Tags invocations
// @Accept json
// @Produce json
// @Param event body object false "Opaque event, not inspected"
// @Success 200 {object} models.InvocationResponse
// @Failure 500 {object} models.InvocationResponse
// @Router /invoke [post]
func (h *InvocationHandler) Invoke(c *fiber.Ctx) error {
	resp := h.service.Invoke(c.UserContext(), parseEvent(c))
	if resp.Failed() {
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
	return c.JSON(resp)
}

// Enqueue godoc
// @Summary Queue an async fan-out invocation
// @Tags invocations
// @Accept json
// @Produce json
// @Param event body object false "Opaque event, not inspected"
// @Success 202 {object} models.EnqueueResponse
// @Failure 503 {object} map[string]string
// @Router /invocations [post]
func (h *InvocationHandler) Enqueue(c *fiber.Ctx) error {
	inv, err := h.service.Enqueue(c.UserContext(), parseEvent(c))
	if errors.Is(err, apperrors.ErrQueueDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		h.logger.Error("enqueue failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(models.EnqueueResponse{
		InvocationID: inv.InvocationID,
		Status:       models.StatusPending,
	})
}

// GetResult godoc
// @Summary Get an async invocation result
// @Description Returns the stored response, or 202 while the invocation is pending
// @Tags invocations
// @Produce json
// @Param id path string true "Invocation ID"
// @Success 200 {object} models.InvocationResult
// @Success 202 {object} models.EnqueueResponse
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /invocations/{id} [get]
func (h *InvocationHandler) GetResult(c *fiber.Ctx) error {
	id := c.Params("id")

	result, err := h.service.GetResult(c.UserContext(), id)
	if errors.Is(err, apperrors.ErrQueueDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Still pending
	if result == nil {
		return c.Status(fiber.StatusAccepted).JSON(models.EnqueueResponse{
			InvocationID: id,
			Status:       models.StatusPending,
		})
	}

	return c.JSON(result)
}

// parseEvent decodes a JSON object body. Anything else yields an empty
// event, since the event is never interpreted.
func parseEvent(c *fiber.Ctx) map[string]interface{} {
	event := make(map[string]interface{})
	if len(c.Body()) == 0 {
		return event
	}
	if err := c.BodyParser(&event); err != nil {
		return make(map[string]interface{})
	}
	return event
}
