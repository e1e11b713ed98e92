// FILE: internal/controller/feedback_controller.go
package controller

import (
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFeedbackController interface {
	RegisterRoutes(r fiber.Router)
	ShowBySession(ctx *fiber.Ctx) error
	ListMine(ctx *fiber.Ctx) error
}

type feedbackController struct {
	feedbackService service.IFeedbackService
}

func NewFeedbackController(feedbackService service.IFeedbackService) IFeedbackController {
	return &feedbackController{
		feedbackService: feedbackService,
	}
}

func (c *feedbackController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/feedback/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.ListMine)
	h.Get(":sessionId", c.ShowBySession)
}

func (c *feedbackController) ShowBySession(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId")

	res, err := c.feedbackService.GetBySessionId(ctx.Context(), sessionId)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Feedback report not found"))
	}

	// A token opens its own session's report, or any report owned by the
	// token's participant. Everything else is off limits.
	tokenSession, _ := ctx.Locals("session_id").(string)
	name, _ := ctx.Locals("participant_name").(string)
	if tokenSession != sessionId && (name == "" || res.ParticipantName != name) {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Token not valid for this session"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show feedback report", res))
}

func (c *feedbackController) ListMine(ctx *fiber.Ctx) error {
	name, _ := ctx.Locals("participant_name").(string)
	if name == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Token missing participant identity"))
	}

	res, err := c.feedbackService.ListByParticipant(ctx.Context(), service.ParticipantIdFor(name))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list feedback reports", res))
}
