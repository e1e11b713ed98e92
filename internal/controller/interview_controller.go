// FILE: internal/controller/interview_controller.go
package controller

import (
	"errors"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IInterviewController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	EndSession(ctx *fiber.Ctx) error
	UploadResume(ctx *fiber.Ctx) error
}

type interviewController struct {
	interviewService service.IInterviewService
}

func NewInterviewController(interviewService service.IInterviewService) IInterviewController {
	return &interviewController{
		interviewService: interviewService,
	}
}

func (c *interviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/interview/v1")
	h.Post("sessions", c.CreateSession)
	h.Post("resumes", c.UploadResume)

	// Session-scoped routes carry the token minted at creation.
	protected := h.Group("sessions", serverutils.JwtMiddleware)
	protected.Get("", c.ListSessions)
	protected.Get(":id", c.ShowSession)
	protected.Post(":id/end", c.EndSession)
}

func (c *interviewController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.interviewService.CreateSession(ctx.Context(), req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *interviewController) ShowSession(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	// The token is scoped to a single session; reject cross-session reads.
	if tokenSession, _ := ctx.Locals("session_id").(string); tokenSession != id {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Token not valid for this session"))
	}

	res, err := c.interviewService.GetSession(id)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *interviewController) ListSessions(ctx *fiber.Ctx) error {
	// Listing is scoped to the token's participant; there is no admin role
	// that could see everyone's sessions.
	name, _ := ctx.Locals("participant_name").(string)
	if name == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Token missing participant identity"))
	}

	res := c.interviewService.ListSessions(name)
	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *interviewController) EndSession(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	if tokenSession, _ := ctx.Locals("session_id").(string); tokenSession != id {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Token not valid for this session"))
	}

	c.interviewService.EndSession(ctx.Context(), id)
	return ctx.JSON(serverutils.SuccessResponse[any]("Success end session", nil))
}

func (c *interviewController) UploadResume(ctx *fiber.Ctx) error {
	var req dto.UploadResumeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.interviewService.UploadResume(ctx.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrStoreUnavailable) {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, "Resume indexing is not available"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload resume", res))
}
