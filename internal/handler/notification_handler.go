// FILE: internal/handler/notification_handler.go
package handler

import (
	"time"

	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/service"
	internalWS "ai-interview-be/internal/websocket"
	"ai-interview-be/pkg/events"
	pkgNats "ai-interview-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type NotificationHandler struct {
	publisher *pkgNats.Publisher
	hub       *internalWS.Hub
	logger    logger.ILogger
}

func NewNotificationHandler(pub *pkgNats.Publisher, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		publisher: pub,
		hub:       hub,
		logger:    log,
	}
}

// ServeWs subscribes the caller to their notification stream. The participant
// identity is derived from the session token, so every session of the same
// named participant lands on the same stream.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	_, participantName, err := parseSessionToken(c)
	if err != nil || participantName == "" {
		h.logger.Warn("NotificationHandler", "Invalid token in WS handshake", map[string]interface{}{})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	participantID := service.ParticipantIdFor(participantName)

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"participant_id": participantID})
			internalWS.ServeWs(h.hub, conn, participantID)
			h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"participant_id": participantID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// DebugTriggerEvent simulates an event to test the delivery flow end to end.
func (h *NotificationHandler) DebugTriggerEvent(c *fiber.Ctx) error {
	type Request struct {
		Type    string                 `json:"type"`
		Payload map[string]interface{} `json:"payload"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Type == "" {
		req.Type = "TEST_EVENT"
	}
	if req.Payload == nil {
		req.Payload = make(map[string]interface{})
	}

	if h.publisher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Event publisher not configured"})
	}

	evt := events.BaseEvent{
		Type:       req.Type,
		Data:       req.Payload,
		OccurredAt: time.Now(),
	}
	if err := h.publisher.Publish(c.UserContext(), evt); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "Event Published", "event": evt})
}

func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)

	debug := router.Group("/debug")
	debug.Post("/trigger-notification", h.DebugTriggerEvent)
}
