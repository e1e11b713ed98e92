// FILE: internal/handler/session_handler.go
package handler

import (
	"context"
	"os"

	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/service"
	internalWS "ai-interview-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionHandler owns the websocket endpoint that turns a created session into
// a live one: the handshake attaches the state machine and the connection
// becomes its transport and narrator.
type SessionHandler struct {
	interviewService service.IInterviewService
	logger           logger.ILogger
}

func NewSessionHandler(interviewService service.IInterviewService, log logger.ILogger) *SessionHandler {
	return &SessionHandler{
		interviewService: interviewService,
		logger:           log,
	}
}

func (h *SessionHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/interview/v1/ws", h.ServeSession)
}

// ServeSession upgrades the connection for the session named in the token.
func (h *SessionHandler) ServeSession(c *fiber.Ctx) error {
	sessionId, _, err := parseSessionToken(c)
	if err != nil {
		h.logger.Warn("SessionHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()
		client := internalWS.NewSessionClient(conn, h.logger)

		machine, err := h.interviewService.Attach(ctx, sessionId, client)
		if err != nil {
			h.logger.Warn("SessionHandler", "Attach rejected", map[string]interface{}{
				"session_id": sessionId, "error": err.Error(),
			})
			conn.WriteJSON(fiber.Map{"type": "error", "text": err.Error()})
			conn.Close()
			return
		}

		h.logger.Info("SessionHandler", "Session transport attached", map[string]interface{}{"session_id": sessionId})
		client.Run(ctx, machine)

		// Socket teardown ends the session; for assessments this is the
		// feedback trigger.
		h.interviewService.EndSession(ctx, sessionId)
		h.logger.Info("SessionHandler", "Session transport closed", map[string]interface{}{"session_id": sessionId})
	})(c)
}

// parseSessionToken validates the handshake credential and returns the session
// id and participant name it was minted for. Browsers cannot set headers on
// websocket upgrades, so the query parameter is checked first.
func parseSessionToken(c *fiber.Ctx) (string, string, error) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return "", "", fiber.ErrUnauthorized
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", "", fiber.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fiber.ErrUnauthorized
	}
	sessionId, ok := claims["session_id"].(string)
	if !ok || sessionId == "" {
		return "", "", fiber.ErrUnauthorized
	}
	participantName, _ := claims["participant_name"].(string)

	return sessionId, participantName, nil
}
