// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// IssueSessionToken mints the credential the client presents when attaching
// to a session over websocket. It is scoped to a single session.
func IssueSessionToken(sessionId, participantName string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"session_id":       sessionId,
		"participant_name": participantName,
		"exp":              time.Now().Add(ttl).Unix(),
		"iat":              time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func JwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr := extractToken(ctx)
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
	}

	ctx.Locals("session_id", claims["session_id"])
	ctx.Locals("participant_name", claims["participant_name"])
	return ctx.Next()
}

// Websocket clients cannot set an Authorization header from the browser, so
// the token is also accepted as a query parameter.
func extractToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) >= 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ctx.Query("token")
}
