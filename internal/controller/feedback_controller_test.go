package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeedbackService struct {
	reports map[string]*dto.FeedbackReportResponse
}

func (s *stubFeedbackService) Generate(context.Context, session.ReportRequest) error { return nil }
func (s *stubFeedbackService) GetBySessionId(_ context.Context, sessionId string) (*dto.FeedbackReportResponse, error) {
	return s.reports[sessionId], nil
}
func (s *stubFeedbackService) ListByParticipant(context.Context, uuid.UUID) ([]*dto.FeedbackReportResponse, error) {
	return nil, nil
}

func newFeedbackApp(t *testing.T) *fiber.App {
	t.Setenv("JWT_SECRET", "test-secret")
	app := fiber.New()
	svc := &stubFeedbackService{reports: map[string]*dto.FeedbackReportResponse{
		"sess-a": {SessionId: "sess-a", ParticipantName: "Ava"},
	}}
	NewFeedbackController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func getWithToken(t *testing.T, app *fiber.App, path, token string) *http.Response {
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func sessionToken(t *testing.T, sessionId, participantName string) string {
	token, err := serverutils.IssueSessionToken(sessionId, participantName, time.Hour)
	require.NoError(t, err)
	return token
}

func TestShowBySessionWithOwnToken(t *testing.T) {
	app := newFeedbackApp(t)

	resp := getWithToken(t, app, "/api/feedback/v1/sess-a", sessionToken(t, "sess-a", "Ava"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestShowBySessionRejectsForeignToken(t *testing.T) {
	app := newFeedbackApp(t)

	// A perfectly valid token for another session must not open this report.
	resp := getWithToken(t, app, "/api/feedback/v1/sess-a", sessionToken(t, "sess-b", "Mallory"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestShowBySessionAllowsOwnerAcrossSessions(t *testing.T) {
	app := newFeedbackApp(t)

	// Same participant, later session: the report is still theirs to read.
	resp := getWithToken(t, app, "/api/feedback/v1/sess-a", sessionToken(t, "sess-b", "Ava"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestShowBySessionMissingToken(t *testing.T) {
	app := newFeedbackApp(t)

	resp := getWithToken(t, app, "/api/feedback/v1/sess-a", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestShowBySessionUnknownReport(t *testing.T) {
	app := newFeedbackApp(t)

	resp := getWithToken(t, app, "/api/feedback/v1/sess-x", sessionToken(t, "sess-x", "Ava"))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
