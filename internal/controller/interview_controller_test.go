package controller

import (
	"context"
	"testing"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInterviewService struct {
	listedFor []string
}

func (s *stubInterviewService) CreateSession(context.Context, dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	return nil, nil
}
func (s *stubInterviewService) Attach(context.Context, string, session.Narrator) (*session.Machine, error) {
	return nil, nil
}
func (s *stubInterviewService) GetSession(string) (*dto.SessionStatusResponse, error) {
	return nil, nil
}
func (s *stubInterviewService) ListSessions(participantName string) []*dto.SessionStatusResponse {
	s.listedFor = append(s.listedFor, participantName)
	return []*dto.SessionStatusResponse{{SessionId: "sess-a", ParticipantName: participantName}}
}
func (s *stubInterviewService) EndSession(context.Context, string) {}
func (s *stubInterviewService) UploadResume(context.Context, dto.UploadResumeRequest) (*dto.UploadResumeResponse, error) {
	return nil, nil
}

func newInterviewApp(t *testing.T) (*fiber.App, *stubInterviewService) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := fiber.New()
	svc := &stubInterviewService{}
	NewInterviewController(svc).RegisterRoutes(app.Group("/api"))
	return app, svc
}

func TestListSessionsUsesTokenIdentity(t *testing.T) {
	app, svc := newInterviewApp(t)

	resp := getWithToken(t, app, "/api/interview/v1/sessions", sessionToken(t, "sess-a", "Ava"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"Ava"}, svc.listedFor)
}

func TestListSessionsRejectsAnonymousToken(t *testing.T) {
	app, svc := newInterviewApp(t)

	resp := getWithToken(t, app, "/api/interview/v1/sessions", sessionToken(t, "sess-a", ""))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, svc.listedFor)
}
